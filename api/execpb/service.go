package execpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "occlum_exec.OcclumExec"

const (
	OcclumExec_StatusCheck_FullMethodName = "/occlum_exec.OcclumExec/StatusCheck"
	OcclumExec_StopServer_FullMethodName  = "/occlum_exec.OcclumExec/StopServer"
	OcclumExec_ExecCommand_FullMethodName = "/occlum_exec.OcclumExec/ExecCommand"
	OcclumExec_GetResult_FullMethodName   = "/occlum_exec.OcclumExec/GetResult"
	OcclumExec_KillProcess_FullMethodName = "/occlum_exec.OcclumExec/KillProcess"
)

// ExecClient is the client API for the OcclumExec service
type ExecClient interface {
	StatusCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error)
	StopServer(ctx context.Context, in *StopRequest, opts ...grpc.CallOption) (*StopResponse, error)
	ExecCommand(ctx context.Context, in *ExecCommRequest, opts ...grpc.CallOption) (*ExecCommResponse, error)
	GetResult(ctx context.Context, in *GetResultRequest, opts ...grpc.CallOption) (*GetResultResponse, error)
	KillProcess(ctx context.Context, in *KillProcessRequest, opts ...grpc.CallOption) (*KillProcessResponse, error)
}

type execClient struct {
	cc grpc.ClientConnInterface
}

// NewExecClient binds the service to a connection. Every call forces Codec,
// so the connection does not need WithCodec.
func NewExecClient(cc grpc.ClientConnInterface) ExecClient {
	return &execClient{cc}
}

func (c *execClient) invoke(ctx context.Context, method string, in, out Message, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *execClient) StatusCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error) {
	out := new(HealthCheckResponse)
	if err := c.invoke(ctx, OcclumExec_StatusCheck_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *execClient) StopServer(ctx context.Context, in *StopRequest, opts ...grpc.CallOption) (*StopResponse, error) {
	out := new(StopResponse)
	if err := c.invoke(ctx, OcclumExec_StopServer_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *execClient) ExecCommand(ctx context.Context, in *ExecCommRequest, opts ...grpc.CallOption) (*ExecCommResponse, error) {
	out := new(ExecCommResponse)
	if err := c.invoke(ctx, OcclumExec_ExecCommand_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *execClient) GetResult(ctx context.Context, in *GetResultRequest, opts ...grpc.CallOption) (*GetResultResponse, error) {
	out := new(GetResultResponse)
	if err := c.invoke(ctx, OcclumExec_GetResult_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *execClient) KillProcess(ctx context.Context, in *KillProcessRequest, opts ...grpc.CallOption) (*KillProcessResponse, error) {
	out := new(KillProcessResponse)
	if err := c.invoke(ctx, OcclumExec_KillProcess_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// ExecServer is the server API for the OcclumExec service
type ExecServer interface {
	StatusCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
	StopServer(context.Context, *StopRequest) (*StopResponse, error)
	ExecCommand(context.Context, *ExecCommRequest) (*ExecCommResponse, error)
	GetResult(context.Context, *GetResultRequest) (*GetResultResponse, error)
	KillProcess(context.Context, *KillProcessRequest) (*KillProcessResponse, error)
}

// UnimplementedExecServer can be embedded to satisfy ExecServer partially
type UnimplementedExecServer struct{}

func (UnimplementedExecServer) StatusCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StatusCheck not implemented")
}

func (UnimplementedExecServer) StopServer(context.Context, *StopRequest) (*StopResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StopServer not implemented")
}

func (UnimplementedExecServer) ExecCommand(context.Context, *ExecCommRequest) (*ExecCommResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExecCommand not implemented")
}

func (UnimplementedExecServer) GetResult(context.Context, *GetResultRequest) (*GetResultResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetResult not implemented")
}

func (UnimplementedExecServer) KillProcess(context.Context, *KillProcessRequest) (*KillProcessResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method KillProcess not implemented")
}

// RegisterExecServer registers srv on s. The server must be created with
// ServerCodec so requests are decoded into execpb messages.
func RegisterExecServer(s grpc.ServiceRegistrar, srv ExecServer) {
	s.RegisterService(&ExecServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodHandler
func unaryHandler[Req any, Resp any, PReq interface {
	*Req
	Message
}](fullMethod string, call func(ExecServer, context.Context, PReq) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ExecServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ExecServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ExecServiceDesc is the grpc.ServiceDesc for the OcclumExec service
var ExecServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExecServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "StatusCheck",
			Handler: unaryHandler(OcclumExec_StatusCheck_FullMethodName,
				func(s ExecServer, ctx context.Context, in *HealthCheckRequest) (*HealthCheckResponse, error) {
					return s.StatusCheck(ctx, in)
				}),
		},
		{
			MethodName: "StopServer",
			Handler: unaryHandler(OcclumExec_StopServer_FullMethodName,
				func(s ExecServer, ctx context.Context, in *StopRequest) (*StopResponse, error) {
					return s.StopServer(ctx, in)
				}),
		},
		{
			MethodName: "ExecCommand",
			Handler: unaryHandler(OcclumExec_ExecCommand_FullMethodName,
				func(s ExecServer, ctx context.Context, in *ExecCommRequest) (*ExecCommResponse, error) {
					return s.ExecCommand(ctx, in)
				}),
		},
		{
			MethodName: "GetResult",
			Handler: unaryHandler(OcclumExec_GetResult_FullMethodName,
				func(s ExecServer, ctx context.Context, in *GetResultRequest) (*GetResultResponse, error) {
					return s.GetResult(ctx, in)
				}),
		},
		{
			MethodName: "KillProcess",
			Handler: unaryHandler(OcclumExec_KillProcess_FullMethodName,
				func(s ExecServer, ctx context.Context, in *KillProcessRequest) (*KillProcessResponse, error) {
					return s.KillProcess(ctx, in)
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "occlum_exec.proto",
}
