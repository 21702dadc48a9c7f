// ============================================================================
// occlum-exec - Client for the Occlum execution service
// ============================================================================
//
// Package:     execpb
// Description: Message types of the occlum_exec.OcclumExec service
// License:     MIT
// ============================================================================

package execpb

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// ServingStatus is the health state reported by StatusCheck
type ServingStatus int32

const (
	ServingStatusUnknown    ServingStatus = 0
	ServingStatusServing    ServingStatus = 1
	ServingStatusNotServing ServingStatus = 2
)

func (s ServingStatus) String() string {
	switch s {
	case ServingStatusServing:
		return "SERVING"
	case ServingStatusNotServing:
		return "NOT_SERVING"
	default:
		return "UNKNOWN"
	}
}

// LaunchStatus is the status returned by ExecCommand
type LaunchStatus int32

const (
	LaunchStatusRunning      LaunchStatus = 0
	LaunchStatusLaunchFailed LaunchStatus = 1
)

func (s LaunchStatus) String() string {
	switch s {
	case LaunchStatusRunning:
		return "RUNNING"
	case LaunchStatusLaunchFailed:
		return "LAUNCH_FAILED"
	default:
		return "UNKNOWN"
	}
}

// ResultStatus is the status returned by GetResult
type ResultStatus int32

const (
	ResultStatusUnknown ResultStatus = 0
	ResultStatusRunning ResultStatus = 1
	ResultStatusStopped ResultStatus = 2
)

func (s ResultStatus) String() string {
	switch s {
	case ResultStatusRunning:
		return "RUNNING"
	case ResultStatusStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Message is implemented by every request and response of the service
type Message interface {
	MarshalWire() []byte
	UnmarshalWire(b []byte) error
}

type HealthCheckRequest struct{}

func (m *HealthCheckRequest) MarshalWire() []byte          { return nil }
func (m *HealthCheckRequest) UnmarshalWire(b []byte) error { return skipAll(b) }

type HealthCheckResponse struct {
	Status ServingStatus
}

func (m *HealthCheckResponse) MarshalWire() []byte {
	return appendVarint(nil, 1, uint64(m.Status))
}

func (m *HealthCheckResponse) UnmarshalWire(b []byte) error {
	*m = HealthCheckResponse{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			m.Status = ServingStatus(v)
			return n
		}
		return 0
	})
}

// StopRequest asks the service to shut down within Time seconds
type StopRequest struct {
	Time uint32
}

func (m *StopRequest) MarshalWire() []byte {
	return appendVarint(nil, 1, uint64(m.Time))
}

func (m *StopRequest) UnmarshalWire(b []byte) error {
	*m = StopRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			m.Time = uint32(v)
			return n
		}
		return 0
	})
}

type StopResponse struct{}

func (m *StopResponse) MarshalWire() []byte          { return nil }
func (m *StopResponse) UnmarshalWire(b []byte) error { return skipAll(b) }

// ExecCommRequest submits a command for execution.
// Enviroments keeps the field name of the service definition.
type ExecCommRequest struct {
	ProcessId   uint32
	Command     string
	Parameters  []string
	Enviroments []string
	Sockpath    string
}

func (m *ExecCommRequest) MarshalWire() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.ProcessId))
	b = appendString(b, 2, m.Command)
	for _, p := range m.Parameters {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, p)
	}
	for _, e := range m.Enviroments {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, e)
	}
	b = appendString(b, 5, m.Sockpath)
	return b
}

func (m *ExecCommRequest) UnmarshalWire(b []byte) error {
	*m = ExecCommRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.ProcessId = uint32(v)
			return n
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.Command = v
			return n
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n >= 0 {
				m.Parameters = append(m.Parameters, v)
			}
			return n
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n >= 0 {
				m.Enviroments = append(m.Enviroments, v)
			}
			return n
		case num == 5 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.Sockpath = v
			return n
		}
		return 0
	})
}

type ExecCommResponse struct {
	Status    LaunchStatus
	ProcessId int32
}

func (m *ExecCommResponse) MarshalWire() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Status))
	b = appendVarint(b, 2, uint64(int64(m.ProcessId)))
	return b
}

func (m *ExecCommResponse) UnmarshalWire(b []byte) error {
	*m = ExecCommResponse{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if typ != protowire.VarintType {
			return 0
		}
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			m.Status = LaunchStatus(v)
			return n
		case 2:
			v, n := protowire.ConsumeVarint(b)
			m.ProcessId = int32(v)
			return n
		}
		return 0
	})
}

type GetResultRequest struct {
	ProcessId int32
}

func (m *GetResultRequest) MarshalWire() []byte {
	return appendVarint(nil, 1, uint64(int64(m.ProcessId)))
}

func (m *GetResultRequest) UnmarshalWire(b []byte) error {
	*m = GetResultRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			m.ProcessId = int32(v)
			return n
		}
		return 0
	})
}

type GetResultResponse struct {
	Status ResultStatus
	Result int32
}

func (m *GetResultResponse) MarshalWire() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Status))
	b = appendVarint(b, 2, uint64(int64(m.Result)))
	return b
}

func (m *GetResultResponse) UnmarshalWire(b []byte) error {
	*m = GetResultResponse{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if typ != protowire.VarintType {
			return 0
		}
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			m.Status = ResultStatus(v)
			return n
		case 2:
			v, n := protowire.ConsumeVarint(b)
			m.Result = int32(v)
			return n
		}
		return 0
	})
}

type KillProcessRequest struct {
	ProcessId int32
	Signal    int32
}

func (m *KillProcessRequest) MarshalWire() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(int64(m.ProcessId)))
	b = appendVarint(b, 2, uint64(int64(m.Signal)))
	return b
}

func (m *KillProcessRequest) UnmarshalWire(b []byte) error {
	*m = KillProcessRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if typ != protowire.VarintType {
			return 0
		}
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			m.ProcessId = int32(v)
			return n
		case 2:
			v, n := protowire.ConsumeVarint(b)
			m.Signal = int32(v)
			return n
		}
		return 0
	})
}

type KillProcessResponse struct{}

func (m *KillProcessResponse) MarshalWire() []byte          { return nil }
func (m *KillProcessResponse) UnmarshalWire(b []byte) error { return skipAll(b) }

// appendVarint writes a proto3 scalar, omitting the zero value
func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// walk iterates over the fields in b. fn returns the number of bytes it
// consumed for a known field, 0 to skip the field, or a negative parse error.
func walk(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m := fn(num, typ, b)
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func skipAll(b []byte) error {
	return walk(b, func(protowire.Number, protowire.Type, []byte) int { return 0 })
}
