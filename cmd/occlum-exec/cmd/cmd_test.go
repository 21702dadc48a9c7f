package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/msto63/occlum-exec/api/execpb"
	"github.com/msto63/occlum-exec/internal/execclient"
	"github.com/msto63/occlum-exec/internal/exectest"
	"github.com/msto63/occlum-exec/pkg/core/config"
)

func TestBuildArgv(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantCommand string
		wantParams  []string
	}{
		{"path only", []string{"/bin/hello_world"}, "/bin/hello_world", []string{"hello_world"}},
		{"with args", []string{"/usr/bin/ls", "-l", "/"}, "/usr/bin/ls", []string{"ls", "-l", "/"}},
		{"relative", []string{"prog", "x"}, "prog", []string{"prog", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, params := buildArgv(tt.args)
			if command != tt.wantCommand {
				t.Errorf("command = %q, want %q", command, tt.wantCommand)
			}
			if !reflect.DeepEqual(params, tt.wantParams) {
				t.Errorf("params = %v, want %v", params, tt.wantParams)
			}
		})
	}
}

func TestBuildEnv(t *testing.T) {
	env, err := buildEnv([]string{"A=1"}, []string{"B=2", "A=3"}, []string{"HOME=/root"})
	if err != nil {
		t.Fatalf("buildEnv() error = %v", err)
	}
	want := []string{"A=1", "B=2", "A=3", "HOME=/root"}
	if !reflect.DeepEqual(env, want) {
		t.Errorf("buildEnv() = %v, want %v", env, want)
	}

	if _, err := buildEnv(nil, []string{"NOEQUALS"}, nil); err == nil {
		t.Error("buildEnv() with malformed entry error = nil, want error")
	}

	env, err = buildEnv(nil, nil, nil)
	if err != nil || len(env) != 0 {
		t.Errorf("buildEnv() = %v, %v, want empty", env, err)
	}
}

func TestParseSignal(t *testing.T) {
	tests := []struct {
		in      string
		want    int32
		wantErr bool
	}{
		{"9", 9, false},
		{"15", 15, false},
		{"TERM", 15, false},
		{"sigint", 2, false},
		{"SIGKILL", 9, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"BOGUS", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSignal(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSignal(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSignal(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"remote code", &exitError{code: 3}, 3},
		{"client failure", errors.New("boom"), execclient.FailureExitCode},
		{"typed failure", execclient.ErrLaunchFailed, execclient.FailureExitCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClientConfig(t *testing.T) {
	c := config.Default()
	c.Client.Target = "unix:///tmp/x.sock"
	c.Client.RequestTimeout.Duration = 2 * time.Second
	c.Stop.MaxTimeout = 5

	ec := clientConfig(c)
	if ec.Transport.Target != "unix:///tmp/x.sock" {
		t.Errorf("Target = %q, want %q", ec.Transport.Target, "unix:///tmp/x.sock")
	}
	if ec.RequestTimeout != 2*time.Second {
		t.Errorf("RequestTimeout = %v, want 2s", ec.RequestTimeout)
	}
	if ec.PollInterval != 100*time.Millisecond {
		t.Errorf("PollInterval = %v, want 100ms", ec.PollInterval)
	}
	if ec.LaunchDelay != 100*time.Millisecond {
		t.Errorf("LaunchDelay = %v, want 100ms", ec.LaunchDelay)
	}
	if ec.MaxStopTimeout != 5 {
		t.Errorf("MaxStopTimeout = %d, want 5", ec.MaxStopTimeout)
	}
}

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		status execclient.HealthStatus
		want   string
	}{
		{execclient.HealthServing, "serving"},
		{execclient.HealthNotServing, "not serving"},
		{execclient.HealthUnreachable, "unreachable"},
	}

	for _, tt := range tests {
		out := renderStatus("127.0.0.1:7878", tt.status)
		if !strings.Contains(out, tt.want) {
			t.Errorf("renderStatus(%v) = %q, want it to contain %q", tt.status, out, tt.want)
		}
		if !strings.Contains(out, "127.0.0.1:7878") {
			t.Errorf("renderStatus(%v) = %q, want it to contain the target", tt.status, out)
		}
	}
}

// runCLI executes the root command with a config file pointing at target
func runCLI(t *testing.T, target string, args ...string) (int, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "occlum-exec.toml")
	data := `[client]
target = "` + target + `"

[server]
path = "/nonexistent/occlum_exec_server"
launch_delay = "1ms"

[exec]
poll_interval = "1ms"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv(config.EnvConfig, path)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	return Execute(), out.String()
}

func TestCLI_Exec(t *testing.T) {
	svc := &exectest.Service{
		Health: execpb.ServingStatusServing,
		Launch: execpb.LaunchStatusRunning,
		Handle: 5,
		Polls: []execpb.GetResultResponse{
			{Status: execpb.ResultStatusRunning},
			{Status: execpb.ResultStatusStopped, Result: 3},
		},
	}
	target := exectest.Start(t, svc)

	code, _ := runCLI(t, target, "exec", "--env", "K=V", "/bin/prog", "-x", "arg")
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}

	reqs := svc.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if reqs[0].Command != "/bin/prog" {
		t.Errorf("Command = %q, want %q", reqs[0].Command, "/bin/prog")
	}
	if want := []string{"prog", "-x", "arg"}; !reflect.DeepEqual(reqs[0].Parameters, want) {
		t.Errorf("Parameters = %v, want %v", reqs[0].Parameters, want)
	}
	if want := []string{"K=V"}; !reflect.DeepEqual(reqs[0].Enviroments, want) {
		t.Errorf("Enviroments = %v, want %v", reqs[0].Enviroments, want)
	}
}

func TestCLI_ExecLaunchFails(t *testing.T) {
	target := exectest.Target(exectest.SocketPath(t))

	code, _ := runCLI(t, target, "exec", "/bin/prog")
	if code != execclient.FailureExitCode {
		t.Errorf("exit code = %d, want %d", code, execclient.FailureExitCode)
	}
}

func TestCLI_Status(t *testing.T) {
	svc := &exectest.Service{Health: execpb.ServingStatusServing}
	target := exectest.Start(t, svc)

	code, out := runCLI(t, target, "status")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "serving") {
		t.Errorf("output = %q, want it to contain %q", out, "serving")
	}
}

func TestCLI_StatusUnreachable(t *testing.T) {
	target := exectest.Target(exectest.SocketPath(t))

	code, out := runCLI(t, target, "status")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, "unreachable") {
		t.Errorf("output = %q, want it to contain %q", out, "unreachable")
	}
}

func TestCLI_Stop(t *testing.T) {
	svc := &exectest.Service{Health: execpb.ServingStatusServing}
	target := exectest.Start(t, svc)

	code, out := runCLI(t, target, "stop")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "received the stop request") {
		t.Errorf("output = %q, want acknowledgement", out)
	}
	if got, want := svc.Stops(), []uint32{3}; !reflect.DeepEqual(got, want) {
		t.Errorf("stop timeouts = %v, want %v", got, want)
	}
}

func TestCLI_Kill(t *testing.T) {
	svc := &exectest.Service{Health: execpb.ServingStatusServing}
	target := exectest.Start(t, svc)

	code, out := runCLI(t, target, "kill", "7", "TERM")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Signal 15 sent to 7") {
		t.Errorf("output = %q, want delivery confirmation", out)
	}
	kills := svc.Kills()
	if len(kills) != 1 || kills[0].ProcessId != 7 || kills[0].Signal != 15 {
		t.Errorf("kills = %v, want one request {7, 15}", kills)
	}
}

func TestCLI_KillUndelivered(t *testing.T) {
	target := exectest.Target(exectest.SocketPath(t))

	code, out := runCLI(t, target, "kill", "7", "9")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "could not be delivered") {
		t.Errorf("output = %q, want delivery failure notice", out)
	}
}

func TestCLI_Version(t *testing.T) {
	code, out := runCLI(t, "127.0.0.1:1", "version")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "occlum-exec v") {
		t.Errorf("output = %q, want version line", out)
	}
}
