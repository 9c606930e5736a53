package invoke

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/kbukum/invokit/testutil"
	"github.com/kbukum/invokit/util"
)

func TestSyncReturnsTrimmedStdout(t *testing.T) {
	testutil.RequireCommand(t, "sh")
	out, err := Sync("sh", Args{"-c", `printf '  hi  \n'`}, nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if out != "  hi" {
		t.Errorf("Sync = %q, want leading space kept and trailing trimmed", out)
	}
}

func TestSyncTrimEndDisabled(t *testing.T) {
	testutil.RequireCommand(t, "echo")
	out, err := Sync("echo", Args{"hi"}, &Options{TrimEnd: util.Ptr(false)})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if out != "hi\n" {
		t.Errorf("Sync = %q, want trailing newline kept", out)
	}
}

func TestSyncTerminatesParentOnFailure(t *testing.T) {
	testutil.RequireCommand(t, "sh")
	var exited int
	osExit = func(code int) { exited = code }
	defer func() { osExit = os.Exit }()

	Sync("sh", Args{"-c", "exit 5"}, nil)
	if exited != 5 {
		t.Errorf("parent termination code = %d, want 5", exited)
	}
}

func TestSyncExitDisabledReturnsOutput(t *testing.T) {
	testutil.RequireCommand(t, "sh")
	osExit = func(code int) { t.Errorf("osExit called with %d", code) }
	defer func() { osExit = os.Exit }()

	out, err := Sync("sh", Args{"-c", "echo partial; exit 5"}, &Options{Exit: util.Ptr(false)})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if out != "partial" {
		t.Errorf("Sync = %q", out)
	}
}

func TestSyncResultNeverTerminates(t *testing.T) {
	testutil.RequireCommand(t, "sh")
	osExit = func(code int) { t.Errorf("osExit called with %d", code) }
	defer func() { osExit = os.Exit }()

	res, err := SyncResult("sh", Args{"-c", "echo boom >&2; exit 7"}, nil)
	if err != nil {
		t.Fatalf("SyncResult: %v", err)
	}
	if res.Status != 7 {
		t.Errorf("Status = %d", res.Status)
	}
	if res.TerminationCode() != 7 {
		t.Errorf("TerminationCode = %d", res.TerminationCode())
	}
	if res.Stderr != "boom\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if res.Pid == 0 {
		t.Error("Pid not recorded")
	}
}

func TestSyncLaunchFailureIsRaw(t *testing.T) {
	_, err := Sync("definitely-not-a-command-7c1b", nil, nil)
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("err = %v, want exec.ErrNotFound", err)
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		t.Error("launch failures must not be decorated as CommandError")
	}
}

func TestSyncBytesEncoding(t *testing.T) {
	testutil.RequireCommand(t, "sh")
	res, err := SyncResult("sh", Args{"-c", `printf 'raw\n'`}, &Options{Encoding: EncodingBytes})
	if err != nil {
		t.Fatalf("SyncResult: %v", err)
	}
	if string(res.RawStdout) != "raw\n" {
		t.Errorf("RawStdout = %q, bytes encoding must not trim", res.RawStdout)
	}
	if res.Stdout != "" {
		t.Errorf("textual Stdout should stay empty under bytes encoding, got %q", res.Stdout)
	}
}

func TestSyncSignaledTermination(t *testing.T) {
	testutil.RequireCommand(t, "sh")
	res, err := SyncResult("sh", Args{"-c", "kill -TERM $$"}, nil)
	if err != nil {
		t.Fatalf("SyncResult: %v", err)
	}
	if res.Signal != "terminated" {
		t.Errorf("Signal = %q", res.Signal)
	}
	if res.TerminationCode() != 143 {
		t.Errorf("TerminationCode = %d, want 128+SIGTERM", res.TerminationCode())
	}
}

func TestSyncBytesEncodingEchoesStderrOnExit(t *testing.T) {
	testutil.RequireCommand(t, "sh")
	var exited int
	var echoed bytes.Buffer
	osExit = func(code int) { exited = code }
	osStderr = &echoed
	defer func() {
		osExit = os.Exit
		osStderr = os.Stderr
	}()

	Sync("sh", Args{"-c", "echo oops >&2; exit 3"}, &Options{Encoding: EncodingBytes})
	if exited != 3 {
		t.Errorf("parent termination code = %d, want 3", exited)
	}
	if echoed.String() != "oops\n" {
		t.Errorf("echoed stderr = %q, want the child's raw stderr", echoed.String())
	}
}

// blockedStdin blocks in Read until released, like an interactive stream
// with no input pending.
type blockedStdin struct{ release chan struct{} }

func (r *blockedStdin) Read([]byte) (int, error) {
	<-r.release
	return 0, io.EOF
}

func TestSyncSettlesWhileStdinStaysOpen(t *testing.T) {
	testutil.RequireCommand(t, "echo")
	src := &blockedStdin{release: make(chan struct{})}
	defer close(src.release)

	type settled struct {
		res *SyncOutcome
		err error
	}
	done := make(chan settled, 1)
	go func() {
		res, err := SyncResult("echo", Args{"hi"}, &Options{Stdin: src})
		done <- settled{res, err}
	}()
	select {
	case s := <-done:
		if s.err != nil {
			t.Fatalf("SyncResult: %v", s.err)
		}
		if s.res.Stdout != "hi" {
			t.Errorf("Stdout = %q", s.res.Stdout)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("SyncResult did not return after child exit while the stdin source was still open")
	}
}

func TestSyncShellPlaceholder(t *testing.T) {
	testutil.RequireCommand(t, "sh")
	out, err := Sync("echo %s", Args{"a b"}, &Options{Shell: util.Ptr(true)})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if out != "a b" {
		t.Errorf("Sync = %q", out)
	}
}
