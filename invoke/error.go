package invoke

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"syscall"
)

// ErrorCode classifies how a process terminated.
type ErrorCode string

const (
	// CodeExit marks a non-zero exit code.
	CodeExit ErrorCode = "NON_ZERO_EXIT"
	// CodeSignal marks termination by signal.
	CodeSignal ErrorCode = "SIGNALED"
)

// CommandError reports a process that terminated with a non-zero exit
// code or a signal. The stack trace is captured at the call site that
// launched the process, not at the event-loop turn that detected the
// failure, so the trace points at the caller.
type CommandError struct {
	Code     ErrorCode
	Argv     []string
	ExitCode int
	Signal   string
	Stack    []byte
	// Proc is the terminated process's handle.
	Proc *Proc

	message string
}

// newCommandError pre-allocates the error at launch time to pin the
// call-site stack.
func newCommandError() *CommandError {
	return &CommandError{Stack: debug.Stack()}
}

// decorate finalizes a pre-allocated error with the terminated process's
// metadata: argv, exit code or signal, and the handle itself.
func (e *CommandError) decorate(p *Proc) {
	e.Proc = p
	e.Argv = p.inv.Argv()
	e.ExitCode, e.Signal = terminationState(p.Cmd.ProcessState)
	if e.Signal != "" {
		e.Code = CodeSignal
	} else {
		e.Code = CodeExit
	}

	term := e.Signal
	if term == "" {
		term = fmt.Sprintf("%d", e.ExitCode)
	}
	e.message = fmt.Sprintf("command failed: %s\nexit status: %s\n\n%s",
		strings.Join(e.Argv, " "), term, e.Stack)
}

// Error returns the multi-line diagnostic message: the spawned command
// line, the exit signal or code, and the originating stack trace.
func (e *CommandError) Error() string {
	if e.message == "" {
		return "command failed"
	}
	return e.message
}

// terminationState extracts the exit code and, for signaled exits, the
// signal name from a finished process state.
func terminationState(ps *os.ProcessState) (code int, signal string) {
	if ps == nil {
		return -1, ""
	}
	code = ps.ExitCode()
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		signal = ws.Signal().String()
	}
	return code, signal
}

// terminationNumber folds a signaled exit into the conventional 128+N
// code; plain exits pass their status through.
func terminationNumber(ps *os.ProcessState) int {
	if ps == nil {
		return -1
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ps.ExitCode()
}
