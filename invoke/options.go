package invoke

import (
	"context"
	"io"
	"os/exec"
	"time"

	"github.com/kbukum/invokit/stdio"
	"github.com/kbukum/invokit/util"
)

// Encoding values for the sync launcher's captured output.
const (
	EncodingText  = "text"
	EncodingBytes = "bytes"
)

// defaultWaitDelay bounds the wait for straggling stdio after the child
// exits.
const defaultWaitDelay = time.Second

// Options configures a single invocation. The zero value is usable; every
// flag has a stated default: shell off, reject on, exit on, trimEnd on,
// json off, text encoding. Flags are *bool so that a call-site value can
// override a Runner's bound default in either direction.
type Options struct {
	// Cwd is the working directory for the child process.
	Cwd string
	// Env is merged over the parent environment.
	Env map[string]string
	// Shell (default false) enables %s placeholder substitution with shell
	// quoting and runs the folded command line via /bin/sh -c.
	Shell *bool
	// Stdio holds per-stream modes or transformers. The async launcher
	// defaults to capturing pipes; the sync launcher inherits stdin and
	// captures stdout/stderr.
	Stdio *stdio.Spec
	// Stdin feeds the child's standard input when the stdin position is
	// left piped.
	Stdin io.Reader
	// Reject (async, default true): a non-zero exit or signal surfaces as
	// an error from Wait. When disabled, the CommandError is attached to
	// the Proc's Failure field and the Outcome instead, and Wait returns
	// normally.
	Reject *bool
	// Exit (sync, default true): on failure, echo captured stderr and
	// terminate the parent with the child's termination code.
	Exit *bool
	// TrimEnd (sync, default true) strips trailing whitespace from
	// captured textual stdout.
	TrimEnd *bool
	// JSON (default false) decodes the stdout value accessor as JSON.
	JSON *bool
	// Encoding selects text (default) or bytes for sync captured output.
	Encoding string
	// WaitDelay bounds the wait for stdio after the child exits: a stdin
	// source still open at that point is abandoned rather than holding the
	// invocation unsettled. Defaults to one second.
	WaitDelay time.Duration
	// Configure runs against the underlying *exec.Cmd immediately before
	// start, for pass-through spawn options (SysProcAttr, ExtraFiles...).
	Configure func(*exec.Cmd)
}

func (o *Options) shell() bool              { return util.DerefOr(o.Shell, false) }
func (o *Options) json() bool               { return util.DerefOr(o.JSON, false) }
func (o *Options) reject() bool             { return util.DerefOr(o.Reject, true) }
func (o *Options) exit() bool               { return util.DerefOr(o.Exit, true) }
func (o *Options) trimEnd() bool            { return util.DerefOr(o.TrimEnd, true) }
func (o *Options) encoding() string         { return util.Coalesce(o.Encoding, EncodingText) }
func (o *Options) waitDelay() time.Duration { return util.Coalesce(o.WaitDelay, defaultWaitDelay) }

// Merge layers call-site options over defaults. Call-site fields win in
// either direction; environment mappings merge per key.
func Merge(defaults, call *Options) *Options {
	var out Options
	if defaults != nil {
		out = *defaults
	}
	if call == nil {
		return &out
	}
	out.Cwd = util.Coalesce(call.Cwd, out.Cwd)
	if len(call.Env) > 0 {
		env := make(map[string]string, len(out.Env)+len(call.Env))
		for k, v := range out.Env {
			env[k] = v
		}
		for k, v := range call.Env {
			env[k] = v
		}
		out.Env = env
	}
	if call.Shell != nil {
		out.Shell = call.Shell
	}
	if call.Stdio != nil {
		out.Stdio = call.Stdio
	}
	if call.Stdin != nil {
		out.Stdin = call.Stdin
	}
	if call.Reject != nil {
		out.Reject = call.Reject
	}
	if call.Exit != nil {
		out.Exit = call.Exit
	}
	if call.TrimEnd != nil {
		out.TrimEnd = call.TrimEnd
	}
	if call.JSON != nil {
		out.JSON = call.JSON
	}
	out.Encoding = util.Coalesce(call.Encoding, out.Encoding)
	out.WaitDelay = util.Coalesce(call.WaitDelay, out.WaitDelay)
	if call.Configure != nil {
		out.Configure = call.Configure
	}
	return &out
}

// Runner binds a fixed set of default options; per-call options override
// them. The defaults are copied at construction and never mutated.
type Runner struct {
	defaults Options
}

// NewRunner creates a Runner with the given default options.
func NewRunner(defaults Options) *Runner {
	return &Runner{defaults: defaults}
}

// Start launches a command with the bound defaults applied.
func (r *Runner) Start(command string, args Args, opts *Options) *Proc {
	return Start(command, args, Merge(&r.defaults, opts))
}

// StartContext is Start with a cancellation context.
func (r *Runner) StartContext(ctx context.Context, command string, args Args, opts *Options) *Proc {
	return StartContext(ctx, command, args, Merge(&r.defaults, opts))
}

// Sync runs a command synchronously with the bound defaults applied.
func (r *Runner) Sync(command string, args Args, opts *Options) (string, error) {
	return Sync(command, args, Merge(&r.defaults, opts))
}

// SyncResult runs a command synchronously with the bound defaults applied
// and returns the full result.
func (r *Runner) SyncResult(command string, args Args, opts *Options) (*SyncOutcome, error) {
	return SyncResult(command, args, Merge(&r.defaults, opts))
}
