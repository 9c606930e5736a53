package invoke

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime/debug"
	"time"

	"github.com/kbukum/invokit/logger"
	"github.com/kbukum/invokit/stdio"
	"github.com/kbukum/invokit/util"
	"github.com/kbukum/invokit/version"
)

// TraceEnv, when set to a non-empty value, makes the sync launcher print
// the originating stack trace to stderr immediately before terminating
// the parent on failure.
const TraceEnv = "INVOKIT_TRACE"

// osExit and osStderr are swappable so tests can observe exit-enabled
// terminations and their diagnostics.
var (
	osExit             = os.Exit
	osStderr io.Writer = os.Stderr
)

// SyncOutcome is the full result of a sync invocation.
type SyncOutcome struct {
	Status   int
	Signal   string
	Pid      int
	Duration time.Duration
	// Stdout and Stderr hold captured output under text encoding, with
	// Stdout trimmed of trailing whitespace when TrimEnd is enabled.
	Stdout string
	Stderr string
	// RawStdout and RawStderr hold captured output under bytes encoding.
	RawStdout []byte
	RawStderr []byte

	termCode int
}

// TerminationCode returns the code the exit-enabled sync launcher would
// propagate: the conventional 128+N for a signaled exit, the exit status
// otherwise.
func (o *SyncOutcome) TerminationCode() int {
	return o.termCode
}

// Sync runs the command to completion, blocking the caller, and returns
// its captured stdout.
//
// A launch failure returns the raw error, regardless of flags. In the
// default exit-enabled mode a non-zero exit or signal echoes the child's
// captured stderr to the parent's stderr and terminates the parent with
// the child's termination code — the call does not return. With TraceEnv
// set, the call-site stack prints before termination. Disable Exit (or
// use SyncResult) to get the full result back instead.
func Sync(command string, args Args, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}
	out, err := runSync(command, args, opts)
	if err != nil {
		return "", err
	}
	if opts.exit() {
		switch {
		case len(out.RawStderr) > 0:
			osStderr.Write(out.RawStderr)
		case out.Stderr != "":
			fmt.Fprint(osStderr, out.Stderr)
		}
		if code := out.termCode; code != 0 {
			if os.Getenv(TraceEnv) != "" {
				fmt.Fprintf(osStderr, "invokit %s\n", version.Short())
				osStderr.Write(debug.Stack())
			}
			osExit(code)
		}
	}
	return out.Stdout, nil
}

// SyncResult runs the command to completion and returns the full result.
// It never terminates the parent, whatever the child's exit status.
func SyncResult(command string, args Args, opts *Options) (*SyncOutcome, error) {
	if opts == nil {
		opts = &Options{}
	}
	return runSync(command, args, opts)
}

func runSync(command string, args Args, opts *Options) (*SyncOutcome, error) {
	inv := Normalize(command, args, opts.shell())
	argv := inv.Argv()

	c := exec.Command(argv[0], argv[1:]...)
	c.Dir = opts.Cwd
	c.Env = mergeEnv(opts.Env)
	// A stdin source that outlives the child must not hold Run hostage.
	c.WaitDelay = opts.waitDelay()

	// Sync default: stdin from the terminal, output captured.
	spec := opts.Stdio
	if spec == nil {
		spec = &stdio.Spec{
			Stdin:  stdio.M(stdio.Inherit),
			Stdout: stdio.M(stdio.Pipe),
			Stderr: stdio.M(stdio.Pipe),
		}
	}
	var outBuf, errBuf bytes.Buffer
	binding, err := stdio.Bind(c, spec, stdio.Endpoints{
		Stdin:         opts.Stdin,
		CaptureStdout: &outBuf,
		CaptureStderr: &errBuf,
	})
	if err != nil {
		return nil, err
	}

	if opts.Configure != nil {
		opts.Configure(c)
	}

	log := logger.WithComponent("invoke")
	log.Debug("running command", map[string]any{logger.FieldArgv: argv})

	start := time.Now()
	err = c.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		// The child exited cleanly; only a lingering stdio pipe was cut
		// off after the wait delay.
		err = nil
	}
	if ferr := binding.Finalize(); ferr != nil {
		log.WithError(ferr).Warn("stdio pipeline aborted")
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Launch failure: raw, always surfaced.
			return nil, err
		}
	}

	code, sig := terminationState(c.ProcessState)
	res := &SyncOutcome{
		Status:   code,
		Signal:   sig,
		Pid:      c.ProcessState.Pid(),
		Duration: time.Since(start),
		termCode: terminationNumber(c.ProcessState),
	}
	if opts.encoding() == EncodingBytes {
		res.RawStdout = outBuf.Bytes()
		res.RawStderr = errBuf.Bytes()
		return res, nil
	}
	res.Stdout = outBuf.String()
	res.Stderr = errBuf.String()
	if opts.trimEnd() {
		res.Stdout = util.TrimTrailing(res.Stdout)
	}
	return res, nil
}
