package invoke

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/invokit/logger"
	"github.com/kbukum/invokit/stdio"
	"github.com/kbukum/invokit/util"
)

// Start launches a command asynchronously and returns its Proc. The
// returned handle never fails synchronously: a launch failure is recorded
// and surfaces raw from Wait.
func Start(command string, args Args, opts *Options) *Proc {
	return StartContext(context.Background(), command, args, opts)
}

// StartJSON is Start with the JSON-decode flag pre-set.
func StartJSON(command string, args Args, opts *Options) *Proc {
	return Start(command, args, Merge(&Options{JSON: util.Ptr(true)}, opts))
}

// Run launches a command and waits for its Outcome in one call.
func Run(command string, args Args, opts *Options) (*Outcome, error) {
	return Start(command, args, opts).Wait()
}

// StartContext launches a command asynchronously under ctx; cancelling the
// context kills the process, which surfaces as a signaled exit through the
// normal completion path.
func StartContext(ctx context.Context, command string, args Args, opts *Options) *Proc {
	if opts == nil {
		opts = &Options{}
	}
	inv := Normalize(command, args, opts.shell())
	argv := inv.Argv()

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Dir = opts.Cwd
	c.Env = mergeEnv(opts.Env)
	// A stdin source that outlives the child must not hold Wait hostage.
	c.WaitDelay = opts.waitDelay()

	p := &Proc{
		Cmd:    c,
		ID:     uuid.NewString(),
		inv:    inv,
		opts:   opts,
		log:    logger.WithComponent("invoke"),
		cmdErr: newCommandError(),
		done:   make(chan struct{}),
	}

	// Output accumulation is wired before the process starts, so nothing
	// emitted before exit is lost.
	binding, err := stdio.Bind(c, opts.Stdio, stdio.Endpoints{
		Stdin:         opts.Stdin,
		CaptureStdout: &p.stdoutBuf,
		CaptureStderr: &p.stderrBuf,
	})
	if err != nil {
		p.waitErr = err
		close(p.done)
		return p
	}
	p.binding = binding

	if opts.Configure != nil {
		opts.Configure(c)
	}

	p.log.Debug("starting command", map[string]any{
		logger.FieldInvocationID: p.ID,
		logger.FieldArgv:         argv,
	})

	p.started = time.Now()
	if err := c.Start(); err != nil {
		// Launch failures resolve the deferred surface with the raw error.
		p.waitErr = err
		binding.Finalize()
		close(p.done)
		return p
	}
	go p.run()
	return p
}

// mergeEnv merges extra variables over the parent environment. An empty
// mapping inherits the parent environment untouched.
func mergeEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil
	}
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
