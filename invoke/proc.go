package invoke

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/kbukum/invokit/logger"
	"github.com/kbukum/invokit/stdio"
)

// Proc is the live handle for one launched process and the carrier of its
// eventual result. The embedded *exec.Cmd exposes the whole live surface
// (Process, ProcessState, stream fields); Wait and Done expose the
// deferred surface. Member access resolves against the live handle first,
// with the deferred operations layered on top — callers can freely mix
// handle inspection with await-style consumption.
type Proc struct {
	*exec.Cmd

	// ID correlates log events for this invocation.
	ID string
	// Failure holds the CommandError after a failed invocation settles
	// with Reject disabled. Callers that disable Reject must inspect it.
	Failure *CommandError

	inv  Invocation
	opts *Options
	log  *logger.Logger

	stdoutBuf bytes.Buffer
	stderrBuf bytes.Buffer
	binding   *stdio.Binding
	cmdErr    *CommandError

	started     time.Time
	done        chan struct{}
	outcome     *Outcome
	waitErr     error
	pipelineErr error
}

// Done is closed once the process has exited and all attached pipelines
// have finalized. The Outcome accessors are only valid after that point.
func (p *Proc) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the invocation settles and returns its Outcome.
//
// A launch failure returns the raw start error, undecorated. A non-zero
// exit or signal returns a *CommandError unless Reject was disabled, in
// which case the Outcome resolves normally with the error attached to it
// and to the Failure field. Wait is safe to call from multiple goroutines
// and shadows the embedded Cmd.Wait; the primitive wait stays reachable
// as p.Cmd.Wait.
func (p *Proc) Wait() (*Outcome, error) {
	<-p.done
	return p.outcome, p.waitErr
}

// Pid returns the live process id, or 0 before a successful start.
func (p *Proc) Pid() int {
	if p.Process == nil {
		return 0
	}
	return p.Process.Pid
}

// Kill forcibly terminates the process. The termination surfaces through
// the normal completion path as a signaled exit.
func (p *Proc) Kill() error {
	if p.Process == nil {
		return errors.New("invoke: process not started")
	}
	return p.Process.Kill()
}

// Signal dispatches sig to the live process.
func (p *Proc) Signal(sig os.Signal) error {
	if p.Process == nil {
		return errors.New("invoke: process not started")
	}
	return p.Process.Signal(sig)
}

// PipelineErr reports the error that aborted a stream-transformer
// pipeline, if any. Pipeline failures do not fail the invocation; they
// are observable here once the invocation settles.
func (p *Proc) PipelineErr() error {
	select {
	case <-p.done:
		return p.pipelineErr
	default:
		return nil
	}
}

// run settles the invocation: it waits for the exit event, finalizes the
// stdio pipelines, and resolves or rejects the deferred surface.
func (p *Proc) run() {
	err := p.Cmd.Wait()
	if errors.Is(err, exec.ErrWaitDelay) {
		// The child exited cleanly; only a lingering stdio pipe was cut
		// off after the wait delay.
		err = nil
	}
	p.pipelineErr = p.binding.Finalize()
	if p.pipelineErr != nil {
		p.log.WithError(p.pipelineErr).Warn("stdio pipeline aborted", map[string]any{
			logger.FieldInvocationID: p.ID,
		})
	}

	duration := time.Since(p.started)
	code, sig := terminationState(p.Cmd.ProcessState)
	outcome := &Outcome{
		Pid:      p.Pid(),
		ExitCode: code,
		Signal:   sig,
		Duration: duration,
		stdout:   p.stdoutBuf.Bytes(),
		stderr:   p.stderrBuf.Bytes(),
		json:     p.opts.json(),
	}

	switch {
	case err == nil:
		p.log.Debug("command completed", map[string]any{
			logger.FieldInvocationID: p.ID,
			logger.FieldDuration:     duration,
		})
		p.outcome = outcome
	default:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Transport-level failure: surface raw, regardless of Reject.
			p.waitErr = err
			break
		}
		p.cmdErr.decorate(p)
		p.log.Debug("command failed", map[string]any{
			logger.FieldInvocationID: p.ID,
			logger.FieldExitCode:     code,
			logger.FieldSignal:       sig,
		})
		if p.opts.reject() {
			p.waitErr = p.cmdErr
		} else {
			p.Failure = p.cmdErr
			outcome.Err = p.cmdErr
			p.outcome = outcome
		}
	}
	close(p.done)
}
