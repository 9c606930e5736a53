package stdio

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
)

// Pipeline splices a Transformer between a child stream and a parent-side
// writer. The child's chunks are decoded, fed through the transformer, and
// any derived chunk is written downstream. A transformer or downstream
// write error aborts the pipeline: the error is retained and every later
// write fails with it.
type Pipeline struct {
	mu        sync.Mutex
	transform Transformer
	dst       io.Writer
	err       error
	finalized bool
}

// NewPipeline binds a transformer to a downstream writer.
func NewPipeline(t Transformer, dst io.Writer) *Pipeline {
	return &Pipeline{transform: t, dst: dst}
}

// Write feeds one raw chunk through the transformer.
func (p *Pipeline) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	out, err := p.transform.Transform(string(b))
	if err != nil {
		p.err = err
		return 0, err
	}
	if out != "" {
		if _, err := io.WriteString(p.dst, out); err != nil {
			p.err = err
			return 0, err
		}
	}
	return len(b), nil
}

// Finalize signals end-of-stream to the transformer and writes any final
// chunk downstream. Flush runs exactly once; repeat calls return the
// recorded error, if any.
func (p *Pipeline) Finalize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finalized {
		return p.err
	}
	p.finalized = true
	if p.err != nil {
		return p.err
	}
	out, err := p.transform.Flush()
	if err != nil {
		p.err = err
		return err
	}
	if out != "" {
		if _, err := io.WriteString(p.dst, out); err != nil {
			p.err = err
			return err
		}
	}
	return nil
}

// Err returns the error that aborted the pipeline, if any.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Endpoints supplies the parent-side stream endpoints a Spec binds against.
// Zero-value fields fall back to the process-wide standard streams.
type Endpoints struct {
	Stdin  io.Reader // source for piped or transformed stdin
	Stdout io.Writer // parent stdout, target of inherit/transformer output
	Stderr io.Writer // parent stderr
	// Accumulation sinks for piped stdout/stderr. Nil pipes to io.Discard.
	CaptureStdout io.Writer
	CaptureStderr io.Writer
}

func (ep *Endpoints) defaults() {
	if ep.Stdout == nil {
		ep.Stdout = os.Stdout
	}
	if ep.Stderr == nil {
		ep.Stderr = os.Stderr
	}
}

// Binding holds the pipelines spliced onto one child process's streams.
type Binding struct {
	pipelines []*Pipeline
	pumpDone  chan error
	stdinR    *os.File
	stdinW    *os.File
}

// Bind resolves spec against cmd, wiring primitive modes and allocating a
// pipeline for each transformer position. It must run before the process
// starts: output subscriptions are in place at launch, so nothing emitted
// before exit is lost.
func Bind(cmd *exec.Cmd, spec *Spec, ep Endpoints) (*Binding, error) {
	ep.defaults()
	resolved := spec.normalized(Pipe)
	b := &Binding{}

	b.bindOut(resolved.Stdout, ep.Stdout, ep.CaptureStdout, func(w io.Writer) { cmd.Stdout = w })
	b.bindOut(resolved.Stderr, ep.Stderr, ep.CaptureStderr, func(w io.Writer) { cmd.Stderr = w })
	if err := b.bindIn(cmd, resolved.Stdin, ep.Stdin); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Binding) bindOut(e Entry, parent, capture io.Writer, set func(io.Writer)) {
	switch {
	case e.Transform != nil:
		pl := NewPipeline(e.Transform, parent)
		b.pipelines = append(b.pipelines, pl)
		set(pl)
	case e.Mode == Inherit:
		set(parent)
	case e.Mode == Ignore:
		set(io.Discard)
	default: // Pipe
		if capture == nil {
			capture = io.Discard
		}
		set(capture)
	}
}

// bindIn wires the stdin position. A caller-supplied source that is not
// an *os.File is never handed to exec.Cmd directly: Cmd.Wait blocks on
// its internal stdin-copy goroutine, and a source that stays open after
// the child exits would hold the invocation unsettled forever. Such
// sources are pumped through an OS pipe instead, so the child reads a
// plain file descriptor and exit never waits on the source.
func (b *Binding) bindIn(cmd *exec.Cmd, e Entry, src io.Reader) error {
	switch {
	case e.Transform != nil:
		if src == nil {
			src = os.Stdin
		}
		return b.pumpIn(cmd, src, e.Transform)
	case e.Mode == Inherit:
		if src == nil {
			src = os.Stdin
		}
		return b.attachIn(cmd, src)
	case e.Mode == Ignore:
		cmd.Stdin = nil
		return nil
	default: // Pipe: caller-supplied reader, or no input at all
		if src == nil {
			cmd.Stdin = nil
			return nil
		}
		return b.attachIn(cmd, src)
	}
}

func (b *Binding) attachIn(cmd *exec.Cmd, src io.Reader) error {
	if f, ok := src.(*os.File); ok {
		cmd.Stdin = f
		return nil
	}
	return b.pumpIn(cmd, src, nil)
}

func (b *Binding) pumpIn(cmd *exec.Cmd, src io.Reader, t Transformer) error {
	pr, pw, err := os.Pipe()
	if err != nil {
		return err
	}
	cmd.Stdin = pr
	b.stdinR = pr
	b.stdinW = pw
	b.pumpDone = make(chan error, 1)
	go pumpStdin(src, t, pw, b.pumpDone)
	return nil
}

// pumpStdin reads the parent-side source chunk by chunk, transforms each
// chunk when a transformer is bound, and feeds the derived chunks to the
// child's stdin pipe. On source EOF the transformer is finalized before
// the pipe closes.
func pumpStdin(src io.Reader, t Transformer, pw *os.File, done chan<- error) {
	fail := func(err error) {
		pw.Close()
		done <- err
	}
	buf := make([]byte, 4096)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			out := string(buf[:n])
			if t != nil {
				var terr error
				out, terr = t.Transform(out)
				if terr != nil {
					fail(terr)
					return
				}
			}
			if out != "" {
				if _, werr := pw.WriteString(out); werr != nil {
					// The pipe closed under us; not a transformer failure.
					if closedPipe(werr) {
						done <- nil
						return
					}
					fail(werr)
					return
				}
			}
		}
		if rerr != nil {
			if rerr != io.EOF {
				fail(rerr)
				return
			}
			break
		}
	}
	if t != nil {
		out, err := t.Flush()
		if err != nil {
			fail(err)
			return
		}
		if out != "" {
			if _, werr := pw.WriteString(out); werr != nil && !closedPipe(werr) {
				fail(werr)
				return
			}
		}
	}
	pw.Close()
	done <- nil
}

// closedPipe reports whether a stdin pump write failed only because the
// pipe was shut down, which happens whenever the child exits before
// consuming all of its input.
func closedPipe(err error) bool {
	return errors.Is(err, os.ErrClosed) || errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

// Finalize finishes every output pipeline and collects the stdin pump's
// result, if one was bound. It returns the first pipeline error
// encountered.
//
// Finalize runs after the process has exited, so the stdin pipe ends are
// closed here: closing the write end unblocks a pump stuck writing input
// the child will never consume (the write fails benignly against the
// closed pipe), and closing the read end releases the descriptor the
// child inherited. A pump still mid-Read stays blocked on the parent
// source; it shuts down on its first write or read completion after this
// point.
func (b *Binding) Finalize() error {
	var first error
	for _, pl := range b.pipelines {
		if err := pl.Finalize(); err != nil && first == nil {
			first = err
		}
	}
	if b.stdinW != nil {
		b.stdinW.Close()
	}
	if b.stdinR != nil {
		b.stdinR.Close()
	}
	if b.pumpDone != nil {
		select {
		case err := <-b.pumpDone:
			if err != nil && first == nil {
				first = err
			}
		default:
			// Pump still draining the parent source.
		}
	}
	return first
}
