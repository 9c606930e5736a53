package stdio_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/invokit/stdio"
)

// recordingTransformer tracks every chunk it receives and how many times it
// was finalized.
type recordingTransformer struct {
	chunks  []string
	flushes int
}

func (r *recordingTransformer) Transform(chunk string) (string, error) {
	r.chunks = append(r.chunks, chunk)
	return chunk, nil
}

func (r *recordingTransformer) Flush() (string, error) {
	r.flushes++
	return "", nil
}

func TestPipelineFeedsChunksInOrder(t *testing.T) {
	rec := &recordingTransformer{}
	var sink strings.Builder
	pl := stdio.NewPipeline(rec, &sink)

	for _, chunk := range []string{"one", "two", "three"} {
		if _, err := pl.Write([]byte(chunk)); err != nil {
			t.Fatalf("write %q: %v", chunk, err)
		}
	}
	if err := pl.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	want := []string{"one", "two", "three"}
	if len(rec.chunks) != len(want) {
		t.Fatalf("chunks = %v, want %v", rec.chunks, want)
	}
	for i := range want {
		if rec.chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, rec.chunks[i], want[i])
		}
	}
	if rec.flushes != 1 {
		t.Errorf("flush ran %d times, want exactly once", rec.flushes)
	}
	if sink.String() != "onetwothree" {
		t.Errorf("downstream = %q", sink.String())
	}
}

func TestPipelineFinalizeIdempotent(t *testing.T) {
	rec := &recordingTransformer{}
	pl := stdio.NewPipeline(rec, &strings.Builder{})
	if err := pl.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := pl.Finalize(); err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	if rec.flushes != 1 {
		t.Errorf("flush ran %d times, want exactly once", rec.flushes)
	}
}

func TestPipelineTransformerErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	tr := stdio.TransformFunc(func(string) (string, error) { return "", boom })
	pl := stdio.NewPipeline(tr, &strings.Builder{})

	if _, err := pl.Write([]byte("x")); !errors.Is(err, boom) {
		t.Fatalf("write error = %v, want boom", err)
	}
	// Every subsequent operation reports the recorded error.
	if _, err := pl.Write([]byte("y")); !errors.Is(err, boom) {
		t.Fatalf("second write error = %v, want boom", err)
	}
	if err := pl.Finalize(); !errors.Is(err, boom) {
		t.Fatalf("finalize error = %v, want boom", err)
	}
	if !errors.Is(pl.Err(), boom) {
		t.Fatalf("Err() = %v, want boom", pl.Err())
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestPipelineDownstreamErrorAborts(t *testing.T) {
	sinkErr := errors.New("sink closed")
	tr := stdio.TransformFunc(func(chunk string) (string, error) { return chunk, nil })
	pl := stdio.NewPipeline(tr, failingWriter{err: sinkErr})

	if _, err := pl.Write([]byte("x")); !errors.Is(err, sinkErr) {
		t.Fatalf("write error = %v, want sink error", err)
	}
}

func TestPipelineSkipsEmptyDerivedChunks(t *testing.T) {
	drop := stdio.TransformFunc(func(string) (string, error) { return "", nil })
	var sink strings.Builder
	pl := stdio.NewPipeline(drop, &sink)
	if _, err := pl.Write([]byte("ignored")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := pl.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if sink.String() != "" {
		t.Errorf("downstream = %q, want nothing", sink.String())
	}
}
