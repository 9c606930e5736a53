package stdio

// Mode is a primitive stdio disposition for one stream position.
type Mode string

const (
	// Pipe captures the stream into the invocation's accumulation buffer
	// (or feeds it from the caller-supplied reader, for stdin).
	Pipe Mode = "pipe"
	// Inherit connects the stream directly to the parent's counterpart.
	Inherit Mode = "inherit"
	// Ignore discards the stream.
	Ignore Mode = "ignore"
)

// Entry is one stream position: a primitive mode, or a Transformer that
// takes over the stream.
type Entry struct {
	Mode      Mode
	Transform Transformer
}

// M builds a plain mode entry.
func M(m Mode) Entry {
	return Entry{Mode: m}
}

// T builds a transformer entry.
func T(t Transformer) Entry {
	return Entry{Transform: t}
}

// Spec describes the three standard stream positions of an invocation.
type Spec struct {
	Stdin  Entry
	Stdout Entry
	Stderr Entry
}

// All applies a single mode to all three stream positions.
func All(m Mode) *Spec {
	return &Spec{Stdin: M(m), Stdout: M(m), Stderr: M(m)}
}

// Capture pipes all three streams. This is the async launcher's default.
func Capture() *Spec {
	return All(Pipe)
}

// Terminal inherits all three streams from the parent. This is the sync
// launcher's stdin default.
func Terminal() *Spec {
	return All(Inherit)
}

// normalized fills unset positions with the given fallback mode.
func (s *Spec) normalized(fallback Mode) Spec {
	out := Spec{}
	if s != nil {
		out = *s
	}
	for _, e := range []*Entry{&out.Stdin, &out.Stdout, &out.Stderr} {
		if e.Mode == "" && e.Transform == nil {
			e.Mode = fallback
		}
	}
	return out
}
