package stdio

import (
	"regexp"
	"strings"
)

// Transformer is an incremental stream transform. Transform receives each
// decoded chunk in arrival order and returns zero (empty string) or one
// derived chunks. Flush runs exactly once after the stream ends and may
// emit a final chunk.
type Transformer interface {
	Transform(chunk string) (string, error)
	Flush() (string, error)
}

// TransformFunc adapts a stateless chunk function to the Transformer
// interface with a no-op Flush.
type TransformFunc func(chunk string) (string, error)

// Transform calls the wrapped function.
func (f TransformFunc) Transform(chunk string) (string, error) {
	return f(chunk)
}

// Flush is a no-op for stateless transforms.
func (f TransformFunc) Flush() (string, error) {
	return "", nil
}

// LinePrefix returns a Transformer that prefixes every complete line.
// Partial lines are carried between chunks and emitted on Flush.
func LinePrefix(prefix string) Transformer {
	return &lineTransformer{
		apply: func(line string) (string, bool) { return prefix + line, true },
	}
}

// MatchLines returns a Transformer that keeps only lines matching the
// pattern.
func MatchLines(pattern string) (Transformer, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &lineTransformer{
		apply: func(line string) (string, bool) { return line, re.MatchString(line) },
	}, nil
}

// lineTransformer re-chunks the stream at line boundaries and applies a
// per-line function. The final unterminated line, if any, surfaces from
// Flush.
type lineTransformer struct {
	apply func(line string) (string, bool)
	carry string
}

func (l *lineTransformer) Transform(chunk string) (string, error) {
	data := l.carry + chunk
	lines := strings.Split(data, "\n")
	l.carry = lines[len(lines)-1]

	var b strings.Builder
	for _, line := range lines[:len(lines)-1] {
		if out, keep := l.apply(line); keep {
			b.WriteString(out)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func (l *lineTransformer) Flush() (string, error) {
	if l.carry == "" {
		return "", nil
	}
	line := l.carry
	l.carry = ""
	if out, keep := l.apply(line); keep {
		return out, nil
	}
	return "", nil
}
