package invoke

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kbukum/invokit/shellquote"
)

// Args is the loosely-typed argument list accepted by the launchers.
// Entries may be strings, nested []any or []string groups, or the
// conditional markers nil and false produced by short-circuit expressions.
// Markers and empty strings drop out during normalization.
type Args = []any

// Flatten flattens args to unbounded depth, dropping nil, false, and
// empty-string entries while preserving left-to-right order.
func Flatten(args Args) []string {
	out := make([]string, 0, len(args))
	for _, v := range args {
		switch x := v.(type) {
		case nil:
		case bool:
			if x {
				out = append(out, "true")
			}
		case string:
			if x != "" {
				out = append(out, x)
			}
		case []string:
			for _, s := range x {
				if s != "" {
					out = append(out, s)
				}
			}
		case Args:
			out = append(out, Flatten(x)...)
		default:
			out = append(out, fmt.Sprint(x))
		}
	}
	return out
}

// Invocation is a normalized command ready to launch: the resolved program
// (or the folded shell command line), its argument vector, and the shell
// flag. Built once per call and immutable afterwards.
type Invocation struct {
	Command string
	Args    []string
	Shell   bool
}

// placeholder matches a literal %s token at a word boundary.
var placeholder = regexp.MustCompile(`%s\b`)

// Normalize resolves a raw call into an Invocation.
//
// In shell mode each %s in the command string consumes one flattened
// argument, shell-quoted. Arguments left over once the placeholders are
// exhausted are dropped, not appended: in shell mode every argument must
// be placeholder-consumed or embedded in the command string itself. The
// command string is never split, so it may contain intentional spaces.
//
// In non-shell mode a space-containing command splits into the leading
// program token and trailing words; each trailing %s word substitutes one
// argument (empty string once exhausted) and remaining arguments append
// after the trailing words.
func Normalize(command string, raw Args, shell bool) Invocation {
	args := Flatten(raw)

	if shell {
		folded := placeholder.ReplaceAllStringFunc(command, func(string) string {
			if len(args) == 0 {
				return ""
			}
			next := args[0]
			args = args[1:]
			return shellquote.Quote(next)
		})
		return Invocation{Command: folded, Shell: true}
	}

	if strings.Contains(command, " ") {
		words := strings.Split(command, " ")
		trailing := words[1:]
		for i, w := range trailing {
			if w != "%s" {
				continue
			}
			if len(args) > 0 {
				trailing[i] = args[0]
				args = args[1:]
			} else {
				trailing[i] = ""
			}
		}
		return Invocation{Command: words[0], Args: append(trailing, args...)}
	}

	return Invocation{Command: command, Args: args}
}

// Argv returns the primitive argument vector handed to the OS: the shell
// wrapper around the folded command line in shell mode, the program plus
// its arguments otherwise.
func (inv Invocation) Argv() []string {
	if inv.Shell {
		return []string{"/bin/sh", "-c", inv.Command}
	}
	return append([]string{inv.Command}, inv.Args...)
}

// String renders the invocation as a human-readable command line.
func (inv Invocation) String() string {
	return strings.Join(inv.Argv(), " ")
}
