// Package invoke launches external programs with normalized argument
// handling, per-stream transformation pipelines, and a result-carrying
// process handle.
//
// The async launcher returns a *Proc that is simultaneously the live
// process handle (the embedded *exec.Cmd surface) and the deferred result
// (Wait, Done, Outcome):
//
//	p := invoke.Start("echo %s baz", invoke.Args{"foo bar"}, nil)
//	out, err := p.Wait()
//
// Argument lists are loosely typed: nested groups flatten to unbounded
// depth and the conditional markers nil and false drop out, so argument
// groups can be included with short-circuit expressions. In shell mode
// each %s placeholder in the command string consumes one argument,
// shell-quoted; in non-shell mode a space-containing command splits into
// program and leading words, %s words substitute in order, and leftover
// arguments append at the end.
//
// The sync launcher blocks, and in its default exit-enabled mode it echoes
// the child's stderr and terminates the parent with the child's code on
// failure:
//
//	out, err := invoke.Sync("git rev-parse HEAD", nil, nil)
//
// A Runner pre-merges a fixed set of default options ahead of per-call
// options; StartJSON pre-sets JSON decoding of stdout.
package invoke
