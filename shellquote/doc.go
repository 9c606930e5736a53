// Package shellquote escapes strings for safe inclusion in a POSIX shell
// command line.
//
// Quoting is conservative: a token made entirely of shell-neutral
// characters passes through unchanged, anything else is wrapped in single
// quotes with embedded quotes escaped as '\''. Join folds a whole argument
// list into one command-line fragment, which is how shell-mode invocations
// embed their arguments — a single command string handed to the shell,
// never a command string plus a separate argument array.
package shellquote
