package shellquote

import (
	"regexp"
	"strings"
)

var (
	safeToken         = regexp.MustCompile(`^[A-Za-z0-9_/:=-]+$`)
	leadingEmptyPairs = regexp.MustCompile(`^(?:'')+`)
	escapedQuoteRun   = regexp.MustCompile(`\\'''`)
)

// Quote returns s escaped as a single POSIX shell token.
//
// Tokens containing only [A-Za-z0-9_/:=-] are returned unchanged. Anything
// else is wrapped in single quotes with embedded single quotes escaped as
// '\''; the leading run of empty-quote pairs is then collapsed, and the
// three-character sequence left behind when an escaped quote abuts an
// opening quote is shortened to the two-character form.
func Quote(s string) string {
	if safeToken.MatchString(s) {
		return s
	}
	q := "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	q = leadingEmptyPairs.ReplaceAllString(q, "")
	q = escapedQuoteRun.ReplaceAllString(q, `\'`)
	return q
}

// QuoteAll quotes every argument in args.
func QuoteAll(args []string) []string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = Quote(a)
	}
	return quoted
}

// Join quotes each argument and joins them with single spaces, producing a
// fragment safe to splice into a shell command line.
func Join(args []string) string {
	return strings.Join(QuoteAll(args), " ")
}
