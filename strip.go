package schemadex

import "regexp"

// commentRe matches the leftmost comment of either kind, so a "//" inside a
// block comment and a "/*" after a line comment are both consumed whole.
var commentRe = regexp.MustCompile(`(?s)/\*.*?\*/|//[^\r\n]*`)

// StripComments removes // line comments and non-nested /* */ block comments
// so dumper output annotated with comments becomes plain JSON. Line breaks
// outside block comments are kept.
//
// String literals are not tracked: a "//" or "/*" inside a JSON string is
// treated as the start of a comment.
func StripComments(s string) string {
	return commentRe.ReplaceAllString(s, "")
}
