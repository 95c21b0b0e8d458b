package toolstream

import "regexp"

// stripPattern matches any directive-shaped tag: an uppercase identifier,
// a colon, then anything up to the first ']'. The display filter hides
// well-formed tags whether or not the name is registered, so an unknown
// tool never leaks into user-visible text.
var stripPattern = regexp.MustCompile(`\[[A-Z][A-Z0-9_]*:[^\]]*\]`)

// Clean projects the user-visible text from a scan buffer: every matched
// bracket tag is removed, all other text (markdown included) is left
// untouched and in order. Pure and idempotent; safe to call repeatedly on
// a growing buffer. An unterminated tag has no closing ']' and therefore
// stays verbatim until (and unless) it closes.
func Clean(buffer string) string {
	return stripPattern.ReplaceAllString(buffer, "")
}
