package spotter

import (
	"fmt"
	"regexp"
)

var _ Spotter = &RegexSpotter{}

// RegexSpotter is a user-defined spotter driven by a regular expression. Unlike the built-in spotters, its ID is the
// one it was configured with.
type RegexSpotter struct {
	id      string
	matcher *regexp.Regexp
	replace string
	hash    bool
}

// NewRegexSpotter takes the matcher as a string and returns a compiled and ready-to-use spotter. If id is empty, one
// is derived from the matcher. If replace is empty, matches are replaced with the ID.
func NewRegexSpotter(matcher, id, replace string, hash bool) (*RegexSpotter, error) {
	if matcher == "" {
		return nil, fmt.Errorf("matcher must not be empty")
	}
	re, err := regexp.Compile(matcher)
	if err != nil {
		return nil, fmt.Errorf("could not compile regex, matcher=%s: %w", matcher, err)
	}
	if id == "" {
		id = Hash(matcher)
	}
	if replace == "" {
		replace = id
	}
	return &RegexSpotter{id: id, matcher: re, replace: replace, hash: hash}, nil
}

// NewLiteralSpotter is like NewRegexSpotter, but matches the literal text rather than a pattern.
func NewLiteralSpotter(literal, id, replace string, hash bool) (*RegexSpotter, error) {
	if literal == "" {
		return nil, fmt.Errorf("literal must not be empty")
	}
	return NewRegexSpotter(regexp.QuoteMeta(literal), id, replace, hash)
}

func (r *RegexSpotter) ID() string {
	return r.id
}

func (r *RegexSpotter) HashMode() bool {
	return r.hash
}

// Matcher returns the source text of the compiled expression.
func (r *RegexSpotter) Matcher() string {
	return r.matcher.String()
}

// Process replaces each match in text. Replacement text may reference capture groups, e.g. "${1}REDACTED". In hash
// mode each match is replaced by its own digest.
func (r *RegexSpotter) Process(text string) string {
	if !r.hash {
		return r.matcher.ReplaceAllString(text, r.replace)
	}
	return r.matcher.ReplaceAllStringFunc(text, Hash)
}
