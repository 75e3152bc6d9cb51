// Package spotter provides detectors that locate a class of sensitive substring in text and replace it with either a
// fixed sentinel token or a one-way hash.
package spotter

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

// Spotter is a single detection and replacement unit. Implementations must be immutable after construction so that
// Process is safe to call from multiple goroutines.
type Spotter interface {
	// ID is the key used for lookup and removal within a chain. In non-hash mode it is also the replacement text.
	ID() string
	// HashMode reports whether matches are replaced with a digest rather than the sentinel.
	HashMode() bool
	// Process returns text with every match replaced. It never modifies its input.
	Process(text string) string
}

// Hash returns the lowercase hex-encoded MD5 digest of s.
func Hash(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// replaceFunc replaces every non-overlapping match of re in text, left to right, with the result of repl. repl
// receives the submatch indexes of the match so that callers can inspect capture groups; returning ok=false leaves
// the match untouched.
func replaceFunc(re *regexp.Regexp, text string, repl func(loc []int) (string, bool)) string {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range locs {
		r, ok := repl(loc)
		if !ok {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(r)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
