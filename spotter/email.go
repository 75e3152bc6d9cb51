package spotter

import (
	"regexp"
	"strings"
)

const (
	// EmailID is the fixed identifier, and non-hash replacement, of every EmailSpotter.
	EmailID = "EMAILADDRS"

	// emailLocalChars is the set of characters permitted in the local part of an address.
	emailLocalChars = "a-z0-9!#$%&'*+/=?^_`{|}~-"

	// emailDomain is a domain with at least one literal or worded dot. The worded forms may be surrounded by any run of
	// whitespace, including newlines.
	emailDomain = `[a-z0-9](?:[a-z0-9-]*(?:\.|\s+dot\s+))+[a-z0-9-]*[a-z0-9]`

	// maxDomainTail bounds the number of characters allowed after the first character of the domain.
	maxDomainTail = 251

	// spaceChars are the characters matched by \s.
	spaceChars = " \t\n\f\r"
)

// emailRegex matches "user@domain.tld" as well as the obfuscated "user at domain dot tld". Group 1 is the separator
// and group 2 the domain.
var emailRegex = regexp.MustCompile(`(?i)\b` +
	`[` + emailLocalChars + `](?:[.` + emailLocalChars + `]{0,62}[` + emailLocalChars + `])?` +
	`(@|\s+at\s+)` +
	`(` + emailDomain + `)` +
	`\b`)

var domainRegex = regexp.MustCompile(`(?i)^` + emailDomain + `$`)

var _ Spotter = &EmailSpotter{}

// EmailSpotter detects email addresses. Matching is case-insensitive.
type EmailSpotter struct {
	name string
	hash bool
}

// NewEmailSpotter returns an EmailSpotter. The name is kept for reference only; ID always reports EmailID, so a chain
// can hold at most one EmailSpotter.
func NewEmailSpotter(name string, hash bool) *EmailSpotter {
	return &EmailSpotter{name: name, hash: hash}
}

// Name returns the name the spotter was constructed with.
func (e *EmailSpotter) Name() string {
	return e.name
}

func (e *EmailSpotter) ID() string {
	return EmailID
}

func (e *EmailSpotter) HashMode() bool {
	return e.hash
}

// Process replaces each address in text. In hash mode, every address is replaced by the digest of that address alone.
//
// When a domain runs past maxDomainTail, only the address up to its longest in-bound domain is replaced and the
// remaining labels are left in place. Addresses with no such domain are not replaced.
func (e *EmailSpotter) Process(text string) string {
	return replaceFunc(emailRegex, text, func(loc []int) (string, bool) {
		end := loc[1]
		if loc[5]-loc[4]-1 > maxDomainTail {
			n := boundedDomain(text[loc[4]:loc[5]])
			if n == 0 {
				return "", false
			}
			end = loc[4] + n
		}

		r := EmailID
		if e.hash {
			r = Hash(text[loc[0]:end])
		}
		return r + text[end:loc[1]], true
	})
}

// boundedDomain returns the length of the longest prefix of domain that ends on a label boundary, is a domain on its
// own, and fits within maxDomainTail. It returns 0 if there is none.
func boundedDomain(domain string) int {
	for n := min(len(domain)-1, maxDomainTail+1); n > 0; n-- {
		if c := domain[n]; c != '.' && !strings.ContainsRune(spaceChars, rune(c)) {
			continue
		}
		if domainRegex.MatchString(domain[:n]) {
			return n
		}
	}
	return 0
}
