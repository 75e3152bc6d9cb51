package spotter

import (
	"regexp"
	"strings"
)

// CreditCardID is the fixed identifier, and non-hash replacement, of every CreditCardSpotter.
const CreditCardID = "CREDITCARD"

// creditCardPatterns are contiguous digit runs keyed to issuer number ranges. There is no Luhn check, so any run with
// a matching prefix and length is treated as a card number.
var creditCardPatterns = []string{
	// Visa
	`4[0-9]{12}(?:[0-9]{3})?`,
	// MasterCard
	`5[1-5][0-9]{14}`,
	`2(?:2(?:2[1-9]|[3-9][0-9])|[3-6][0-9]{2}|7(?:[01][0-9]|20))[0-9]{12}`,
	// American Express
	`3[47][0-9]{13}`,
	// Diners Club
	`3(?:0[0-5]|[68][0-9])[0-9]{13}`,
	// Discover
	`6(?:011|5[0-9]{2})[0-9]{12}`,
	// JCB
	`(?:2131|1800)[0-9]{11}`,
	`35[0-9]{3}[0-9]{11}`,
}

// creditCardRegex requires a word boundary on both sides, so numbers written in space-separated groups or embedded in
// longer digit runs are not matched.
var creditCardRegex = regexp.MustCompile(`\b(?:` + strings.Join(creditCardPatterns, "|") + `)\b`)

var _ Spotter = &CreditCardSpotter{}

// CreditCardSpotter detects credit-card numbers.
type CreditCardSpotter struct {
	name string
	hash bool
}

// NewCreditCardSpotter returns a CreditCardSpotter. The name is kept for reference only; ID always reports
// CreditCardID, so a chain can hold at most one CreditCardSpotter.
func NewCreditCardSpotter(name string, hash bool) *CreditCardSpotter {
	return &CreditCardSpotter{name: name, hash: hash}
}

// Name returns the name the spotter was constructed with.
func (c *CreditCardSpotter) Name() string {
	return c.name
}

func (c *CreditCardSpotter) ID() string {
	return CreditCardID
}

func (c *CreditCardSpotter) HashMode() bool {
	return c.hash
}

// Process replaces each card number in text.
//
// In hash mode the replacement is the digest of the whole of text, not of the matched number. This differs from
// EmailSpotter, and existing redacted datasets depend on it: "VISA, 4929688015693122" becomes
// "VISA, 34c2171639b834dce4b1c0183a91d427".
func (c *CreditCardSpotter) Process(text string) string {
	var digest string
	return replaceFunc(creditCardRegex, text, func([]int) (string, bool) {
		if !c.hash {
			return CreditCardID, true
		}
		if digest == "" {
			digest = Hash(text)
		}
		return digest, true
	})
}
