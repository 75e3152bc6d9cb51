// Copyright IBM Corp. 2021, 2025
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/kr/text"
)

// maxLineLength is the maximum width of any line.
const maxLineLength int = 72

// Usage renders the usage text of a command followed by a description of each of its flags.
func Usage(txt string, flags *flag.FlagSet) string {
	u := &Usager{
		Usage: txt,
		Flags: flags,
	}
	return u.String()
}

type Usager struct {
	Usage string
	Flags *flag.FlagSet
}

func (u *Usager) String() string {
	out := new(bytes.Buffer)

	// Write out the usage slug. Long lines in the slug are wrapped like flag descriptions.
	out.WriteString(wrapAtLength(strings.TrimSpace(u.Usage), 0))
	out.WriteString("\n")
	out.WriteString("\n")

	if u.Flags != nil {
		printTitle(out, "Command Options")

		u.Flags.VisitAll(func(f *flag.Flag) {
			printFlag(out, f)
		})
	}

	return strings.TrimRight(out.String(), "\n")
}

// printTitle prints a consistently-formatted title to the given writer.
func printTitle(w io.Writer, s string) {
	_, _ = fmt.Fprintf(w, "%s\n\n", s)
}

// printFlag prints a single flag to the given writer, including its default when it has a meaningful one.
func printFlag(w io.Writer, f *flag.Flag) {
	switch f.DefValue {
	case "", "false", "0":
		_, _ = fmt.Fprintf(w, "  -%s\n", f.Name)
	default:
		_, _ = fmt.Fprintf(w, "  -%s=%s\n", f.Name, f.DefValue)
	}

	indented := wrapAtLength(f.Usage, 5)
	_, _ = fmt.Fprintf(w, "%s\n\n", indented)
}

// wrapAtLength wraps the given text at the maxLineLength, taking into account
// any provided left padding.
func wrapAtLength(s string, pad int) string {
	var wrapped []string
	for _, paragraph := range strings.Split(s, "\n") {
		wrapped = append(wrapped, text.Wrap(paragraph, maxLineLength-pad))
	}
	lines := strings.Split(strings.Join(wrapped, "\n"), "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(lines, "\n")
}
