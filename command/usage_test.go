package command

import (
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsage(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Bool("quiet", false, "Say less")
	fs.String("output", "-", strings.Repeat("word ", 30))

	u := Usage("Usage: test [options]\n\nDoes a thing.\n", fs)

	assert.True(t, strings.HasPrefix(u, "Usage: test [options]\n\nDoes a thing.\n\nCommand Options\n\n"))
	assert.Contains(t, u, "  -quiet\n     Say less")
	assert.Contains(t, u, "  -output=-\n")
	for _, line := range strings.Split(u, "\n") {
		assert.LessOrEqual(t, len(line), maxLineLength)
	}
	assert.False(t, strings.HasSuffix(u, "\n"))
}

func TestUsage_NoFlags(t *testing.T) {
	assert.Equal(t, "Usage: test", Usage("  Usage: test\n", nil))
}
