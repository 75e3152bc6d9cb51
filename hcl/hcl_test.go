package hcl

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/sanityze/cleanser"
	"github.com/hashicorp/sanityze/spotter"
)

func boolPtr(b bool) *bool {
	return &b
}

func fullConfig() HCL {
	return HCL{
		Cleanser: &Cleanser{
			Hash:    true,
			Workers: 4,
			Verbose: true,
			Spotters: []Spotter{
				{Kind: KindEmail, Name: "EMAILS", Hash: boolPtr(false)},
				{Kind: KindRegex, ID: "PHONE", Match: `\d{3}-\d{4}`, Replace: "<PHONE>", Hash: boolPtr(false)},
				{Kind: KindLiteral, ID: "CODENAME", Match: "Project X"},
			},
		},
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name   string
		path   string
		expect HCL
	}{
		{
			name:   "Empty config is valid",
			path:   "testdata/empty.hcl",
			expect: HCL{},
		},
		{
			name: "Defaults can be turned off",
			path: "testdata/no_defaults.hcl",
			expect: HCL{
				Cleanser: &Cleanser{Defaults: boolPtr(false)},
			},
		},
		{
			name:   "HCL config with every spotter kind is valid",
			path:   "testdata/full.hcl",
			expect: fullConfig(),
		},
		{
			name:   "YAML config with every spotter kind is valid",
			path:   "testdata/full.yaml",
			expect: fullConfig(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Parse(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, res)
		})
	}
}

func TestParse_JSON(t *testing.T) {
	res, err := Parse("testdata/full.json")
	require.NoError(t, err)
	require.NotNil(t, res.Cleanser)

	expect := fullConfig()
	assert.Equal(t, expect.Cleanser.Hash, res.Cleanser.Hash)
	assert.Equal(t, expect.Cleanser.Workers, res.Cleanser.Workers)
	assert.ElementsMatch(t, expect.Cleanser.Spotters, res.Cleanser.Spotters)
}

func TestParse_Errors(t *testing.T) {
	for _, path := range []string{
		"testdata/does_not_exist.hcl",
		"testdata/unknown_field.yaml",
	} {
		_, err := Parse(path)
		assert.Error(t, err, path)
	}
}

func TestValidateSpotters(t *testing.T) {
	testCases := []struct {
		name      string
		spotters  []Spotter
		expectErr int
	}{
		{
			name: "built-in kinds",
			spotters: []Spotter{
				{Kind: KindEmail},
				{Kind: KindCreditCard, Name: "CARDS"},
			},
		},
		{
			name: "built-in kind with a matcher",
			spotters: []Spotter{
				{Kind: KindEmail, Match: "foo"},
			},
			expectErr: 1,
		},
		{
			name: "everything wrong at once",
			spotters: []Spotter{
				{Kind: "phone", Match: "x"},
				{Kind: KindRegex, Match: "(unclosed"},
				{Kind: KindRegex},
				{Kind: KindLiteral, ID: "EMPTY"},
			},
			expectErr: 4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSpotters(tc.spotters)
			if tc.expectErr == 0 {
				assert.NoError(t, err)
				return
			}
			var merr *multierror.Error
			require.ErrorAs(t, err, &merr)
			assert.Len(t, merr.Errors, tc.expectErr)
		})
	}
}

func TestMapSpotters(t *testing.T) {
	spotters, err := MapSpotters(fullConfig().Cleanser.Spotters, true)
	require.NoError(t, err)
	require.Len(t, spotters, 3)

	assert.IsType(t, &spotter.EmailSpotter{}, spotters[0])
	assert.Equal(t, spotter.EmailID, spotters[0].ID())
	assert.False(t, spotters[0].HashMode())

	assert.Equal(t, "PHONE", spotters[1].ID())
	assert.False(t, spotters[1].HashMode())
	assert.Equal(t, "CODENAME", spotters[2].ID())
	assert.True(t, spotters[2].HashMode())
}

func TestBuildCleanser(t *testing.T) {
	testCases := []struct {
		name   string
		path   string
		expect []string
		input  string
		output string
	}{
		{
			name:   "empty config builds the default chain",
			path:   "testdata/empty.hcl",
			expect: []string{spotter.EmailID, spotter.CreditCardID},
			input:  "printer foo@gaga.com",
			output: "printer EMAILADDRS",
		},
		{
			name:   "no defaults",
			path:   "testdata/no_defaults.hcl",
			input:  "printer foo@gaga.com",
			output: "printer foo@gaga.com",
		},
		{
			name:   "custom spotters follow the defaults and duplicates are skipped",
			path:   "testdata/full.hcl",
			expect: []string{spotter.EmailID, spotter.CreditCardID, "PHONE", "CODENAME"},
			input:  "call 555-1234 about Project X",
			output: "call <PHONE> about " + spotter.Hash("Project X"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse(tc.path)
			require.NoError(t, err)

			c, err := BuildCleanser(cfg)
			require.NoError(t, err)

			var ids []string
			for _, s := range c.Spotters() {
				ids = append(ids, s.ID())
			}
			assert.Equal(t, tc.expect, ids)
			assert.Equal(t, tc.output, c.Process(tc.input))
		})
	}
}

func TestBuildCleanser_DuplicateLogsToInjectedLogger(t *testing.T) {
	cfg, err := Parse("testdata/full.hcl")
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	l := hclog.New(&hclog.LoggerOptions{Output: buf}).With("run_id", "abc123")

	c, err := BuildCleanser(cfg, cleanser.WithLogger(l))
	require.NoError(t, err)
	assert.Same(t, l, c.Logger())

	out := buf.String()
	assert.Contains(t, out, "skipping spotter")
	assert.Contains(t, out, "run_id=abc123")
	assert.Contains(t, out, "id="+spotter.EmailID)
}

func TestBuildCleanser_Invalid(t *testing.T) {
	cfg, err := Parse("testdata/invalid.hcl")
	require.NoError(t, err)

	c, err := BuildCleanser(cfg, cleanser.WithWorkers(2))
	assert.Error(t, err)
	assert.Nil(t, c)
}
