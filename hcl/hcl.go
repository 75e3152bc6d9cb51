package hcl

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp/sanityze/cleanser"
	"github.com/hashicorp/sanityze/spotter"
)

// Spotter kinds, used as the label of a spotter block.
const (
	KindEmail      = "email"
	KindCreditCard = "creditcard"
	KindRegex      = "regex"
	KindLiteral    = "literal"
)

type HCL struct {
	Cleanser *Cleanser `hcl:"cleanser,block" json:"cleanser" yaml:"cleanser"`
}

type Cleanser struct {
	// Defaults includes the default email and credit-card spotters. It is true when unset.
	Defaults *bool     `hcl:"defaults,optional" json:"defaults" yaml:"defaults"`
	Hash     bool      `hcl:"hash,optional" json:"hash" yaml:"hash"`
	Workers  int       `hcl:"workers,optional" json:"workers" yaml:"workers"`
	Verbose  bool      `hcl:"verbose,optional" json:"verbose" yaml:"verbose"`
	Spotters []Spotter `hcl:"spotter,block" json:"spotters" yaml:"spotters"`
}

type Spotter struct {
	Kind    string `hcl:"kind,label" json:"kind" yaml:"kind"`
	Name    string `hcl:"name,optional" json:"name" yaml:"name"`
	ID      string `hcl:"id,optional" json:"id" yaml:"id"`
	Match   string `hcl:"match,optional" json:"match" yaml:"match"`
	Replace string `hcl:"replace,optional" json:"replace" yaml:"replace"`
	// Hash overrides the cleanser-level hash setting for this spotter.
	Hash *bool `hcl:"hash,optional" json:"hash" yaml:"hash"`
}

// Parse takes a file path and decodes the file from disk into HCL types. Files ending in .yaml or .yml are decoded as
// YAML; everything else is handed to hclsimple, which accepts .hcl and .json.
func Parse(path string) (HCL, error) {
	var h HCL
	p, err := homedir.Expand(path)
	if err != nil {
		return HCL{}, err
	}

	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		err = decodeYAML(p, &h)
	default:
		err = hclsimple.DecodeFile(p, nil, &h)
	}
	if err != nil {
		return HCL{}, err
	}
	return h, nil
}

func decodeYAML(path string, h *HCL) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(h); err != nil {
		return fmt.Errorf("parsing yaml config %s: %w", path, err)
	}
	return nil
}

// BuildCleanser builds a ready-to-use cleanser from the configuration. Options derived from the configuration are
// applied first, so opts take precedence over them. A nil cleanser block yields the default chain. Skipped duplicates
// are logged to the logger set with cleanser.WithLogger.
func BuildCleanser(config HCL, opts ...cleanser.Option) (*cleanser.Cleanser, error) {
	cfg := config.Cleanser
	if cfg == nil {
		cfg = &Cleanser{}
	}

	spotters, err := MapSpotters(cfg.Spotters, cfg.Hash)
	if err != nil {
		return nil, err
	}

	includeDefaults := cfg.Defaults == nil || *cfg.Defaults
	allOpts := []cleanser.Option{
		cleanser.WithWorkers(cfg.Workers),
		cleanser.WithVerbose(cfg.Verbose),
	}
	allOpts = append(allOpts, opts...)
	c := cleanser.New(includeDefaults, cfg.Hash, allOpts...)

	for _, s := range spotters {
		added, err := c.Add(s)
		if err != nil {
			return nil, err
		}
		if !added {
			c.Logger().Warn("skipping spotter, an entry with the same id is already in the chain", "id", s.ID())
		}
	}
	return c, nil
}

// MapSpotters maps configured spotters to "real" spotters. hash is used for any spotter that does not set its own.
func MapSpotters(spotters []Spotter, hash bool) ([]spotter.Spotter, error) {
	if err := ValidateSpotters(spotters); err != nil {
		return nil, err
	}

	out := make([]spotter.Spotter, len(spotters))
	for i, s := range spotters {
		h := hash
		if s.Hash != nil {
			h = *s.Hash
		}

		switch s.Kind {
		case KindEmail:
			out[i] = spotter.NewEmailSpotter(s.Name, h)
		case KindCreditCard:
			out[i] = spotter.NewCreditCardSpotter(s.Name, h)
		case KindRegex:
			rs, err := spotter.NewRegexSpotter(s.Match, s.ID, s.Replace, h)
			if err != nil {
				return nil, err
			}
			out[i] = rs
		case KindLiteral:
			ls, err := spotter.NewLiteralSpotter(s.Match, s.ID, s.Replace, h)
			if err != nil {
				return nil, err
			}
			out[i] = ls
		}
	}
	return out, nil
}

// ValidateSpotters takes a slice of spotters and ensures they use valid kinds and carry what their kind needs. All
// problems are reported together.
func ValidateSpotters(spotters []Spotter) error {
	hclog.L().Trace("hcl.ValidateSpotters()", "spotters", spotters)
	var result *multierror.Error
	for i, s := range spotters {
		switch s.Kind {
		case KindEmail, KindCreditCard:
			if s.Match != "" || s.Replace != "" {
				result = multierror.Append(result, fmt.Errorf("spotter %d: match and replace are not supported for kind=%s", i, s.Kind))
			}
		case KindRegex:
			if s.Match == "" {
				result = multierror.Append(result, fmt.Errorf("spotter %d: match is required for kind=%s", i, s.Kind))
				continue
			}
			if _, err := regexp.Compile(s.Match); err != nil {
				result = multierror.Append(result, fmt.Errorf("spotter %d: could not compile regex, matcher=%s, err=%s", i, s.Match, err))
			}
		case KindLiteral:
			if s.Match == "" {
				result = multierror.Append(result, fmt.Errorf("spotter %d: match is required for kind=%s", i, s.Kind))
			}
		default:
			result = multierror.Append(result, fmt.Errorf("spotter %d: invalid spotter kind, kind=%s", i, s.Kind))
		}
	}
	return result.ErrorOrNil()
}
