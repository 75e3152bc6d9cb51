// Package cleanser applies an ordered chain of spotters to every string cell of a table.
package cleanser

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/hashicorp/sanityze/spotter"
	"github.com/hashicorp/sanityze/table"
)

const (
	// DefaultEmailName is the name given to the EmailSpotter of a chain built with defaults.
	DefaultEmailName = "DEFAULTEMAILS"

	// DefaultCreditCardName is the name given to the CreditCardSpotter of a chain built with defaults. The spelling is
	// kept as-is for compatibility with existing configurations.
	DefaultCreditCardName = "DEFAULCCS"
)

// ErrInvalidArgument is returned when a required argument is missing or malformed.
var ErrInvalidArgument = errors.New("invalid argument")

// Cleanser holds an ordered chain of spotters. Spotters are applied in the order they were added, so each spotter
// sees text that has already been rewritten by the ones before it. No two spotters in the chain share an ID.
type Cleanser struct {
	l       hclog.Logger
	verbose bool
	workers int
	chain   []spotter.Spotter
}

// Option configures a Cleanser.
type Option func(*Cleanser)

// WithLogger sets the logger used for verbose tracing.
func WithLogger(l hclog.Logger) Option {
	return func(c *Cleanser) {
		if l != nil {
			c.l = l
		}
	}
}

// WithVerbose enables a trace line before and after every spotter invocation on every cell.
func WithVerbose(verbose bool) Option {
	return func(c *Cleanser) {
		c.verbose = verbose
	}
}

// WithWorkers sets how many rows are cleaned concurrently. Values below 2 clean sequentially.
func WithWorkers(n int) Option {
	return func(c *Cleanser) {
		c.workers = n
	}
}

// New returns a Cleanser. If includeDefaults is true, the chain starts with an EmailSpotter followed by a
// CreditCardSpotter, both using hashMode; otherwise it starts empty.
func New(includeDefaults, hashMode bool, opts ...Option) *Cleanser {
	c := &Cleanser{
		l: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if includeDefaults {
		c.chain = []spotter.Spotter{
			spotter.NewEmailSpotter(DefaultEmailName, hashMode),
			spotter.NewCreditCardSpotter(DefaultCreditCardName, hashMode),
		}
	}
	return c
}

// Add appends s to the end of the chain. It returns false, leaving the chain unchanged, if a spotter with the same ID
// is already present.
func (c *Cleanser) Add(s spotter.Spotter) (bool, error) {
	if isNil(s) {
		return false, fmt.Errorf("spotter cannot be nil: %w", ErrInvalidArgument)
	}
	for _, existing := range c.chain {
		if existing.ID() == s.ID() {
			return false, nil
		}
	}
	c.chain = append(c.chain, s)
	return true, nil
}

// Remove drops the spotter whose ID matches id. It returns false if there is no such spotter.
func (c *Cleanser) Remove(id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("spotter id cannot be empty: %w", ErrInvalidArgument)
	}
	for i, s := range c.chain {
		if s.ID() == id {
			c.chain = append(c.chain[:i:i], c.chain[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Logger returns the logger the cleanser was configured with.
func (c *Cleanser) Logger() hclog.Logger {
	return c.l
}

// Spotters returns a copy of the chain, in application order.
func (c *Cleanser) Spotters() []spotter.Spotter {
	out := make([]spotter.Spotter, len(c.chain))
	copy(out, c.chain)
	return out
}

// Len returns the number of spotters in the chain.
func (c *Cleanser) Len() int {
	return len(c.chain)
}

// Process folds text through every spotter in the chain.
func (c *Cleanser) Process(text string) string {
	for _, s := range c.chain {
		if c.verbose {
			c.l.Info("processing cell", "spotter", s.ID(), "cell", text)
		}
		text = s.Process(text)
		if c.verbose {
			c.l.Info("processed cell", "spotter", s.ID(), "cell", text)
		}
	}
	return text
}

// Clean returns a copy of t in which every string cell has been processed by the chain. Other cells are copied
// unchanged and t itself is never modified.
func (c *Cleanser) Clean(t *table.Table) (*table.Table, error) {
	return c.CleanContext(context.Background(), t)
}

// CleanContext is like Clean, but stops early and returns the context's error if ctx is done before every row has
// been cleaned.
func (c *Cleanser) CleanContext(ctx context.Context, t *table.Table) (*table.Table, error) {
	if t == nil {
		return nil, fmt.Errorf("table cannot be nil: %w", ErrInvalidArgument)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrInvalidArgument)
	}

	out := &table.Table{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([][]table.Cell, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)

	if c.workers < 2 {
		for i, row := range t.Rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out.Rows[i] = c.cleanRow(row)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, row := range t.Rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each goroutine owns out.Rows[i], so no locking is required.
			out.Rows[i] = c.cleanRow(row)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Cleanser) cleanRow(row []table.Cell) []table.Cell {
	cleaned := make([]table.Cell, len(row))
	for j, cell := range row {
		if s, ok := cell.(string); ok {
			cleaned[j] = c.Process(s)
			continue
		}
		cleaned[j] = cell
	}
	return cleaned
}

// isNil reports whether s is nil or holds a nil pointer.
func isNil(s spotter.Spotter) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
