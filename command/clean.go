// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/hashicorp/sanityze/cleanser"
	"github.com/hashicorp/sanityze/hcl"
	"github.com/hashicorp/sanityze/table"
)

// stdio is the path that stands for standard input or output.
const stdio = "-"

var _ cli.Command = &CleanCommand{}

type CleanCommand struct {
	ui    cli.Ui
	flags *flag.FlagSet

	// stdin and stdout are used when the input or output path is "-". The summary goes to stderr.
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	hash       bool
	noDefaults bool
	verbose    bool
	summary    bool

	// workers is the number of rows cleaned concurrently; 0 picks one per physical CPU
	workers int

	// Output location
	output string

	// HCL file location
	config string
}

func (c *CleanCommand) init() {
	const (
		hashUsageText       = "Replace spotted values with an MD5 digest instead of a fixed token"
		noDefaultsUsageText = "Do not include the default email and credit-card spotters; only spotters from -config are used"
		verboseUsageText    = "Log every cell before and after each spotter"
		summaryUsageText    = "Print a per-column summary of redacted cells to stderr"
		workersUsageText    = "Number of rows to clean concurrently. 0 uses one worker per physical CPU"
		outputUsageText     = "Path to write the cleaned CSV to. Paths ending in '.gz' are compressed. Defaults to stdout"
		oUsageText          = "Shorthand for -output"
		configUsageText     = "Path to an HCL, JSON or YAML configuration file"
	)

	// flag.ContinueOnError allows flag.Parse to return an error if one comes up, rather than doing an `os.Exit(2)`
	// on its own.
	c.flags = flag.NewFlagSet("clean", flag.ContinueOnError)

	c.flags.BoolVar(&c.hash, "hash", false, hashUsageText)
	c.flags.BoolVar(&c.noDefaults, "no-defaults", false, noDefaultsUsageText)
	c.flags.BoolVar(&c.verbose, "verbose", false, verboseUsageText)
	c.flags.BoolVar(&c.summary, "summary", true, summaryUsageText)
	c.flags.IntVar(&c.workers, "workers", 0, workersUsageText)
	c.flags.StringVar(&c.output, "output", stdio, outputUsageText)
	c.flags.StringVar(&c.output, "o", stdio, oUsageText)
	c.flags.StringVar(&c.config, "config", "", configUsageText)

	// When invalid flags are provided, Go will output a usage message of its own. If we direct our flag set to
	// io.Discard, it will effectively be hidden, allowing us to print our own Help message upon failure.
	c.flags.SetOutput(io.Discard)
}

// NewCleanCommand produces a new *CleanCommand pointer, initialized for use in a CLI application.
func NewCleanCommand(ui cli.Ui) *CleanCommand {
	c := &CleanCommand{
		ui:     ui,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	c.init()
	return c
}

// CleanCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *CleanCommand.
func CleanCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewCleanCommand(ui), nil
	}
}

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *CleanCommand) Help() string {
	helpText := `Usage: sanityze clean [options] <input.csv>

Redacts email addresses and credit-card numbers from every text cell of a CSV file. Use '-' to read from stdin.
`

	return Usage(helpText, c.flags)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *CleanCommand) Synopsis() string {
	return "Redact PII from a CSV file"
}

// Run executes the command.
func (c *CleanCommand) Run(args []string) int {
	if err := c.parseFlags(args); err != nil {
		// Output the specific error to help the user understand what went wrong.
		c.ui.Warn(err.Error())
		// Since there was an issue in input, let's show our Help to try and assist the user.
		c.ui.Warn(c.Help())
		return FlagParseError
	}
	if c.flags.NArg() != 1 {
		c.ui.Warn(fmt.Sprintf("expected exactly one input file, got %d", c.flags.NArg()))
		c.ui.Warn(c.Help())
		return FlagParseError
	}
	input := c.flags.Arg(0)

	l := configureLogging("sanityze").With("run_id", uuid.New().String())

	// Build configuration from HCL, then flags
	var config hcl.HCL
	if c.config != "" {
		hclCfg, err := hcl.Parse(c.config)
		if err != nil {
			l.Error("Failed to load configuration", "config", c.config, "error", err)
			return ConfigError
		}
		l.Debug("HCL config is", "hcl", hclCfg)
		config = hclCfg
	}
	config = c.mergeConfig(l, config)

	cl, err := hcl.BuildCleanser(config, cleanser.WithLogger(l))
	if err != nil {
		l.Error("Failed to build cleanser", "error", err)
		return ConfigError
	}

	in, err := c.readInput(input)
	if err != nil {
		l.Error("Failed to read input", "input", input, "error", err)
		return InputError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	out, err := cl.CleanContext(ctx, in)
	if err != nil {
		l.Error("Failed to clean table", "error", err)
		return CleanError
	}
	rows, cols := out.Shape()
	l.Info("Cleaned table", "rows", rows, "columns", cols, "spotters", cl.Len(), "duration", time.Since(start))

	if err = c.writeOutput(out); err != nil {
		l.Error("Failed to write output", "output", c.output, "error", err)
		return OutputError
	}

	if c.summary {
		if err = writeSummary(c.stderr, in, out); err != nil {
			l.Warn("failed to generate summary; please review the output to ensure everything expected is present", "err", err)
			return OutputError
		}
	}

	return Success
}

// configureLogging takes a logger name, sets the default configuration, grabs the LOG_LEVEL from our ENV vars, and
// returns a configured and usable logger.
func configureLogging(loggerName string) hclog.Logger {
	// Create logger, set default and log level
	appLogger := hclog.New(&hclog.LoggerOptions{
		Name:   loggerName,
		Color:  hclog.AutoColor,
		Output: os.Stderr,
	})
	hclog.SetDefault(appLogger)
	if logStr := os.Getenv("LOG_LEVEL"); logStr != "" {
		if level := hclog.LevelFromString(logStr); level != hclog.NoLevel {
			appLogger.SetLevel(level)
			appLogger.Debug("Logger configuration change", "LOG_LEVEL", hclog.Fmt("%s", logStr))
		}
	}
	return hclog.Default()
}

func (c *CleanCommand) parseFlags(args []string) error {
	return c.flags.Parse(args)
}

// mergeConfig merges flags into the HCL config, prioritizing flags over HCL config. Only flags that were set on the
// command line take part, so "-hash=false" turns off a hash setting from the file while an omitted flag leaves it be.
func (c *CleanCommand) mergeConfig(l hclog.Logger, config hcl.HCL) hcl.HCL {
	var cfg hcl.Cleanser
	if config.Cleanser != nil {
		cfg = *config.Cleanser
	}

	c.flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "no-defaults":
			defaults := !c.noDefaults
			cfg.Defaults = &defaults
		case "hash":
			cfg.Hash = c.hash
		case "verbose":
			cfg.Verbose = c.verbose
		case "workers":
			cfg.Workers = c.workers
		}
	})

	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers(l)
	}

	config.Cleanser = &cfg
	return config
}

// defaultWorkers returns the number of physical CPUs, falling back to the number of logical CPUs usable by the
// process.
func defaultWorkers(l hclog.Logger) int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		l.Debug("unable to count physical cpus, using GOMAXPROCS", "error", err)
		return runtime.GOMAXPROCS(0)
	}
	return n
}

func (c *CleanCommand) readInput(path string) (*table.Table, error) {
	if path == stdio {
		return table.ReadCSV(c.stdin)
	}
	return table.LoadFile(path)
}

func (c *CleanCommand) writeOutput(t *table.Table) error {
	if c.output == stdio {
		return table.WriteCSV(c.stdout, t)
	}
	return table.SaveFile(c.output, t)
}

// writeSummary writes, per column, how many string cells were changed by the cleanser.
func writeSummary(writer io.Writer, in, out *table.Table) error {
	t := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	headers := []string{
		"column",
		"text",
		"redacted",
		"total",
	}

	_, err := fmt.Fprint(t, formatReportLine(headers...))
	if err != nil {
		return err
	}

	var allText, allRedacted, allTotal int
	for j, col := range in.Columns {
		var text, redacted int
		for i := range in.Rows {
			before, ok := in.At(i, j).(string)
			if !ok {
				continue
			}
			text++
			if after, _ := out.At(i, j).(string); after != before {
				redacted++
			}
		}
		allText += text
		allRedacted += redacted
		allTotal += len(in.Rows)

		_, err := fmt.Fprint(t, formatReportLine(
			col,
			strconv.Itoa(text),
			strconv.Itoa(redacted),
			strconv.Itoa(len(in.Rows))))
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(t, formatReportLine(
		"(all)",
		strconv.Itoa(allText),
		strconv.Itoa(allRedacted),
		strconv.Itoa(allTotal)))
	if err != nil {
		return err
	}

	return t.Flush()
}

func formatReportLine(cells ...string) string {
	format := ""

	// The coercion from the argument of type []string to type []interface is required for the later
	// call to fmt.Sprintf, in which variadic arguments must be of type any/interface{}.
	strValues := make([]interface{}, len(cells))
	for i, cell := range cells {
		format += "%s\t"
		strValues[i] = cell
	}

	format += "\n"

	return fmt.Sprintf(format, strValues...)
}
