package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/mitchellh/cli"

	"github.com/hashicorp/sanityze/command"
	"github.com/hashicorp/sanityze/version"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	// A .env file is optional; it is only used to seed LOG_LEVEL and friends during local runs.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		hclog.Default().Warn("unable to load .env file", "error", err)
	}

	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := newCLI(ui, args)
	rc, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
	}
	return rc
}

func newCLI(ui cli.Ui, args []string) *cli.CLI {
	c := cli.NewCLI("sanityze", version.GetVersion().SemanticVersion())
	c.Args = args
	c.Commands = map[string]cli.CommandFactory{
		"clean":   command.CleanCommandFactory(ui),
		"version": command.VersionCommandFactory(ui),
	}
	return c
}
