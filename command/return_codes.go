// Copyright IBM Corp. 2021, 2025
// SPDX-License-Identifier: MPL-2.0

package command

// Success indicates a successful command execution.
const Success int = 0

// The following error group is intended for issues within the command's execution.
const (
	// FlagParseError indicates that a command was unable to successfully parse the flags/arguments provided to it.
	FlagParseError int = iota + 16

	// ConfigError indicates that there was an error in the sanityze configuration.
	ConfigError

	// InputError indicates that the input table could not be read.
	InputError

	// CleanError indicates that the cleanser returned an error, e.g. the run was interrupted.
	CleanError

	// OutputError indicates an error writing the cleaned table or the run summary.
	OutputError
)
