// Copyright (C) 2020  Ambassador Labs (for Telepresence)
// Copyright (C) 2021-2022  Ambassador Labs (for ocibuild and semv)
//
// SPDX-License-Identifier: Apache-2.0
//
// Based on
// https://github.com/telepresenceio/telepresence/blob/b6dfa04ff014915b47386191cc3d8b1352522fea/pkg/client/cli/command_group.go#L35-L63

package cliutil

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// GetTerminalWidth returns the width of the terminal that help text should be wrapped to, or 0
// for "don't wrap".
//
// The COLUMNS environment variable wins if it is set; otherwise stdout is measured if it is a
// terminal.  Output that isn't going to a terminal (a pipe, a file, `semv --help | less`) is not
// wrapped.
func GetTerminalWidth() int {
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil {
		return cols
	}

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	if cols, _, err := term.GetSize(fd); err == nil {
		return cols
	}
	return 80
}
