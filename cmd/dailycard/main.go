// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Command dailycard picks, refreshes and serves daily cards.
package main

import (
	"fmt"
	"os"

	_ "github.com/tomtom215/dailycard/docs" // swagger spec for "dailycard serve"
	"github.com/tomtom215/dailycard/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
