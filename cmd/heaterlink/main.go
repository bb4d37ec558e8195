// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/heaterlink/cmd/heaterlink/cli"
	"github.com/bureau-foundation/heaterlink/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("heaterlink %s\n", version.Info())
		return nil
	}
	return root().Execute(os.Args[1:])
}

func root() *cli.Command {
	return &cli.Command{
		Name:    "heaterlink",
		Summary: "Inspect and replay heater telemetry frames",
		Subcommands: []*cli.Command{
			decodeCommand(),
			replayCommand(),
		},
	}
}
