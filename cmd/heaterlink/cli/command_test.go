// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func testTree(ran *[]string, verbose *bool) *Command {
	decode := &Command{
		Name:    "decode",
		Summary: "Decode one frame",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			flagSet.BoolVar(verbose, "verbose", false, "more output")
			return flagSet
		},
		Run: func(args []string) error {
			*ran = append(*ran, "decode:"+strings.Join(args, ","))
			return nil
		},
	}
	replay := &Command{
		Name:    "replay",
		Summary: "Replay archived frames",
		Run: func(args []string) error {
			*ran = append(*ran, "replay")
			return nil
		},
	}
	return &Command{
		Name:        "heaterlink",
		Summary:     "Heater telemetry tools",
		Subcommands: []*Command{decode, replay},
	}
}

func TestExecuteDispatch(t *testing.T) {
	var ran []string
	var verbose bool
	root := testTree(&ran, &verbose)
	root.SetHelpOutput(&bytes.Buffer{})

	if err := root.Execute([]string{"decode", "--verbose", "frame.cbor"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(ran) != 1 || ran[0] != "decode:frame.cbor" {
		t.Errorf("ran = %v", ran)
	}
	if !verbose {
		t.Error("--verbose was not parsed")
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	var ran []string
	var verbose bool
	root := testTree(&ran, &verbose)
	root.SetHelpOutput(&bytes.Buffer{})

	err := root.Execute([]string{"dec"})
	if err == nil {
		t.Fatal("unknown command accepted")
	}
	if !strings.Contains(err.Error(), `did you mean "decode"`) {
		t.Errorf("error = %v, want a suggestion", err)
	}

	err = root.Execute([]string{"zzz"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want no suggestion", err)
	}
}

func TestExecuteHelp(t *testing.T) {
	var ran []string
	var verbose bool
	root := testTree(&ran, &verbose)
	var help bytes.Buffer
	root.SetHelpOutput(&help)

	if err := root.Execute([]string{"decode", "--help"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	output := help.String()
	if !strings.Contains(output, "heaterlink decode [flags]") {
		t.Errorf("help output missing usage line:\n%s", output)
	}
	if !strings.Contains(output, "--verbose") {
		t.Errorf("help output missing flags:\n%s", output)
	}
	if len(ran) != 0 {
		t.Errorf("help ran a command: %v", ran)
	}
}

func TestExecuteRequiresSubcommand(t *testing.T) {
	var ran []string
	var verbose bool
	root := testTree(&ran, &verbose)
	var help bytes.Buffer
	root.SetHelpOutput(&help)

	if err := root.Execute(nil); err == nil {
		t.Fatal("Execute with no subcommand succeeded")
	}
	if !strings.Contains(help.String(), "Commands:") {
		t.Errorf("help output missing command list:\n%s", help.String())
	}
}
