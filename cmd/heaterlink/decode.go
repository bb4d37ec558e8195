// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/heaterlink/cmd/heaterlink/cli"
	"github.com/bureau-foundation/heaterlink/lib/attr"
	"github.com/bureau-foundation/heaterlink/lib/clock"
	"github.com/bureau-foundation/heaterlink/lib/codec"
	"github.com/bureau-foundation/heaterlink/lib/heater"
	"github.com/bureau-foundation/heaterlink/lib/ingest"
	"github.com/bureau-foundation/heaterlink/lib/itemstore"
)

// decodeResult is the JSON output of decode.
type decodeResult struct {
	Record   heater.Record `json:"record"`
	Item     attr.Item     `json:"item"`
	Dropped  []string      `json:"dropped,omitempty"`
	Trailing int           `json:"trailing_bytes,omitempty"`
}

func decodeCommand() *cli.Command {
	var (
		hexMode  bool
		jsonMode bool
		diagMode bool
	)

	return &cli.Command{
		Name:    "decode",
		Summary: "Decode one captured frame",
		Description: `Decode one CBOR telemetry frame and show the record and the item the
relay would store for it.

The frame is read from the named file, or from stdin. With --hex the
input is hex text; whitespace between bytes is ignored.

On a terminal the output is a table of field, converted value and wire
encoding. Otherwise, or with --json, it is a JSON object with "record"
and "item" keys.

With --diag the frame is not decoded; its CBOR diagnostic notation is
printed instead, which is useful when a controller sends something the
decoder rejects.`,
		Usage: "heaterlink decode [--hex] [--json | --diag] [file]",
		Examples: []cli.Example{
			{
				Description: "Decode a frame given as hex",
				Command:     "echo 'a2 03 18 1f 06 19 30 d4' | heaterlink decode --hex",
			},
			{
				Description: "Decode a raw capture as JSON",
				Command:     "heaterlink decode --json frame.cbor",
			},
			{
				Description: "Show the CBOR structure of a rejected frame",
				Command:     "heaterlink decode --diag frame.cbor",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			flagSet.BoolVar(&hexMode, "hex", false, "input is hex text rather than raw CBOR")
			flagSet.BoolVar(&jsonMode, "json", false, "print JSON even on a terminal")
			flagSet.BoolVar(&diagMode, "diag", false, "print CBOR diagnostic notation instead of decoding")
			return flagSet
		},
		Run: func(args []string) error {
			data, err := readInput(args, os.Stdin, hexMode)
			if err != nil {
				return err
			}
			if diagMode {
				if jsonMode {
					return fmt.Errorf("--diag and --json are mutually exclusive")
				}
				diagnostic, err := diagnoseFrame(data)
				if err != nil {
					return err
				}
				fmt.Fprint(os.Stdout, diagnostic)
				return nil
			}
			result, err := decodeFrame(data, clock.Real())
			if err != nil {
				return err
			}
			if jsonMode || !cli.IsTerminal(os.Stdout) {
				return writeJSON(os.Stdout, result)
			}
			fmt.Fprint(os.Stdout, renderTable(result))
			return nil
		},
	}
}

// decodeFrame runs data through the relay pipeline with nothing
// behind it.
func decodeFrame(data []byte, clk clock.Clock) (decodeResult, error) {
	pipeline := ingest.NewPipeline(heater.NewDecoder(clk), itemstore.Discard{})
	outcome, err := pipeline.Process(context.Background(), data)
	if err != nil {
		return decodeResult{}, err
	}
	return decodeResult{
		Record:   outcome.Record,
		Item:     outcome.Item,
		Dropped:  outcome.Dropped,
		Trailing: outcome.Trailing,
	}, nil
}

// diagnoseFrame renders the first CBOR item in data in diagnostic
// notation, noting any bytes left after it.
func diagnoseFrame(data []byte) (string, error) {
	diagnostic, rest, err := codec.DiagnoseFirst(data)
	if err != nil {
		return "", fmt.Errorf("parsing frame: %w", err)
	}
	if len(rest) > 0 {
		return fmt.Sprintf("%s\n(%d trailing bytes: %x)\n", diagnostic, len(rest), rest), nil
	}
	return diagnostic + "\n", nil
}

func writeJSON(w io.Writer, result decodeResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
