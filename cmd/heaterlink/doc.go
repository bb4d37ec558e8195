// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Heaterlink is the operator tool for heater telemetry.
//
//	heaterlink decode [--hex] [--json] [file]
//	heaterlink replay [--config path] [--identity file] [--after id]
//
// decode runs one captured frame through the same parse, decode and
// encode steps as the relay and prints the record next to the item the
// relay would store. On a terminal the output is a table; otherwise,
// or with --json, it is JSON.
//
// replay reads frames back from the relay's archive and writes them to
// the configured store, stamped with their original arrival time. Use
// it to backfill a store after an outage, or to re-derive items after
// a decoder fix.
package main
