// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Heaterlink-relay accepts CBOR telemetry frames from parking heater
// controllers over TCP and writes each one, decoded and re-encoded as
// a typed item, to the configured store.
//
// Data flow:
//
//	heater → TCP read (≤ read_size) → archive (optional) → parse → decode → encode → store
//
// Every decoded record is logged at info level as "message", so with
// the default configuration (discard store, no archive) the relay is a
// live decoder for whatever is connected to it.
//
// Configuration comes from --config or HEATERLINK_CONFIG; see
// lib/config. --listen and --log-level override the file.
//
// SIGINT and SIGTERM stop the listener, close open connections, and
// let any in-flight store write finish before exit.
package main
