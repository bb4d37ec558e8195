// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ingest connects heater telemetry streams to an item store.
//
// [Server] accepts TCP connections and runs one goroutine per
// connection. Each goroutine reads at most ReadSize bytes at a time and
// treats every read as one frame, processed to completion before the
// next read: archive the raw bytes, then hand them to a [Pipeline],
// which parses, decodes, encodes and stores them.
//
// Failures are contained at the frame boundary. A frame that does not
// parse, does not convert, or is rejected by the store is logged and
// dropped; the connection stays open. Counters for each outcome are
// logged when the connection closes.
//
// The same [Pipeline] drives `heaterlink replay`, which re-ships
// archived frames after a store outage.
package ingest
