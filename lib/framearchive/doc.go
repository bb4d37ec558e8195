// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package framearchive keeps every raw frame the relay receives, as
// received, so records can be re-derived after a store outage or a
// schema fix.
//
// Each frame is stored as one row in a SQLite database (via
// lib/sqlitepool) together with its arrival time, the peer address, a
// BLAKE3 keyed digest of the raw bytes, and the compression tag used
// for the payload. Payloads may additionally be encrypted to one or
// more age X25519 recipients; reading them back then requires a
// matching identity.
//
// The write path is digest → compress → encrypt. The read path
// reverses it and verifies the digest, so a corrupted or mis-keyed
// row surfaces as an error instead of a bogus frame.
package framearchive
