// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides heaterlink's standard CBOR encoding
// configuration.
//
// heaterlink uses two serialization formats with a clear boundary:
//
//   - CBOR on the wire from the heater controller (telemetry frames)
//     and for locally stored items (the sqlite item store keeps each
//     tagged item as a CBOR blob).
//   - JSON for the remote store protocol and CLI output.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Telemetry frames arrive one per socket read, possibly followed by
// bytes the controller coalesced into the same segment. UnmarshalFirst
// decodes the leading data item and hands back whatever follows:
//
//	rest, err := codec.UnmarshalFirst(buffer, &frame)
package codec
