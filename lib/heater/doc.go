// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package heater decodes telemetry frames from the heater controller.
//
// The controller sends one CBOR map per frame. Keys are small integers
// that index a fixed field schema; values are raw readings (integers,
// or a byte string for the diagnostic buffer). Decoding is two steps:
//
//	frame, err := heater.ParseFrame(buffer)   // bytes → Frame
//	record, err := decoder.Decode(frame)      // Frame → Record
//
// ParseFrame is a thin boundary over lib/codec. Decode binds each key
// to its schema field, applies the field's conversion (milli/centi
// scaling, hex rendering, pass-through) and stamps the record with the
// capture time.
//
// Keys outside the schema are dropped without error so that newer
// controller firmware can add fields without breaking older relays. A
// value of the wrong type for its field fails the whole frame with a
// *ConversionError; no partial record is ever returned.
//
// The schema is a package-level array that is never mutated, so a
// single Decoder may be shared by every connection.
package heater
