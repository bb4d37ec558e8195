// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package heater

import (
	"time"

	"github.com/bureau-foundation/heaterlink/lib/clock"
)

// TimestampField is the record field holding the capture time in
// fractional seconds since the Unix epoch.
const TimestampField = "timestamp"

// Record is a decoded frame: field name to converted value, plus
// TimestampField. Values are int64, float64, string or []byte.
//
// A Record is built once per frame and must not be modified after
// Decode returns it.
type Record map[string]any

// Timestamp returns the capture time stored in the record.
func (r Record) Timestamp() float64 {
	timestamp, _ := r[TimestampField].(float64)
	return timestamp
}

// Decoder converts frames to records. It holds no per-frame state and
// is safe for concurrent use.
type Decoder struct {
	clock clock.Clock
}

// NewDecoder returns a Decoder that stamps records using clk.
func NewDecoder(clk clock.Clock) *Decoder {
	return &Decoder{clock: clk}
}

// Decode binds each frame key to its schema field and applies the
// field's conversion. Keys outside the schema are skipped. If any
// conversion fails, Decode returns a *ConversionError and no record.
// The record is stamped with the decoder's current time.
func (d *Decoder) Decode(frame Frame) (Record, error) {
	return d.DecodeAt(frame, d.clock.Now())
}

// DecodeAt is Decode with an explicit capture time, for frames that
// were received earlier and archived.
func (d *Decoder) DecodeAt(frame Frame, capturedAt time.Time) (Record, error) {
	record := make(Record, len(frame)+1)
	for key, raw := range frame {
		position := Position(key)
		if !position.Valid() {
			continue
		}
		field := position.Field()
		value, err := field.Conversion.Apply(raw)
		if err != nil {
			return nil, &ConversionError{Position: position, Value: raw, Err: err}
		}
		record[field.Name] = value
	}
	record[TimestampField] = clock.EpochSeconds(capturedAt)
	return record, nil
}
