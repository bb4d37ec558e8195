// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bureau-foundation/heaterlink/lib/attr"
	"github.com/bureau-foundation/heaterlink/lib/heater"
	"github.com/bureau-foundation/heaterlink/lib/itemstore"
)

// Pipeline turns one raw frame into one stored item. It holds no
// per-frame state and is safe for concurrent use as long as its store
// is.
type Pipeline struct {
	decoder *heater.Decoder
	store   itemstore.Store
}

// NewPipeline returns a Pipeline that decodes with decoder and writes
// to store.
func NewPipeline(decoder *heater.Decoder, store itemstore.Store) *Pipeline {
	return &Pipeline{decoder: decoder, store: store}
}

// Outcome describes a processed frame. Fields are filled as far as
// processing got, so a failed store write still carries the record.
type Outcome struct {
	// Record is the decoded frame.
	Record heater.Record

	// Item is the encoded record as sent to the store.
	Item attr.Item

	// Dropped lists record fields that had no wire representation
	// and were left out of Item.
	Dropped []string

	// Trailing is the number of bytes after the first CBOR item.
	Trailing int
}

// StoreError wraps a failed store write.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("storing item: %v", e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// Process parses, decodes, encodes and stores data. Parse failures are
// *heater.FrameDecodeError, conversion failures *heater.ConversionError,
// and store failures *StoreError. Nothing reaches the store unless the
// whole frame decoded.
func (p *Pipeline) Process(ctx context.Context, data []byte) (Outcome, error) {
	return p.process(ctx, data, p.decoder.Decode)
}

// ProcessAt is Process for a frame captured at capturedAt, used when
// replaying archived frames.
func (p *Pipeline) ProcessAt(ctx context.Context, data []byte, capturedAt time.Time) (Outcome, error) {
	return p.process(ctx, data, func(frame heater.Frame) (heater.Record, error) {
		return p.decoder.DecodeAt(frame, capturedAt)
	})
}

func (p *Pipeline) process(ctx context.Context, data []byte, decode func(heater.Frame) (heater.Record, error)) (Outcome, error) {
	var outcome Outcome

	frame, trailing, err := heater.ParseFrame(data)
	if err != nil {
		return outcome, err
	}
	outcome.Trailing = trailing

	outcome.Record, err = decode(frame)
	if err != nil {
		return outcome, err
	}

	outcome.Item, outcome.Dropped = attr.EncodeItem(outcome.Record)

	if err := p.store.PutItem(ctx, outcome.Item); err != nil {
		return outcome, &StoreError{Err: err}
	}
	return outcome, nil
}

// IsDecodeFailure reports whether err came from parsing or converting
// a frame rather than from the store.
func IsDecodeFailure(err error) bool {
	var frameErr *heater.FrameDecodeError
	var conversionErr *heater.ConversionError
	return errors.As(err, &frameErr) || errors.As(err, &conversionErr)
}
