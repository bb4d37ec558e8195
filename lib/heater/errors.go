// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package heater

import "fmt"

// FrameDecodeError reports a buffer that is not a well-formed CBOR
// map. The frame is lost; the connection is unaffected.
type FrameDecodeError struct {
	// Size is the length of the rejected buffer.
	Size int
	Err  error
}

func (e *FrameDecodeError) Error() string {
	return fmt.Sprintf("decoding %d-byte frame: %v", e.Size, e.Err)
}

func (e *FrameDecodeError) Unwrap() error { return e.Err }

// ConversionError reports a value whose type does not suit its
// field's conversion. It fails the whole frame.
type ConversionError struct {
	Position Position
	Value    any
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s (position %d, %s) from %T: %v",
		e.Position, int(e.Position), e.Position.Field().Conversion, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
