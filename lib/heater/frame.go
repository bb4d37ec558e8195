// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package heater

import (
	"errors"
	"math"

	"github.com/bureau-foundation/heaterlink/lib/codec"
)

// Frame is a decoded but unconverted telemetry frame: wire key to raw
// value, exactly as the CBOR decoder produced it.
type Frame map[int]any

var errNotMap = errors.New("top-level item is not a map")

// ParseFrame decodes the first CBOR data item in data as a Frame and
// returns the number of trailing bytes that were not consumed. A read
// normally carries exactly one frame; trailing bytes are left for the
// caller to log.
//
// Only integer keys survive. Text keys, negative keys and anything
// else that cannot be a schema position are dropped here, the same way
// Decode drops positions past the end of the schema.
func ParseFrame(data []byte) (Frame, int, error) {
	var raw any
	rest, err := codec.UnmarshalFirst(data, &raw)
	if err != nil {
		return nil, 0, &FrameDecodeError{Size: len(data), Err: err}
	}

	entries, ok := raw.(map[any]any)
	if !ok {
		return nil, 0, &FrameDecodeError{Size: len(data), Err: errNotMap}
	}

	frame := make(Frame, len(entries))
	for key, value := range entries {
		position, ok := frameKey(key)
		if !ok {
			continue
		}
		frame[position] = value
	}
	return frame, len(rest), nil
}

func frameKey(key any) (int, bool) {
	switch key := key.(type) {
	case uint64:
		if key > math.MaxInt32 {
			return 0, false
		}
		return int(key), true
	case int64:
		if key < 0 || key > math.MaxInt32 {
			return 0, false
		}
		return int(key), true
	default:
		return 0, false
	}
}
