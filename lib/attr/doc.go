// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package attr converts native values into tagged attribute values,
// the wire format of schemaless key-value stores such as DynamoDB.
//
// Every encoded [Node] carries exactly one [Tag]:
//
//	BOOL  boolean            NULL  null marker
//	S     string             N     number, as decimal text
//	B     bytes              M     map of nodes
//	L     list of nodes      BS/NS/SS  byte, number or string set
//
// Conversion happens in two steps. [FromNative] classifies a Go value
// into the closed [Value] variant (Bool, Null, Text, Number, Bytes,
// Map, List, Set), checking shapes in a fixed priority order: bool,
// nil, string, number, bytes, map, list, set. [EncodeValue] then maps
// the variant to a Node. [Encode] does both.
//
// Two rules run before the generic mapping:
//
//   - Hex text: a string of the form 0x<hex digits> (either case) is
//     re-typed as a number, so fields rendered as "0x1F" upstream land
//     as N "31". Any length is accepted.
//   - Set representative: a set's tag is chosen from its first member
//     without touching the set. Bytes give BS, numbers give NS,
//     anything else gives SS.
//
// Values the encoder cannot represent produce the zero Node, which has
// no tag (see [Node.IsGap]). This covers unrecognized Go types, NaN and
// infinite numbers, empty sets and sets whose members do not all share
// the representative's kind. A gap inside a map or list stays at its
// key or position and encodes as {}; siblings are unaffected.
// Encoding never fails; callers decide whether a gap is worth logging.
// [EncodeItem] drops top-level gaps and reports their names.
package attr
