// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package attr

import (
	"fmt"
	"math/big"
	"sort"
)

// Kind identifies a Value variant.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindNull
	KindText
	KindNumber
	KindBytes
	KindMap
	KindList
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBytes:
		return "bytes"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is the closed set of shapes the encoder understands. The only
// implementations are the types in this package.
type Value interface {
	Kind() Kind
	isValue()
}

// Bool is a boolean.
type Bool bool

// Null is the absent value.
type Null struct{}

// Text is a string. Hex-looking text is re-typed when encoded.
type Text string

// Bytes is an opaque byte string.
type Bytes []byte

// Map is a string-keyed mapping of values.
type Map map[string]Value

// List is an ordered sequence of values.
type List []Value

func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }
func (Text) Kind() Kind   { return KindText }
func (Number) Kind() Kind { return KindNumber }
func (Bytes) Kind() Kind  { return KindBytes }
func (Map) Kind() Kind    { return KindMap }
func (List) Kind() Kind   { return KindList }
func (Set) Kind() Kind    { return KindSet }

func (Bool) isValue()   {}
func (Null) isValue()   {}
func (Text) isValue()   {}
func (Number) isValue() {}
func (Bytes) isValue()  {}
func (Map) isValue()    {}
func (List) isValue()   {}
func (Set) isValue()    {}

// unrecognized holds the place of a container element FromNative has
// no variant for. It encodes as a gap at that position only.
type unrecognized struct{}

func (unrecognized) Kind() Kind { return 0 }
func (unrecognized) isValue()   {}

// Set is an unordered collection of distinct values. Members keep
// their first-insertion order so that encoding is deterministic.
type Set struct {
	members []Value
}

// NewSet returns a set of the given members with duplicates removed.
// Members are compared by kind and canonical form, so Int(1) and
// Float(1) are the same member.
func NewSet(members ...Value) Set {
	seen := make(map[string]struct{}, len(members))
	unique := make([]Value, 0, len(members))
	for _, member := range members {
		key, ok := memberKey(member)
		if ok {
			if _, duplicate := seen[key]; duplicate {
				continue
			}
			seen[key] = struct{}{}
		}
		unique = append(unique, member)
	}
	return Set{members: unique}
}

// Len returns the number of members.
func (s Set) Len() int { return len(s.members) }

// Members returns a copy of the members in insertion order.
func (s Set) Members() []Value {
	return append([]Value(nil), s.members...)
}

// Representative returns a member of the set without modifying it.
// The second result is false for an empty set.
func (s Set) Representative() (Value, bool) {
	if len(s.members) == 0 {
		return nil, false
	}
	return s.members[0], true
}

// memberKey identifies hashable members. Composite members have no
// key and are never deduplicated.
func memberKey(member Value) (string, bool) {
	switch member := member.(type) {
	case Bool:
		if member {
			return "b:true", true
		}
		return "b:false", true
	case Null:
		return "z:", true
	case Text:
		return "t:" + string(member), true
	case Number:
		return "n:" + member.text, true
	case Bytes:
		return "x:" + string(member), true
	default:
		return "", false
	}
}

// FromNative classifies a Go value. The second result is false when v
// has no Value counterpart.
//
// Recognized shapes, in priority order:
//
//	bool
//	nil
//	string
//	int, int8..int64, uint, uint8..uint64, float32, float64, *big.Int
//	[]byte
//	map[string]any, map[string]string, map[any]any with string keys
//	[]any, []string, []int, []int64, []float64
//	map[string]struct{}, map[int]struct{}, map[int64]struct{},
//	map[uint64]struct{}, map[float64]struct{}
//
// Values that already implement Value are returned unchanged. Inside
// a recognized map or list, an unrecognized element does not reject
// the container: it becomes a gap at its own key or position. A
// map[any]any is rejected if any key is not a string.
func FromNative(v any) (Value, bool) {
	switch v := v.(type) {
	case Value:
		return v, true
	case bool:
		return Bool(v), true
	case nil:
		return Null{}, true
	case string:
		return Text(v), true
	case int:
		return Int(int64(v)), true
	case int8:
		return Int(int64(v)), true
	case int16:
		return Int(int64(v)), true
	case int32:
		return Int(int64(v)), true
	case int64:
		return Int(v), true
	case uint:
		return Uint(uint64(v)), true
	case uint8:
		return Uint(uint64(v)), true
	case uint16:
		return Uint(uint64(v)), true
	case uint32:
		return Uint(uint64(v)), true
	case uint64:
		return Uint(v), true
	case float32:
		return Float(float64(v)), true
	case float64:
		return Float(v), true
	case *big.Int:
		if v == nil {
			return Null{}, true
		}
		return BigInt(v), true
	case []byte:
		return Bytes(v), true
	case map[string]any:
		return mapFromNative(v)
	case map[string]string:
		result := make(Map, len(v))
		for key, value := range v {
			result[key] = Text(value)
		}
		return result, true
	case map[any]any:
		return anyMapFromNative(v)
	case []any:
		return listFromNative(v)
	case []string:
		return listOf(v, func(s string) Value { return Text(s) }), true
	case []int:
		return listOf(v, func(n int) Value { return Int(int64(n)) }), true
	case []int64:
		return listOf(v, func(n int64) Value { return Int(n) }), true
	case []float64:
		return listOf(v, func(f float64) Value { return Float(f) }), true
	case map[string]struct{}:
		return setOf(v, func(a, b string) bool { return a < b }, func(s string) Value { return Text(s) }), true
	case map[int]struct{}:
		return setOf(v, func(a, b int) bool { return a < b }, func(n int) Value { return Int(int64(n)) }), true
	case map[int64]struct{}:
		return setOf(v, func(a, b int64) bool { return a < b }, func(n int64) Value { return Int(n) }), true
	case map[uint64]struct{}:
		return setOf(v, func(a, b uint64) bool { return a < b }, func(n uint64) Value { return Uint(n) }), true
	case map[float64]struct{}:
		return setOf(v, func(a, b float64) bool { return a < b }, func(f float64) Value { return Float(f) }), true
	default:
		return nil, false
	}
}

// element classifies a container element, standing in unrecognized
// for anything FromNative rejects.
func element(native any) Value {
	value, ok := FromNative(native)
	if !ok {
		return unrecognized{}
	}
	return value
}

func mapFromNative(native map[string]any) (Value, bool) {
	result := make(Map, len(native))
	for key, value := range native {
		result[key] = element(value)
	}
	return result, true
}

// anyMapFromNative handles maps decoded from CBOR, which arrive as
// map[any]any. Store maps are keyed by name, so every key must be a
// string.
func anyMapFromNative(native map[any]any) (Value, bool) {
	result := make(Map, len(native))
	for key, value := range native {
		name, ok := key.(string)
		if !ok {
			return nil, false
		}
		result[name] = element(value)
	}
	return result, true
}

func listFromNative(native []any) (Value, bool) {
	result := make(List, len(native))
	for index, value := range native {
		result[index] = element(value)
	}
	return result, true
}

func listOf[T any](native []T, convert func(T) Value) List {
	result := make(List, len(native))
	for index, element := range native {
		result[index] = convert(element)
	}
	return result
}

// setOf sorts map-backed set members so that encoding a Go set is
// deterministic despite map iteration order.
func setOf[T comparable](native map[T]struct{}, less func(a, b T) bool, convert func(T) Value) Set {
	keys := make([]T, 0, len(native))
	for key := range native {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	members := make([]Value, len(keys))
	for index, key := range keys {
		members[index] = convert(key)
	}
	return NewSet(members...)
}
