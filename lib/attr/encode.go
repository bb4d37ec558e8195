// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package attr

import "sort"

// Encode converts a native Go value to a Node. Values FromNative does
// not recognize produce a gap.
func Encode(v any) Node {
	value, ok := FromNative(v)
	if !ok {
		return Node{}
	}
	return EncodeValue(value)
}

// EncodeValue converts a classified value to a Node. A map or list
// keeps every key and position: children that cannot be encoded are
// present as gaps.
func EncodeValue(value Value) Node {
	switch value := value.(type) {
	case Bool:
		return BoolNode(bool(value))
	case Null:
		return NullNode()
	case Text:
		if number, ok := ParseHex(string(value)); ok {
			return encodeNumber(number)
		}
		return StringNode(string(value))
	case Number:
		return encodeNumber(value)
	case Bytes:
		return BytesNode([]byte(value))
	case Map:
		members := make(map[string]Node, len(value))
		for key, element := range value {
			members[key] = EncodeValue(element)
		}
		return MapNode(members)
	case List:
		items := make([]Node, len(value))
		for index, element := range value {
			items[index] = EncodeValue(element)
		}
		return ListNode(items...)
	case Set:
		return encodeSet(value)
	default:
		return Node{}
	}
}

func encodeNumber(number Number) Node {
	if !number.Valid() {
		return Node{}
	}
	return NumberNode(number.String())
}

// encodeSet picks the set tag from the representative member. Every
// other member must share the representative's kind: a mixed set is
// not coerced, it becomes a gap. Text, bool and null members form an
// SS set of their string forms; map, list and set members have no
// string form and also give a gap.
func encodeSet(set Set) Node {
	representative, ok := set.Representative()
	if !ok {
		return Node{}
	}
	kind := representative.Kind()
	for _, member := range set.members {
		if member.Kind() != kind {
			return Node{}
		}
	}

	switch kind {
	case KindBytes:
		members := make([][]byte, len(set.members))
		for index, member := range set.members {
			members[index] = []byte(member.(Bytes))
		}
		return BytesSetNode(members...)
	case KindNumber:
		members := make([]string, len(set.members))
		for index, member := range set.members {
			number := member.(Number)
			if !number.Valid() {
				return Node{}
			}
			members[index] = number.String()
		}
		return NumberSetNode(members...)
	case KindText, KindBool, KindNull:
		members := make([]string, len(set.members))
		for index, member := range set.members {
			members[index] = setMemberText(member)
		}
		return StringSetNode(members...)
	default:
		return Node{}
	}
}

func setMemberText(member Value) string {
	switch member := member.(type) {
	case Text:
		return string(member)
	case Bool:
		if member {
			return "true"
		}
		return "false"
	case Null:
		return "null"
	default:
		return ""
	}
}

// EncodeItem encodes every field of a record. Fields whose values
// encode as gaps are left out of the item; their names are returned
// sorted so the caller can report the loss.
func EncodeItem(fields map[string]any) (Item, []string) {
	item := make(Item, len(fields))
	var dropped []string
	for name, value := range fields {
		node := Encode(value)
		if node.IsGap() {
			dropped = append(dropped, name)
			continue
		}
		item[name] = node
	}
	sort.Strings(dropped)
	return item, dropped
}
