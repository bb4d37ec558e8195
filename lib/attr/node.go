// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package attr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bureau-foundation/heaterlink/lib/codec"
)

// Tag is a node's wire-type code.
type Tag string

const (
	TagBool      Tag = "BOOL"
	TagNull      Tag = "NULL"
	TagString    Tag = "S"
	TagNumber    Tag = "N"
	TagBytes     Tag = "B"
	TagMap       Tag = "M"
	TagList      Tag = "L"
	TagBytesSet  Tag = "BS"
	TagNumberSet Tag = "NS"
	TagStringSet Tag = "SS"
)

// Node is one tagged attribute value. The zero Node has no tag and
// marks a value the encoder could not represent.
type Node struct {
	tag     Tag
	boolean bool
	text    string
	data    []byte
	members map[string]Node
	items   []Node
	byteSet [][]byte
	textSet []string
}

// Item is a full store record: attribute name to node.
type Item map[string]Node

// BoolNode returns a BOOL node.
func BoolNode(value bool) Node { return Node{tag: TagBool, boolean: value} }

// NullNode returns a NULL node. The payload is the boolean true
// marker, matching the store convention that NULL always carries true.
func NullNode() Node { return Node{tag: TagNull, boolean: true} }

// StringNode returns an S node.
func StringNode(value string) Node { return Node{tag: TagString, text: value} }

// NumberNode returns an N node for decimal text. The text is not
// validated.
func NumberNode(decimal string) Node { return Node{tag: TagNumber, text: decimal} }

// BytesNode returns a B node.
func BytesNode(value []byte) Node { return Node{tag: TagBytes, data: value} }

// MapNode returns an M node.
func MapNode(members map[string]Node) Node { return Node{tag: TagMap, members: members} }

// ListNode returns an L node.
func ListNode(items ...Node) Node { return Node{tag: TagList, items: items} }

// BytesSetNode returns a BS node.
func BytesSetNode(members ...[]byte) Node { return Node{tag: TagBytesSet, byteSet: members} }

// NumberSetNode returns an NS node.
func NumberSetNode(members ...string) Node { return Node{tag: TagNumberSet, textSet: members} }

// StringSetNode returns an SS node.
func StringSetNode(members ...string) Node { return Node{tag: TagStringSet, textSet: members} }

// Tag returns the node's tag, or "" for a gap.
func (n Node) Tag() Tag { return n.tag }

// IsGap reports whether the node is empty because its source value
// could not be encoded.
func (n Node) IsGap() bool { return n.tag == "" }

// Bool returns the BOOL payload, or the NULL marker.
func (n Node) Bool() bool { return n.boolean }

// Text returns the S or N payload.
func (n Node) Text() string { return n.text }

// Bytes returns the B payload.
func (n Node) Bytes() []byte { return n.data }

// Members returns the M payload.
func (n Node) Members() map[string]Node { return n.members }

// Items returns the L payload.
func (n Node) Items() []Node { return n.items }

// ByteSet returns the BS payload.
func (n Node) ByteSet() [][]byte { return n.byteSet }

// TextSet returns the NS or SS payload.
func (n Node) TextSet() []string { return n.textSet }

// Payload returns the payload in the shape it takes on the wire:
// bool, string, []byte, map[string]Node, []Node, [][]byte or []string.
// A gap returns nil.
func (n Node) Payload() any {
	switch n.tag {
	case TagBool, TagNull:
		return n.boolean
	case TagString, TagNumber:
		return n.text
	case TagBytes:
		return n.data
	case TagMap:
		if n.members == nil {
			return map[string]Node{}
		}
		return n.members
	case TagList:
		if n.items == nil {
			return []Node{}
		}
		return n.items
	case TagBytesSet:
		return n.byteSet
	case TagNumberSet, TagStringSet:
		return n.textSet
	default:
		return nil
	}
}

// Equal reports whether two nodes have the same tag and payload.
// Set payloads are compared in order.
func (n Node) Equal(other Node) bool {
	if n.tag != other.tag {
		return false
	}
	switch n.tag {
	case TagBool, TagNull:
		return n.boolean == other.boolean
	case TagString, TagNumber:
		return n.text == other.text
	case TagBytes:
		return bytes.Equal(n.data, other.data)
	case TagMap:
		if len(n.members) != len(other.members) {
			return false
		}
		for key, member := range n.members {
			otherMember, ok := other.members[key]
			if !ok || !member.Equal(otherMember) {
				return false
			}
		}
		return true
	case TagList:
		if len(n.items) != len(other.items) {
			return false
		}
		for index := range n.items {
			if !n.items[index].Equal(other.items[index]) {
				return false
			}
		}
		return true
	case TagBytesSet:
		if len(n.byteSet) != len(other.byteSet) {
			return false
		}
		for index := range n.byteSet {
			if !bytes.Equal(n.byteSet[index], other.byteSet[index]) {
				return false
			}
		}
		return true
	case TagNumberSet, TagStringSet:
		if len(n.textSet) != len(other.textSet) {
			return false
		}
		for index := range n.textSet {
			if n.textSet[index] != other.textSet[index] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String returns the node in its JSON wire form.
func (n Node) String() string {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Sprintf("<invalid node: %v>", err)
	}
	return string(data)
}

// wire returns the single-entry map that both JSON and CBOR encode.
func (n Node) wire() map[string]any {
	if n.IsGap() {
		return map[string]any{}
	}
	return map[string]any{string(n.tag): n.Payload()}
}

// MarshalJSON encodes the node in the DynamoDB JSON shape, for
// example {"N":"31"}. Byte payloads are base64 strings. A gap encodes
// as {}.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.wire())
}

// UnmarshalJSON decodes a node produced by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	tag, payload, err := singleEntry(wire)
	if err != nil || tag == "" {
		*n = Node{}
		return err
	}
	return n.fill(tag, func(target any) error { return json.Unmarshal(payload, target) })
}

// MarshalCBOR encodes the node as a single-entry CBOR map with the
// same shape as the JSON form. Byte payloads are CBOR byte strings.
func (n Node) MarshalCBOR() ([]byte, error) {
	return codec.Marshal(n.wire())
}

// UnmarshalCBOR decodes a node produced by MarshalCBOR.
func (n *Node) UnmarshalCBOR(data []byte) error {
	var wire map[string]codec.RawMessage
	if err := codec.Unmarshal(data, &wire); err != nil {
		return err
	}
	tag, payload, err := singleEntry(wire)
	if err != nil || tag == "" {
		*n = Node{}
		return err
	}
	return n.fill(tag, func(target any) error { return codec.Unmarshal(payload, target) })
}

var errMultipleTags = errors.New("attribute value has more than one tag")

// singleEntry extracts the tag and raw payload of a decoded wire map.
// An empty map is a gap and yields an empty tag.
func singleEntry[P any](wire map[string]P) (Tag, P, error) {
	var payload P
	if len(wire) > 1 {
		return "", payload, errMultipleTags
	}
	for key, value := range wire {
		tag := Tag(key)
		if !knownTag(tag) {
			return "", payload, fmt.Errorf("unknown attribute tag %q", key)
		}
		return tag, value, nil
	}
	return "", payload, nil
}

// fill decodes the payload for tag into n using the format's
// unmarshal function.
func (n *Node) fill(tag Tag, unmarshal func(any) error) error {
	node := Node{tag: tag}
	var err error
	switch tag {
	case TagBool, TagNull:
		err = unmarshal(&node.boolean)
	case TagString, TagNumber:
		err = unmarshal(&node.text)
	case TagBytes:
		err = unmarshal(&node.data)
	case TagMap:
		node.members = map[string]Node{}
		err = unmarshal(&node.members)
	case TagList:
		err = unmarshal(&node.items)
	case TagBytesSet:
		err = unmarshal(&node.byteSet)
	case TagNumberSet, TagStringSet:
		err = unmarshal(&node.textSet)
	}
	if err != nil {
		return fmt.Errorf("decoding %s payload: %w", tag, err)
	}
	*n = node
	return nil
}

func knownTag(tag Tag) bool {
	switch tag {
	case TagBool, TagNull, TagString, TagNumber, TagBytes, TagMap, TagList,
		TagBytesSet, TagNumberSet, TagStringSet:
		return true
	default:
		return false
	}
}
