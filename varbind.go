// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpwire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/snmpwire/snmpwire/ber"
)

// Oid is a decoded object identifier: the ordered sequence of its
// integer arcs. A well-formed Oid always has at least two arcs because
// the wire form packs the first two into one byte. Oid owns its backing
// array and never aliases the message buffer.
type Oid []uint32

// String renders the dotted form, eg "1.3.6.1.2.1.1.1.0".
func (o Oid) String() string {
	if len(o) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, arc := range o {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.FormatUint(uint64(arc), 10))
	}
	return sb.String()
}

// VarBind is a single (name, value) pair from a PDU's variable-binding
// list.
type VarBind struct {
	Oid   Oid
	Value ObjectSyntax
}

func (vb VarBind) String() string {
	return vb.Oid.String() + "=" + vb.Value.String()
}

// VarBindList holds a PDU's variable bindings in encoding order. The
// order is semantically meaningful, for example for GetBulkRequest
// response rows, and is preserved exactly.
type VarBindList []VarBind

// decodeVarBindList decodes a SEQUENCE OF SEQUENCE {OID, value} whose
// outer TLV spans all of packet. Decoding is all or nothing: an error on
// any element discards the whole list.
func (d *Decoder) decodeVarBindList(packet []byte, depth int) (VarBindList, error) {
	if depth > d.maxDepth() {
		return nil, fmt.Errorf("%w: depth %d decoding a VBL", ErrDepthExceeded, depth)
	}
	if len(packet) == 0 {
		return nil, fmt.Errorf("%w: truncated packet when decoding a VBL", ErrIncomplete)
	}
	if PDUType(packet[0]) != Sequence {
		return nil, fmt.Errorf("%w: expected a sequence when decoding a VBL, got %x", ErrInvalidTag, packet[0])
	}

	vblLength, cursor, err := ber.ParseLength(packet)
	if err != nil {
		return nil, wrapPrimitive(err)
	}
	if vblLength > len(packet) {
		return nil, fmt.Errorf("%w: truncated packet when decoding a VBL, packet length %d vbl length %d",
			ErrIncomplete, len(packet), vblLength)
	}
	if vblLength != len(packet) {
		return nil, fmt.Errorf("%w: packet length %d vbl length %d", ErrInvalidLength, len(packet), vblLength)
	}
	d.Logger.Printf("vblLength: %d", vblLength)

	vbs := make(VarBindList, 0, 5)
	for cursor < vblLength {
		if PDUType(packet[cursor]) != Sequence {
			return nil, fmt.Errorf("%w: expected a sequence when decoding a VB, got %x", ErrInvalidTag, packet[cursor])
		}
		if depth+1 > d.maxDepth() {
			return nil, fmt.Errorf("%w: depth %d decoding a VB", ErrDepthExceeded, depth+1)
		}

		vbLength, vbHeader, err := ber.ParseLength(packet[cursor:])
		if err != nil {
			return nil, wrapPrimitive(err)
		}
		vbEnd := cursor + vbLength
		if vbEnd > vblLength {
			return nil, fmt.Errorf("%w: varbind overruns its list, vbl length %d varbind end %d",
				ErrInvalidLength, vblLength, vbEnd)
		}
		cursor += vbHeader

		rawOid, oidLength, err := parseRawField(d.Logger, packet[cursor:vbEnd], "OID")
		if err != nil {
			return nil, fmt.Errorf("error parsing OID value: %w", err)
		}
		cursor += oidLength
		oid, ok := rawOid.(Oid)
		if !ok {
			return nil, fmt.Errorf("%w: varbind name is not an OID", ErrInvalidTag)
		}

		if cursor >= vbEnd {
			return nil, fmt.Errorf("%w: varbind for %s has no value field", ErrIncomplete, oid)
		}
		value, valueLength, err := d.decodeValue(packet[cursor:vbEnd])
		if err != nil {
			return nil, fmt.Errorf("error decoding value: %w", err)
		}
		cursor += valueLength
		if cursor != vbEnd {
			// a third field inside the varbind sequence
			return nil, fmt.Errorf("%w: %d trailing bytes after varbind value", ErrInvalidTag, vbEnd-cursor)
		}

		vbs = append(vbs, VarBind{Oid: oid, Value: value})
	}
	return vbs, nil
}
