// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpwire

import (
	"fmt"
	"math"
	"net"

	"github.com/snmpwire/snmpwire/ber"
)

// ObjectSyntax is one decoded variable-binding value. Type records the
// wire tag and selects the dynamic type of Value:
//
//	Integer                                  int32
//	OctetString, Opaque, NsapAddress         []byte, aliasing the input
//	Null, NoSuchObject, NoSuchInstance,
//	EndOfMibView                             nil
//	ObjectIdentifier                         Oid
//	IPAddress                                net.IP, 4 bytes, aliasing the input
//	Counter32, Gauge32, TimeTicks,
//	Uinteger32                               uint32
//	Counter64                                uint64
type ObjectSyntax struct {
	Type  Asn1BER
	Value any
}

func (v ObjectSyntax) String() string {
	switch val := v.Value.(type) {
	case nil:
		return v.Type.String()
	case []byte:
		return fmt.Sprintf("%s(%q)", v.Type, val)
	default:
		return fmt.Sprintf("%s(%v)", v.Type, val)
	}
}

// decodeValue decodes the single tagged value starting at data[0] and
// returns it with the number of bytes it occupied on the wire.
//
// Dispatch is driven by the tag alone. Tags outside the closed SNMP set
// are an error rather than a raw-bytes fallback, so a caller never sees
// a value whose type it cannot name.
func (d *Decoder) decodeValue(data []byte) (ObjectSyntax, int, error) {
	var syntax ObjectSyntax
	if len(data) == 0 {
		return syntax, 0, fmt.Errorf("%w: no data for value", ErrIncomplete)
	}

	length, cursor, err := ber.ParseLength(data)
	if err != nil {
		return syntax, 0, wrapPrimitive(err)
	}
	if length > len(data) {
		return syntax, 0, fmt.Errorf("%w: value declares %d bytes, %d available",
			ErrIncomplete, length, len(data))
	}
	content := data[cursor:length]

	tag := Asn1BER(data[0])
	syntax.Type = tag
	switch tag {
	case Integer:
		v, err := ber.ParseInt32(content)
		if err != nil {
			return syntax, 0, wrapPrimitive(err)
		}
		syntax.Value = v
	case OctetString, Opaque, NsapAddress:
		// borrowed, not copied; Opaque content is carried as-is with no
		// attempt to decode a nested value
		syntax.Value = content
	case Null, NoSuchObject, NoSuchInstance, EndOfMibView:
		// the tag carries the whole meaning; stray content bytes under
		// these tags are skipped, not rejected
		syntax.Value = nil
	case ObjectIdentifier:
		arcs, err := ber.ParseObjectIdentifier(content)
		if err != nil {
			return syntax, 0, wrapPrimitive(err)
		}
		syntax.Value = Oid(arcs)
	case IPAddress:
		if len(content) != 4 {
			return syntax, 0, fmt.Errorf("%w: IpAddress with %d content bytes, need 4",
				ErrInvalidLength, len(content))
		}
		syntax.Value = net.IP(content)
	case Counter32, Gauge32, TimeTicks, Uinteger32:
		v, err := ber.ParseUint32(content)
		if err != nil {
			return syntax, 0, wrapPrimitive(err)
		}
		syntax.Value = v
	case Counter64:
		v, err := ber.ParseUint64(content)
		if err != nil {
			return syntax, 0, wrapPrimitive(err)
		}
		syntax.Value = v
	default:
		return ObjectSyntax{}, 0, fmt.Errorf("%w: unsupported value type %#x", ErrInvalidTag, data[0])
	}
	d.Logger.Printf("decoded value %s", syntax)
	return syntax, length, nil
}

// parseRawField extracts the typed value of one primitive header field.
// The dynamic type of the result follows the wire tag: int for Integer,
// []byte for OctetString (aliasing data), Oid for
// ObjectIdentifier, uint32 for TimeTicks and net.IP for IPAddress.
// Callers assert the type they expect at their grammar position and
// treat a mismatch as an invalid tag.
func parseRawField(logger Logger, data []byte, msg string) (any, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: empty data passed to parseRawField (%s)", ErrIncomplete, msg)
	}
	length, cursor, err := ber.ParseLength(data)
	if err != nil {
		return nil, 0, wrapPrimitive(err)
	}
	if length > len(data) {
		return nil, 0, fmt.Errorf("%w: not enough data for %s (%d vs %d)",
			ErrIncomplete, msg, length, len(data))
	}
	content := data[cursor:length]

	switch Asn1BER(data[0]) {
	case Integer:
		i, err := ber.ParseInt(content)
		if err != nil {
			return nil, 0, wrapPrimitive(err)
		}
		logger.Printf("parsed %s %d", msg, i)
		return i, length, nil
	case OctetString:
		logger.Printf("parsed %s %q", msg, content)
		return content, length, nil
	case ObjectIdentifier:
		arcs, err := ber.ParseObjectIdentifier(content)
		if err != nil {
			return nil, 0, wrapPrimitive(err)
		}
		oid := Oid(arcs)
		logger.Printf("parsed %s %s", msg, oid)
		return oid, length, nil
	case TimeTicks:
		t, err := ber.ParseUint32(content)
		if err != nil {
			return nil, 0, wrapPrimitive(err)
		}
		logger.Printf("parsed %s %d", msg, t)
		return t, length, nil
	case IPAddress:
		if len(content) != 4 {
			return nil, 0, fmt.Errorf("%w: %s with %d content bytes, need 4",
				ErrInvalidLength, msg, len(content))
		}
		logger.Printf("parsed %s %v", msg, net.IP(content))
		return net.IP(content), length, nil
	default:
		return nil, 0, fmt.Errorf("%w: unexpected field type %#x (%s)", ErrInvalidTag, data[0], msg)
	}
}

// toInt32 narrows a parseRawField integer result into the Integer32
// range the message and PDU header fields are declared with.
func toInt32(raw any, msg string) (int32, error) {
	i, ok := raw.(int)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrInvalidTag, msg)
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidValue, msg)
	}
	return int32(i), nil
}
