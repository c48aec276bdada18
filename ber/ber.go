// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package ber implements the subset of ASN.1 Basic Encoding Rules needed
// to frame and decode SNMP messages: tag/length/value framing over a byte
// slice and the primitive integer and object-identifier decoders.
//
// The parsers are deliberately lenient. BER permits several encodings of
// the same value and SNMP agents in the field use all of them, so
// long-form lengths for short values are accepted and canonical (DER)
// form is never required. The one length encoding rejected outright is
// the indefinite form, which RFC 3417 prohibits for SNMP.
//
// All functions are pure functions of their input slice and safe for
// concurrent use.
package ber

import (
	"errors"
	"fmt"
	"math"
)

// Error categories reported by this package. Every error returned by a
// parser wraps one of these and can be classified with errors.Is.
var (
	// ErrIncomplete reports that the data ends before a declared length
	// is satisfied. Callers reading from a stream may retry with more
	// bytes.
	ErrIncomplete = errors.New("incomplete data")

	// ErrInvalidLength reports a length encoding that is indefinite,
	// reserved, or too large to represent.
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidValue reports content bytes that frame correctly but
	// hold a value outside the range the caller asked for.
	ErrInvalidValue = errors.New("invalid value")
)

// ParseLength reads the length octets of the TLV starting at data[0] and
// returns the full size of the TLV including its tag and length header,
// along with the header size in bytes. The returned length is what the
// encoder declared; callers must check it against the bytes they actually
// hold before slicing. At least the tag and one length octet must be
// present, or ErrIncomplete is returned.
//
// Both short-form and long-form definite lengths are accepted without any
// shortest-form requirement (X.690 8.1.3). The indefinite form (0x80) and
// the reserved octet 0xff are rejected, matching net-snmp.
func ParseLength(data []byte) (int, int, error) {
	var length, cursor int
	switch {
	case len(data) < 2:
		return 0, 0, fmt.Errorf("%w: %d bytes, need a tag and a length octet", ErrIncomplete, len(data))
	case data[1] == 0x80:
		return 0, 0, fmt.Errorf("%w: indefinite length not supported", ErrInvalidLength)
	case data[1] == 0xff:
		return 0, 0, fmt.Errorf("%w: reserved length octet 0xff", ErrInvalidLength)
	case data[1] <= 0x7f:
		length = int(data[1])
		length += 2
		cursor += 2
	default:
		numOctets := int(data[1]) & 0x7f
		if numOctets > len(data)-2 {
			return 0, 0, fmt.Errorf("%w: %d length octets declared, %d available",
				ErrIncomplete, numOctets, len(data)-2)
		}
		for i := 0; i < numOctets; i++ {
			if length > math.MaxInt32>>8 {
				return 0, 0, fmt.Errorf("%w: length exceeds maximum supported value", ErrInvalidLength)
			}
			length = length<<8 | int(data[2+i])
		}
		if length > math.MaxInt32-2-numOctets {
			return 0, 0, fmt.Errorf("%w: length exceeds maximum supported value", ErrInvalidLength)
		}
		length += 2 + numOctets
		cursor += 2 + numOctets
	}
	return length, cursor, nil
}

// ParseInt64 decodes a big-endian two's complement INTEGER content field.
// A zero-length field decodes to 0; some agents emit that for the value
// zero and net-snmp accepts it.
func ParseInt64(data []byte) (int64, error) {
	if len(data) > 8 {
		// overflows an int64
		return 0, fmt.Errorf("%w: integer too large", ErrInvalidValue)
	}
	var ret int64
	for i := 0; i < len(data); i++ {
		ret <<= 8
		ret |= int64(data[i])
	}
	// shift up and down to sign extend
	ret <<= 64 - uint8(len(data))*8
	ret >>= 64 - uint8(len(data))*8
	return ret, nil
}

// ParseInt decodes an INTEGER content field into the native int range.
func ParseInt(data []byte) (int, error) {
	ret64, err := ParseInt64(data)
	if err != nil {
		return 0, err
	}
	if ret64 != int64(int(ret64)) {
		return 0, fmt.Errorf("%w: integer too large", ErrInvalidValue)
	}
	return int(ret64), nil
}

// ParseInt32 decodes an INTEGER content field that must fit Integer32.
func ParseInt32(data []byte) (int32, error) {
	ret64, err := ParseInt64(data)
	if err != nil {
		return 0, err
	}
	if ret64 < math.MinInt32 || ret64 > math.MaxInt32 {
		return 0, fmt.Errorf("%w: integer too large", ErrInvalidValue)
	}
	return int32(ret64), nil
}

// ParseUint64 decodes a big-endian unsigned integer content field. Nine
// content bytes are accepted when the first is zero: encoders emit a
// leading zero octet to keep the sign bit clear on full-width counters.
func ParseUint64(data []byte) (uint64, error) {
	if len(data) > 9 || (len(data) > 8 && data[0] != 0x0) {
		return 0, fmt.Errorf("%w: integer too large", ErrInvalidValue)
	}
	var ret uint64
	for _, b := range data {
		ret <<= 8
		ret |= uint64(b)
	}
	return ret, nil
}

// ParseUint32 decodes an unsigned integer content field that must fit 32
// bits, the width of the Counter32, Gauge32 and TimeTicks types.
func ParseUint32(data []byte) (uint32, error) {
	ret64, err := ParseUint64(data)
	if err != nil {
		return 0, err
	}
	if ret64 > math.MaxUint32 {
		return 0, fmt.Errorf("%w: integer too large", ErrInvalidValue)
	}
	return uint32(ret64), nil
}

// ParseObjectIdentifier decodes an OBJECT IDENTIFIER content field into
// its sub-identifier arcs. The first content byte packs the first two
// arcs as 40*X+Y (X.690 8.19): X is 0 or 1 with Y below 40, or 2 with
// the remainder assigned to Y. The remaining arcs are base 128 encoded.
//
// SNMP limits sub-identifiers to 32 bits (RFC 2578 3.5); larger arcs are
// rejected rather than truncated.
func ParseObjectIdentifier(data []byte) ([]uint32, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: zero length OBJECT IDENTIFIER", ErrInvalidValue)
	}
	oid := make([]uint32, 2, len(data)+1)
	switch first := data[0]; {
	case first < 40:
		oid[0] = 0
		oid[1] = uint32(first)
	case first < 80:
		oid[0] = 1
		oid[1] = uint32(first - 40)
	default:
		oid[0] = 2
		oid[1] = uint32(first - 80)
	}
	for offset := 1; offset < len(data); {
		var v int64
		var err error
		v, offset, err = parseBase128(data, offset)
		if err != nil {
			return nil, err
		}
		if v > math.MaxUint32 {
			return nil, fmt.Errorf("%w: OID sub-identifier too large", ErrInvalidValue)
		}
		oid = append(oid, uint32(v))
	}
	return oid, nil
}

// parseBase128 reads a base 128 encoded integer from data starting at
// initOffset and returns it with the offset of the first byte after it.
// Five septets (35 bits) is the most an SNMP sub-identifier can need.
func parseBase128(data []byte, initOffset int) (int64, int, error) {
	var ret int64
	offset := initOffset
	for shifted := 0; offset < len(data); shifted++ {
		if shifted > 4 {
			return 0, offset, fmt.Errorf("%w: base 128 integer too large", ErrInvalidValue)
		}
		ret <<= 7
		b := data[offset]
		ret |= int64(b & 0x7f)
		offset++
		if b&0x80 == 0 {
			return ret, offset, nil
		}
	}
	return 0, offset, fmt.Errorf("%w: truncated base 128 integer", ErrIncomplete)
}
