// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpwire

import (
	"fmt"

	"github.com/snmpwire/snmpwire/ber"
)

// SnmpV3SecurityParameters holds the decoded msgSecurityParameters of a
// v3 message. The concrete type follows msgSecurityModel:
// *UsmSecurityParameters for USM, RawSecurityParameters for every other
// model.
type SnmpV3SecurityParameters interface {
	// Description returns a short comma-keyed identification of the
	// security parameters.
	Description() string

	// SafeString returns a rendering fit for log lines.
	SafeString() string
}

// UsmSecurityParameters are the User-based Security Model parameters of
// RFC 3414 section 2.4. All byte fields alias the input buffer. The
// decoder does not verify AuthenticationParameters or decrypt anything;
// it surfaces the fields for a caller that holds the keys.
type UsmSecurityParameters struct {
	AuthoritativeEngineID    []byte
	AuthoritativeEngineBoots int32
	AuthoritativeEngineTime  int32
	UserName                 []byte
	AuthenticationParameters []byte
	PrivacyParameters        []byte
}

// Compile-time interface check
var _ SnmpV3SecurityParameters = (*UsmSecurityParameters)(nil)

// Description returns a string description of the security parameters
func (sp *UsmSecurityParameters) Description() string {
	return fmt.Sprintf("usm,engineID=%x,userName=%s", sp.AuthoritativeEngineID, sp.UserName)
}

// SafeString returns a logging-safe string of the security parameters
func (sp *UsmSecurityParameters) SafeString() string {
	return fmt.Sprintf("AuthoritativeEngineID:%x, AuthoritativeEngineBoots:%d, AuthoritativeEngineTime:%d, UserName:%s, AuthenticationParameters:%x, PrivacyParameters:%x",
		sp.AuthoritativeEngineID,
		sp.AuthoritativeEngineBoots,
		sp.AuthoritativeEngineTime,
		sp.UserName,
		sp.AuthenticationParameters,
		sp.PrivacyParameters)
}

// RawSecurityParameters are the undecoded msgSecurityParameters content
// bytes of a security model this package has no structured form for,
// aliasing the input buffer.
type RawSecurityParameters []byte

// Compile-time interface check
var _ SnmpV3SecurityParameters = RawSecurityParameters(nil)

// Description returns a string description of the security parameters
func (sp RawSecurityParameters) Description() string {
	return fmt.Sprintf("raw,%d bytes", len(sp))
}

// SafeString returns a logging-safe string of the security parameters
func (sp RawSecurityParameters) SafeString() string {
	return fmt.Sprintf("RawSecurityParameters:%x", []byte(sp))
}

// decodeUsmSecurityParameters decodes the UsmSecurityParameters
// sequence carried inside the msgSecurityParameters octet string. The
// sequence must span exactly the octet-string content; a malformed
// block fails the whole message decode.
func (d *Decoder) decodeUsmSecurityParameters(data []byte, depth int) (*UsmSecurityParameters, error) {
	if depth > d.maxDepth() {
		return nil, fmt.Errorf("%w: depth %d decoding USM parameters", ErrDepthExceeded, depth)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no data for USM security parameters", ErrIncomplete)
	}
	if PDUType(data[0]) != Sequence {
		return nil, fmt.Errorf("%w: error parsing SNMPV3 User Security Model parameters", ErrInvalidTag)
	}
	seqLength, cursor, err := ber.ParseLength(data)
	if err != nil {
		return nil, wrapPrimitive(err)
	}
	if seqLength > len(data) {
		return nil, fmt.Errorf("%w: USM parameters declare %d bytes, %d available", ErrIncomplete, seqLength, len(data))
	}
	if seqLength != len(data) {
		return nil, fmt.Errorf("%w: error verifying USM parameters sanity: got %d expected %d",
			ErrInvalidLength, len(data), seqLength)
	}
	sp := &UsmSecurityParameters{}

	rawEngineID, count, err := parseRawField(d.Logger, data[cursor:], "msgAuthoritativeEngineID")
	if err != nil {
		return nil, fmt.Errorf("error parsing SNMPV3 User Security Model msgAuthoritativeEngineID: %w", err)
	}
	cursor += count
	engineID, ok := rawEngineID.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: msgAuthoritativeEngineID is not an octet string", ErrInvalidTag)
	}
	sp.AuthoritativeEngineID = engineID

	rawBoots, count, err := parseRawField(d.Logger, data[cursor:], "msgAuthoritativeEngineBoots")
	if err != nil {
		return nil, fmt.Errorf("error parsing SNMPV3 User Security Model msgAuthoritativeEngineBoots: %w", err)
	}
	cursor += count
	sp.AuthoritativeEngineBoots, err = toInt32(rawBoots, "msgAuthoritativeEngineBoots")
	if err != nil {
		return nil, err
	}

	rawTime, count, err := parseRawField(d.Logger, data[cursor:], "msgAuthoritativeEngineTime")
	if err != nil {
		return nil, fmt.Errorf("error parsing SNMPV3 User Security Model msgAuthoritativeEngineTime: %w", err)
	}
	cursor += count
	sp.AuthoritativeEngineTime, err = toInt32(rawTime, "msgAuthoritativeEngineTime")
	if err != nil {
		return nil, err
	}

	rawUserName, count, err := parseRawField(d.Logger, data[cursor:], "msgUserName")
	if err != nil {
		return nil, fmt.Errorf("error parsing SNMPV3 User Security Model msgUserName: %w", err)
	}
	cursor += count
	userName, ok := rawUserName.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: msgUserName is not an octet string", ErrInvalidTag)
	}
	sp.UserName = userName

	rawAuthParams, count, err := parseRawField(d.Logger, data[cursor:], "msgAuthenticationParameters")
	if err != nil {
		return nil, fmt.Errorf("error parsing SNMPV3 User Security Model msgAuthenticationParameters: %w", err)
	}
	cursor += count
	authParams, ok := rawAuthParams.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: msgAuthenticationParameters is not an octet string", ErrInvalidTag)
	}
	sp.AuthenticationParameters = authParams

	rawPrivParams, count, err := parseRawField(d.Logger, data[cursor:], "msgPrivacyParameters")
	if err != nil {
		return nil, fmt.Errorf("error parsing SNMPV3 User Security Model msgPrivacyParameters: %w", err)
	}
	cursor += count
	privParams, ok := rawPrivParams.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: msgPrivacyParameters is not an octet string", ErrInvalidTag)
	}
	sp.PrivacyParameters = privParams

	if cursor != len(data) {
		// a seventh field inside the USM sequence
		return nil, fmt.Errorf("%w: %d trailing bytes after USM parameters", ErrInvalidTag, len(data)-cursor)
	}
	d.Logger.Printf("decoded USM parameters %s", sp.SafeString())
	return sp, nil
}
