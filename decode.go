// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpwire

import (
	"fmt"

	"github.com/snmpwire/snmpwire/ber"
)

// SnmpGenericMessage is the result of DecodeGeneric: a *SnmpMessage for
// v1 and v2c, a *SnmpV3Message for v3.
type SnmpGenericMessage interface {
	MessageVersion() SnmpVersion
}

// Compile-time interface checks
var (
	_ SnmpGenericMessage = (*SnmpMessage)(nil)
	_ SnmpGenericMessage = (*SnmpV3Message)(nil)
)

// DecodeV1 decodes packet as an SNMPv1 message.
func (d *Decoder) DecodeV1(packet []byte) (*SnmpMessage, error) {
	msg, err := d.decodeCommunityMessage(packet)
	if err != nil {
		return nil, err
	}
	if msg.Version != Version1 {
		return nil, fmt.Errorf("%w: got version %s, want %s", ErrInvalidValue, msg.Version, Version1)
	}
	return msg, nil
}

// DecodeV2c decodes packet as an SNMPv2c message.
func (d *Decoder) DecodeV2c(packet []byte) (*SnmpMessage, error) {
	msg, err := d.decodeCommunityMessage(packet)
	if err != nil {
		return nil, err
	}
	if msg.Version != Version2c {
		return nil, fmt.Errorf("%w: got version %s, want %s", ErrInvalidValue, msg.Version, Version2c)
	}
	return msg, nil
}

// DecodeV3 decodes packet as an SNMPv3 message. An encrypted scoped PDU
// is surfaced as ciphertext, never parsed.
func (d *Decoder) DecodeV3(packet []byte) (*SnmpV3Message, error) {
	return d.decodeV3Message(packet)
}

// DecodeGeneric decodes packet as whichever message schema its version
// field selects.
func (d *Decoder) DecodeGeneric(packet []byte) (SnmpGenericMessage, error) {
	version, err := d.peekVersion(packet)
	if err != nil {
		return nil, err
	}
	switch version {
	case int(Version1), int(Version2c):
		msg, err := d.decodeCommunityMessage(packet)
		if err != nil {
			return nil, err
		}
		return msg, nil
	case int(Version3):
		msg, err := d.decodeV3Message(packet)
		if err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("%w: unsupported SNMP version %d", ErrInvalidValue, version)
	}
}

// peekVersion reads the version integer inside the outer sequence
// without consuming the message.
func (d *Decoder) peekVersion(packet []byte) (int, error) {
	if len(packet) < 2 {
		return 0, fmt.Errorf("%w: cannot decode empty packet", ErrIncomplete)
	}
	if PDUType(packet[0]) != Sequence {
		return 0, fmt.Errorf("%w: invalid packet header", ErrInvalidTag)
	}
	length, cursor, err := ber.ParseLength(packet)
	if err != nil {
		return 0, wrapPrimitive(err)
	}
	if length > len(packet) {
		return 0, fmt.Errorf("%w: packet declares %d bytes, %d available", ErrIncomplete, length, len(packet))
	}
	rawVersion, _, err := parseRawField(d.Logger, packet[cursor:length], "version")
	if err != nil {
		return 0, fmt.Errorf("error parsing SNMP packet version: %w", err)
	}
	version, ok := rawVersion.(int)
	if !ok {
		return 0, fmt.Errorf("%w: version is not an integer", ErrInvalidTag)
	}
	return version, nil
}

// DecodeV1 decodes packet as an SNMPv1 message with a default Decoder.
func DecodeV1(packet []byte) (*SnmpMessage, error) {
	var d Decoder
	return d.DecodeV1(packet)
}

// DecodeV2c decodes packet as an SNMPv2c message with a default Decoder.
func DecodeV2c(packet []byte) (*SnmpMessage, error) {
	var d Decoder
	return d.DecodeV2c(packet)
}

// DecodeV3 decodes packet as an SNMPv3 message with a default Decoder.
func DecodeV3(packet []byte) (*SnmpV3Message, error) {
	var d Decoder
	return d.DecodeV3(packet)
}

// DecodeGeneric decodes packet with a default Decoder, selecting the
// schema by the version field.
func DecodeGeneric(packet []byte) (SnmpGenericMessage, error) {
	var d Decoder
	return d.DecodeGeneric(packet)
}
