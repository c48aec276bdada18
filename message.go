// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpwire

import (
	"fmt"

	"github.com/snmpwire/snmpwire/ber"
)

// SnmpMessage is a decoded community-based message, SNMPv1 or SNMPv2c.
// Community aliases the input buffer.
type SnmpMessage struct {
	Version   SnmpVersion
	Community []byte
	Pdu       Pdu
}

// MessageVersion returns the version field of the message header.
func (m *SnmpMessage) MessageVersion() SnmpVersion { return m.Version }

// String renders the message for diagnostics. The community is printed
// with %q so control bytes cannot corrupt a log line.
func (m *SnmpMessage) String() string {
	return fmt.Sprintf("Version:%s, Community:%q, %s", m.Version, m.Community, m.Pdu)
}

// decodeCommunityMessage walks the v1/v2c message grammar: an outer
// sequence holding version, community and one PDU. Bytes past the outer
// sequence are ignored, datagrams arrive padded; inside it every length
// must add up.
func (d *Decoder) decodeCommunityMessage(packet []byte) (*SnmpMessage, error) {
	if len(packet) < 2 {
		return nil, fmt.Errorf("%w: cannot decode empty packet", ErrIncomplete)
	}
	if PDUType(packet[0]) != Sequence {
		return nil, fmt.Errorf("%w: invalid packet header", ErrInvalidTag)
	}
	length, cursor, err := ber.ParseLength(packet)
	if err != nil {
		return nil, wrapPrimitive(err)
	}
	if length > len(packet) {
		return nil, fmt.Errorf("%w: packet declares %d bytes, %d available", ErrIncomplete, length, len(packet))
	}
	packet = packet[:length]
	d.Logger.Printf("packetLength: %d", length)

	rawVersion, count, err := parseRawField(d.Logger, packet[cursor:], "version")
	if err != nil {
		return nil, fmt.Errorf("error parsing SNMP packet version: %w", err)
	}
	cursor += count
	version, ok := rawVersion.(int)
	if !ok {
		return nil, fmt.Errorf("%w: version is not an integer", ErrInvalidTag)
	}

	msg := &SnmpMessage{}
	switch version {
	case int(Version1):
		msg.Version = Version1
	case int(Version2c):
		msg.Version = Version2c
	default:
		return nil, fmt.Errorf("%w: unsupported SNMP version %d for a community message", ErrInvalidValue, version)
	}

	rawCommunity, count, err := parseRawField(d.Logger, packet[cursor:], "community")
	if err != nil {
		return nil, fmt.Errorf("error parsing SNMP packet community: %w", err)
	}
	cursor += count
	community, ok := rawCommunity.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: community is not an octet string", ErrInvalidTag)
	}
	msg.Community = community

	msg.Pdu, err = d.decodePdu(packet[cursor:], 2)
	if err != nil {
		return nil, err
	}
	return msg, nil
}
