// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpwire

import (
	"fmt"

	"github.com/snmpwire/snmpwire/ber"
)

// SnmpV3MsgFlags contains the message flags of the v3 header, describing
// authentication, privacy, and whether a report PDU must be sent.
type SnmpV3MsgFlags uint8

// Possible values of SnmpV3MsgFlags
const (
	NoAuthNoPriv SnmpV3MsgFlags = 0x0 // No authentication, and no privacy
	AuthNoPriv   SnmpV3MsgFlags = 0x1 // Authentication and no privacy
	AuthPriv     SnmpV3MsgFlags = 0x3 // Authentication and privacy
	Reportable   SnmpV3MsgFlags = 0x4 // Report PDU must be sent
)

// IsAuthenticated reports whether the authentication bit is set.
func (f SnmpV3MsgFlags) IsAuthenticated() bool {
	return f&AuthNoPriv != 0
}

// IsEncrypted reports whether the privacy bit is set.
func (f SnmpV3MsgFlags) IsEncrypted() bool {
	return f&AuthPriv > AuthNoPriv
}

// IsReportable reports whether the sender expects a report PDU on error.
func (f SnmpV3MsgFlags) IsReportable() bool {
	return f&Reportable != 0
}

func (f SnmpV3MsgFlags) String() string {
	var name string
	switch f & AuthPriv {
	case NoAuthNoPriv:
		name = "NoAuthNoPriv"
	case AuthNoPriv:
		name = "AuthNoPriv"
	case AuthPriv:
		name = "AuthPriv"
	default:
		// privacy without authentication, prohibited by RFC 3412 but
		// representable on the wire
		name = "PrivNoAuth"
	}
	if f.IsReportable() {
		name += "|Reportable"
	}
	return name
}

// SnmpV3SecurityModel describes the security model of a v3 message.
// The named values are the IETF-assigned ones; RFC 3411 allocates the
// range above 255 to enterprises, so unlisted models are expected in
// traffic and their security parameters decode as raw bytes.
type SnmpV3SecurityModel int32

// Registered values of SnmpV3SecurityModel.
const (
	SnmpV1SecurityModel    SnmpV3SecurityModel = 1
	SnmpV2cSecurityModel   SnmpV3SecurityModel = 2
	UserSecurityModel      SnmpV3SecurityModel = 3 // RFC 3414
	TransportSecurityModel SnmpV3SecurityModel = 4 // RFC 5591
)

func (m SnmpV3SecurityModel) String() string {
	switch m {
	case SnmpV1SecurityModel:
		return "SNMPv1"
	case SnmpV2cSecurityModel:
		return "SNMPv2c"
	case UserSecurityModel:
		return "USM"
	case TransportSecurityModel:
		return "TSM"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(m))
	}
}

// HeaderData is the msgGlobalData sequence of a v3 message (RFC 3412).
type HeaderData struct {
	MsgID            int32
	MsgMaxSize       int32
	MsgFlags         SnmpV3MsgFlags
	MsgSecurityModel SnmpV3SecurityModel
}

// ScopedPduData is the scoped-PDU portion of a v3 message. Exactly one
// form is populated: Encrypted non-nil holds the ciphertext unchanged
// when the privacy flag was set, and decryption is the caller's
// business; otherwise ContextEngineID, ContextName and Pdu hold the
// plaintext scoped PDU, with the byte fields aliasing the input.
type ScopedPduData struct {
	Encrypted       []byte
	ContextEngineID []byte
	ContextName     []byte
	Pdu             *Pdu
}

// SnmpV3Message is a decoded SNMPv3 message.
type SnmpV3Message struct {
	Version            SnmpVersion
	Header             HeaderData
	SecurityParameters SnmpV3SecurityParameters
	ScopedPdu          ScopedPduData
}

// MessageVersion returns the version field of the message header.
func (m *SnmpV3Message) MessageVersion() SnmpVersion { return m.Version }

// String renders the message for diagnostics.
func (m *SnmpV3Message) String() string {
	sp := ""
	if m.SecurityParameters != nil {
		sp = m.SecurityParameters.SafeString()
	}
	if m.ScopedPdu.Encrypted != nil {
		return fmt.Sprintf("Version:%s, MsgID:%d, MsgMaxSize:%d, MsgFlags:%s, SecurityModel:%s, SecurityParameters:%s, ScopedPdu:encrypted(%d bytes)",
			m.Version, m.Header.MsgID, m.Header.MsgMaxSize, m.Header.MsgFlags,
			m.Header.MsgSecurityModel, sp, len(m.ScopedPdu.Encrypted))
	}
	return fmt.Sprintf("Version:%s, MsgID:%d, MsgMaxSize:%d, MsgFlags:%s, SecurityModel:%s, SecurityParameters:%s, ContextEngineID:%x, ContextName:%s, %s",
		m.Version, m.Header.MsgID, m.Header.MsgMaxSize, m.Header.MsgFlags,
		m.Header.MsgSecurityModel, sp, m.ScopedPdu.ContextEngineID,
		m.ScopedPdu.ContextName, m.ScopedPdu.Pdu)
}

// decodeV3Message walks the v3 message grammar: an outer sequence
// holding version, the msgGlobalData header, the security-parameters
// octet string and the scoped-PDU data. Bytes past the outer sequence
// are ignored; inside it every length must add up.
func (d *Decoder) decodeV3Message(packet []byte) (*SnmpV3Message, error) {
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
	if version != int(Version3) {
		return nil, fmt.Errorf("%w: unsupported SNMP version %d for a v3 message", ErrInvalidValue, version)
	}
	msg := &SnmpV3Message{Version: Version3}

	count, err = d.decodeV3Header(packet[cursor:], &msg.Header, 2)
	if err != nil {
		return nil, err
	}
	cursor += count

	if cursor >= len(packet) {
		return nil, fmt.Errorf("%w: no security parameters after the v3 header", ErrIncomplete)
	}
	if Asn1BER(packet[cursor]) != OctetString {
		return nil, fmt.Errorf("%w: invalid SNMPV3 security parameters", ErrInvalidTag)
	}
	secLength, secCursor, err := ber.ParseLength(packet[cursor:])
	if err != nil {
		return nil, wrapPrimitive(err)
	}
	if secLength > len(packet)-cursor {
		return nil, fmt.Errorf("%w: security parameters declare %d bytes, %d available",
			ErrIncomplete, secLength, len(packet)-cursor)
	}
	secContent := packet[cursor+secCursor : cursor+secLength]
	cursor += secLength

	if msg.Header.MsgSecurityModel == UserSecurityModel {
		usm, err := d.decodeUsmSecurityParameters(secContent, 3)
		if err != nil {
			return nil, err
		}
		msg.SecurityParameters = usm
	} else {
		msg.SecurityParameters = RawSecurityParameters(secContent)
	}

	if cursor >= len(packet) {
		return nil, fmt.Errorf("%w: no scoped PDU after the security parameters", ErrIncomplete)
	}
	if msg.Header.MsgFlags.IsEncrypted() {
		if Asn1BER(packet[cursor]) != OctetString {
			return nil, fmt.Errorf("%w: privacy flag set but scoped PDU is type %#x, not an octet string",
				ErrInvalidTag, packet[cursor])
		}
		spLength, spCursor, err := ber.ParseLength(packet[cursor:])
		if err != nil {
			return nil, wrapPrimitive(err)
		}
		if spLength > len(packet)-cursor {
			return nil, fmt.Errorf("%w: encrypted scoped PDU declares %d bytes, %d available",
				ErrIncomplete, spLength, len(packet)-cursor)
		}
		if spLength != len(packet)-cursor {
			return nil, fmt.Errorf("%w: %d trailing bytes after the encrypted scoped PDU",
				ErrInvalidLength, len(packet)-cursor-spLength)
		}
		msg.ScopedPdu.Encrypted = packet[cursor+spCursor : cursor+spLength]
		d.Logger.Printf("scoped PDU is encrypted, %d bytes", len(msg.ScopedPdu.Encrypted))
		return msg, nil
	}
	if PDUType(packet[cursor]) != Sequence {
		return nil, fmt.Errorf("%w: scoped PDU is type %#x, not a sequence", ErrInvalidTag, packet[cursor])
	}
	if err := d.decodeScopedPdu(packet[cursor:], &msg.ScopedPdu, 2); err != nil {
		return nil, err
	}
	return msg, nil
}

// decodeV3Header decodes the msgGlobalData sequence into hdr and
// returns how many bytes it occupied.
func (d *Decoder) decodeV3Header(data []byte, hdr *HeaderData, depth int) (int, error) {
	if depth > d.maxDepth() {
		return 0, fmt.Errorf("%w: depth %d decoding the v3 header", ErrDepthExceeded, depth)
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: no data for the v3 header", ErrIncomplete)
	}
	if PDUType(data[0]) != Sequence {
		return 0, fmt.Errorf("%w: invalid SNMPV3 header", ErrInvalidTag)
	}
	hdrLength, cursor, err := ber.ParseLength(data)
	if err != nil {
		return 0, wrapPrimitive(err)
	}
	if hdrLength > len(data) {
		return 0, fmt.Errorf("%w: v3 header declares %d bytes, %d available", ErrIncomplete, hdrLength, len(data))
	}
	data = data[:hdrLength]

	rawMsgID, count, err := parseRawField(d.Logger, data[cursor:], "msgID")
	if err != nil {
		return 0, fmt.Errorf("error parsing SNMPV3 message ID: %w", err)
	}
	cursor += count
	hdr.MsgID, err = toInt32(rawMsgID, "msgID")
	if err != nil {
		return 0, err
	}

	rawMsgMaxSize, count, err := parseRawField(d.Logger, data[cursor:], "msgMaxSize")
	if err != nil {
		return 0, fmt.Errorf("error parsing SNMPV3 msgMaxSize: %w", err)
	}
	cursor += count
	hdr.MsgMaxSize, err = toInt32(rawMsgMaxSize, "msgMaxSize")
	if err != nil {
		return 0, err
	}

	rawMsgFlags, count, err := parseRawField(d.Logger, data[cursor:], "msgFlags")
	if err != nil {
		return 0, fmt.Errorf("error parsing SNMPV3 msgFlags: %w", err)
	}
	cursor += count
	flags, ok := rawMsgFlags.([]byte)
	if !ok {
		return 0, fmt.Errorf("%w: msgFlags is not an octet string", ErrInvalidTag)
	}
	if len(flags) != 1 {
		return 0, fmt.Errorf("%w: msgFlags with %d bytes, need 1", ErrInvalidLength, len(flags))
	}
	hdr.MsgFlags = SnmpV3MsgFlags(flags[0])

	rawSecModel, count, err := parseRawField(d.Logger, data[cursor:], "msgSecurityModel")
	if err != nil {
		return 0, fmt.Errorf("error parsing SNMPV3 msgSecModel: %w", err)
	}
	cursor += count
	secModel, err := toInt32(rawSecModel, "msgSecurityModel")
	if err != nil {
		return 0, err
	}
	hdr.MsgSecurityModel = SnmpV3SecurityModel(secModel)

	if cursor != len(data) {
		// a fifth field inside msgGlobalData
		return 0, fmt.Errorf("%w: %d trailing bytes inside the v3 header", ErrInvalidTag, len(data)-cursor)
	}
	d.Logger.Printf("decoded v3 header msgID:%d msgMaxSize:%d flags:%s model:%s",
		hdr.MsgID, hdr.MsgMaxSize, hdr.MsgFlags, hdr.MsgSecurityModel)
	return hdrLength, nil
}

// decodeScopedPdu decodes a plaintext scoped-PDU sequence, which must
// span exactly the rest of the message.
func (d *Decoder) decodeScopedPdu(data []byte, sp *ScopedPduData, depth int) error {
	if depth > d.maxDepth() {
		return fmt.Errorf("%w: depth %d decoding a scoped PDU", ErrDepthExceeded, depth)
	}
	spLength, cursor, err := ber.ParseLength(data)
	if err != nil {
		return wrapPrimitive(err)
	}
	if spLength > len(data) {
		return fmt.Errorf("%w: scoped PDU declares %d bytes, %d available", ErrIncomplete, spLength, len(data))
	}
	if spLength != len(data) {
		return fmt.Errorf("%w: error verifying scoped PDU sanity: got %d expected %d",
			ErrInvalidLength, len(data), spLength)
	}

	rawContextEngineID, count, err := parseRawField(d.Logger, data[cursor:], "contextEngineID")
	if err != nil {
		return fmt.Errorf("error parsing SNMPV3 contextEngineID: %w", err)
	}
	cursor += count
	contextEngineID, ok := rawContextEngineID.([]byte)
	if !ok {
		return fmt.Errorf("%w: contextEngineID is not an octet string", ErrInvalidTag)
	}
	sp.ContextEngineID = contextEngineID

	rawContextName, count, err := parseRawField(d.Logger, data[cursor:], "contextName")
	if err != nil {
		return fmt.Errorf("error parsing SNMPV3 contextName: %w", err)
	}
	cursor += count
	contextName, ok := rawContextName.([]byte)
	if !ok {
		return fmt.Errorf("%w: contextName is not an octet string", ErrInvalidTag)
	}
	sp.ContextName = contextName

	pdu, err := d.decodePdu(data[cursor:], depth+1)
	if err != nil {
		return err
	}
	sp.Pdu = &pdu
	return nil
}
