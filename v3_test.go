// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpwire

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// engine discovery probe: empty USM fields, empty context, GetRequest
// with no bindings
var v3Discovery = []byte{ // 77 bytes
	0x30, 0x4b, 0x02, 0x01, 0x03, 0x30, 0x11, 0x02, 0x04, 0x30, 0xf6, 0xf3,
	0xd4, 0x02, 0x03, 0x00, 0xff, 0xe3, 0x04, 0x01, 0x04, 0x02, 0x01, 0x03,
	0x04, 0x10, 0x30, 0x0e, 0x04, 0x00, 0x02, 0x01, 0x00, 0x02, 0x01, 0x00,
	0x04, 0x00, 0x04, 0x00, 0x04, 0x00, 0x30, 0x21, 0x04, 0x0d, 0x80, 0x00,
	0x1f, 0x88, 0x80, 0x59, 0xdc, 0x48, 0x61, 0x45, 0xa2, 0x63, 0x22, 0x04,
	0x00, 0xa0, 0x0e, 0x02, 0x04, 0x7d, 0x0e, 0x08, 0x2e, 0x02, 0x01, 0x00,
	0x02, 0x01, 0x00, 0x30, 0x00,
}

// authPriv message for user bootstrap; the scoped PDU is 48 bytes of
// ciphertext
var v3Encrypted = []byte{ // 136 bytes
	0x30, 0x81, 0x85, 0x02, 0x01, 0x03, 0x30, 0x11, 0x02, 0x04, 0x5d, 0x56,
	0xef, 0xa2, 0x02, 0x03, 0x00, 0xff, 0xe3, 0x04, 0x01, 0x07, 0x02, 0x01,
	0x03, 0x04, 0x3b, 0x30, 0x39, 0x04, 0x0d, 0x80, 0x00, 0x1f, 0x88, 0x80,
	0xe9, 0x63, 0x00, 0x00, 0x53, 0xe1, 0x0f, 0x64, 0x02, 0x01, 0x01, 0x02,
	0x02, 0x04, 0xd2, 0x04, 0x09, 0x62, 0x6f, 0x6f, 0x74, 0x73, 0x74, 0x72,
	0x61, 0x70, 0x04, 0x0c, 0xa0, 0xa1, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7,
	0xa8, 0xa9, 0xaa, 0xab, 0x04, 0x08, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06,
	0x07, 0x08, 0x04, 0x30, 0x0d, 0x14, 0x1b, 0x22, 0x29, 0x30, 0x37, 0x3e,
	0x45, 0x4c, 0x53, 0x5a, 0x61, 0x68, 0x6f, 0x76, 0x7d, 0x84, 0x8b, 0x92,
	0x99, 0xa0, 0xa7, 0xae, 0xb5, 0xbc, 0xc3, 0xca, 0xd1, 0xd8, 0xdf, 0xe6,
	0xed, 0xf4, 0xfb, 0x02, 0x09, 0x10, 0x17, 0x1e, 0x25, 0x2c, 0x33, 0x3a,
	0x41, 0x48, 0x4f, 0x56,
}

// discovery probe with msgFlags stretched to two bytes
var v3TwoByteFlags = []byte{ // 78 bytes
	0x30, 0x4c, 0x02, 0x01, 0x03, 0x30, 0x12, 0x02, 0x04, 0x30, 0xf6, 0xf3,
	0xd4, 0x02, 0x03, 0x00, 0xff, 0xe3, 0x04, 0x02, 0x04, 0x00, 0x02, 0x01,
	0x03, 0x04, 0x10, 0x30, 0x0e, 0x04, 0x00, 0x02, 0x01, 0x00, 0x02, 0x01,
	0x00, 0x04, 0x00, 0x04, 0x00, 0x04, 0x00, 0x30, 0x21, 0x04, 0x0d, 0x80,
	0x00, 0x1f, 0x88, 0x80, 0x59, 0xdc, 0x48, 0x61, 0x45, 0xa2, 0x63, 0x22,
	0x04, 0x00, 0xa0, 0x0e, 0x02, 0x04, 0x7d, 0x0e, 0x08, 0x2e, 0x02, 0x01,
	0x00, 0x02, 0x01, 0x00, 0x30, 0x00,
}

// msgSecurityModel 2, so the security parameters stay raw
var v3RawModel = []byte{ // 65 bytes
	0x30, 0x3f, 0x02, 0x01, 0x03, 0x30, 0x11, 0x02, 0x04, 0x30, 0xf6, 0xf3,
	0xd4, 0x02, 0x03, 0x00, 0xff, 0xe3, 0x04, 0x01, 0x04, 0x02, 0x01, 0x02,
	0x04, 0x04, 0xde, 0xad, 0xbe, 0xef, 0x30, 0x21, 0x04, 0x0d, 0x80, 0x00,
	0x1f, 0x88, 0x80, 0x59, 0xdc, 0x48, 0x61, 0x45, 0xa2, 0x63, 0x22, 0x04,
	0x00, 0xa0, 0x0e, 0x02, 0x04, 0x7d, 0x0e, 0x08, 0x2e, 0x02, 0x01, 0x00,
	0x02, 0x01, 0x00, 0x30, 0x00,
}

// msgSecurityModel 257, an enterprise model from the range RFC 3411
// hands out above 255
var v3EnterpriseModel = []byte{ // 66 bytes
	0x30, 0x40, 0x02, 0x01, 0x03, 0x30, 0x12, 0x02, 0x04, 0x30, 0xf6, 0xf3,
	0xd4, 0x02, 0x03, 0x00, 0xff, 0xe3, 0x04, 0x01, 0x04, 0x02, 0x02, 0x01,
	0x01, 0x04, 0x04, 0xde, 0xad, 0xbe, 0xef, 0x30, 0x21, 0x04, 0x0d, 0x80,
	0x00, 0x1f, 0x88, 0x80, 0x59, 0xdc, 0x48, 0x61, 0x45, 0xa2, 0x63, 0x22,
	0x04, 0x00, 0xa0, 0x0e, 0x02, 0x04, 0x7d, 0x0e, 0x08, 0x2e, 0x02, 0x01,
	0x00, 0x02, 0x01, 0x00, 0x30, 0x00,
}

// the USM sequence declares one byte more than its octet string holds
var v3UsmTruncated = []byte{ // 76 bytes
	0x30, 0x4a, 0x02, 0x01, 0x03, 0x30, 0x11, 0x02, 0x04, 0x30, 0xf6, 0xf3,
	0xd4, 0x02, 0x03, 0x00, 0xff, 0xe3, 0x04, 0x01, 0x04, 0x02, 0x01, 0x03,
	0x04, 0x0f, 0x30, 0x0e, 0x04, 0x00, 0x02, 0x01, 0x00, 0x02, 0x01, 0x00,
	0x04, 0x00, 0x04, 0x00, 0x04, 0x30, 0x21, 0x04, 0x0d, 0x80, 0x00, 0x1f,
	0x88, 0x80, 0x59, 0xdc, 0x48, 0x61, 0x45, 0xa2, 0x63, 0x22, 0x04, 0x00,
	0xa0, 0x0e, 0x02, 0x04, 0x7d, 0x0e, 0x08, 0x2e, 0x02, 0x01, 0x00, 0x02,
	0x01, 0x00, 0x30, 0x00,
}

var testsMsgFlagsString = []struct {
	flags SnmpV3MsgFlags
	str   string
}{
	{NoAuthNoPriv, "NoAuthNoPriv"},
	{AuthNoPriv, "AuthNoPriv"},
	{AuthPriv, "AuthPriv"},
	{NoAuthNoPriv | Reportable, "NoAuthNoPriv|Reportable"},
	{AuthNoPriv | Reportable, "AuthNoPriv|Reportable"},
	{AuthPriv | Reportable, "AuthPriv|Reportable"},
	{SnmpV3MsgFlags(0x02), "PrivNoAuth"},
}

func TestSnmpV3MsgFlagsString(t *testing.T) {
	for i, test := range testsMsgFlagsString {
		if result := test.flags.String(); result != test.str {
			t.Errorf("#%d, got %v expected %v", i, result, test.str)
		}
	}
}

func TestSnmpV3MsgFlagsPredicates(t *testing.T) {
	tests := []struct {
		flags                       SnmpV3MsgFlags
		auth, encrypted, reportable bool
	}{
		{NoAuthNoPriv, false, false, false},
		{AuthNoPriv, true, false, false},
		{AuthPriv, true, true, false},
		{AuthPriv | Reportable, true, true, true},
		{SnmpV3MsgFlags(0x02), false, true, false},
	}
	for i, test := range tests {
		if got := test.flags.IsAuthenticated(); got != test.auth {
			t.Errorf("#%d, IsAuthenticated got %v expected %v", i, got, test.auth)
		}
		if got := test.flags.IsEncrypted(); got != test.encrypted {
			t.Errorf("#%d, IsEncrypted got %v expected %v", i, got, test.encrypted)
		}
		if got := test.flags.IsReportable(); got != test.reportable {
			t.Errorf("#%d, IsReportable got %v expected %v", i, got, test.reportable)
		}
	}
}

var testsSecurityModelString = []struct {
	model SnmpV3SecurityModel
	str   string
}{
	{SnmpV1SecurityModel, "SNMPv1"},
	{SnmpV2cSecurityModel, "SNMPv2c"},
	{UserSecurityModel, "USM"},
	{TransportSecurityModel, "TSM"},
	{SnmpV3SecurityModel(9), "Unknown(9)"},
	{SnmpV3SecurityModel(257), "Unknown(257)"},
}

func TestSnmpV3SecurityModelString(t *testing.T) {
	for i, test := range testsSecurityModelString {
		if result := test.model.String(); result != test.str {
			t.Errorf("#%d, got %v expected %v", i, result, test.str)
		}
	}
}

func TestDecodeV3Discovery(t *testing.T) {
	msg, err := DecodeV3(v3Discovery)
	if err != nil {
		t.Fatalf("DecodeV3: %v", err)
	}
	want := &SnmpV3Message{
		Version: Version3,
		Header: HeaderData{
			MsgID:            821490644,
			MsgMaxSize:       65507,
			MsgFlags:         Reportable,
			MsgSecurityModel: UserSecurityModel,
		},
		SecurityParameters: &UsmSecurityParameters{
			AuthoritativeEngineID:    []byte{},
			UserName:                 []byte{},
			AuthenticationParameters: []byte{},
			PrivacyParameters:        []byte{},
		},
		ScopedPdu: ScopedPduData{
			ContextEngineID: []byte{0x80, 0x00, 0x1f, 0x88, 0x80, 0x59, 0xdc, 0x48, 0x61, 0x45, 0xa2, 0x63, 0x22},
			ContextName:     []byte{},
			Pdu: &Pdu{
				Type:      GetRequest,
				RequestID: 2098071598,
				VarBinds:  VarBindList{},
			},
		},
	}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Errorf("message mismatch (-want +got):\n%s", diff)
	}
	if msg.Header.MsgFlags.IsEncrypted() {
		t.Error("discovery probe reported as encrypted")
	}
	if !msg.Header.MsgFlags.IsReportable() {
		t.Error("discovery probe not reportable")
	}
}

func TestDecodeV3Encrypted(t *testing.T) {
	msg, err := DecodeV3(v3Encrypted)
	if err != nil {
		t.Fatalf("DecodeV3: %v", err)
	}
	cipher := make([]byte, 48)
	for i := range cipher {
		cipher[i] = byte(7*i + 13)
	}
	want := &SnmpV3Message{
		Version: Version3,
		Header: HeaderData{
			MsgID:            1565978530,
			MsgMaxSize:       65507,
			MsgFlags:         AuthPriv | Reportable,
			MsgSecurityModel: UserSecurityModel,
		},
		SecurityParameters: &UsmSecurityParameters{
			AuthoritativeEngineID:    []byte{0x80, 0x00, 0x1f, 0x88, 0x80, 0xe9, 0x63, 0x00, 0x00, 0x53, 0xe1, 0x0f, 0x64},
			AuthoritativeEngineBoots: 1,
			AuthoritativeEngineTime:  1234,
			UserName:                 []byte("bootstrap"),
			AuthenticationParameters: []byte{0xa0, 0xa1, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7, 0xa8, 0xa9, 0xaa, 0xab},
			PrivacyParameters:        []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		},
		ScopedPdu: ScopedPduData{Encrypted: cipher},
	}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Errorf("message mismatch (-want +got):\n%s", diff)
	}
	if !msg.Header.MsgFlags.IsEncrypted() || !msg.Header.MsgFlags.IsAuthenticated() {
		t.Errorf("authPriv flags decoded as %s", msg.Header.MsgFlags)
	}
}

func TestDecodeV3RawModel(t *testing.T) {
	msg, err := DecodeV3(v3RawModel)
	require.NoError(t, err)
	require.Equal(t, SnmpV2cSecurityModel, msg.Header.MsgSecurityModel)

	raw, ok := msg.SecurityParameters.(RawSecurityParameters)
	require.True(t, ok, "security parameters decoded as %T", msg.SecurityParameters)
	require.Equal(t, RawSecurityParameters{0xde, 0xad, 0xbe, 0xef}, raw)

	require.NotNil(t, msg.ScopedPdu.Pdu)
	require.EqualValues(t, 2098071598, msg.ScopedPdu.Pdu.RequestID)
}

func TestDecodeV3EnterpriseModel(t *testing.T) {
	msg, err := DecodeV3(v3EnterpriseModel)
	require.NoError(t, err)
	require.EqualValues(t, 257, msg.Header.MsgSecurityModel)

	raw, ok := msg.SecurityParameters.(RawSecurityParameters)
	require.True(t, ok, "security parameters decoded as %T", msg.SecurityParameters)
	require.Equal(t, RawSecurityParameters{0xde, 0xad, 0xbe, 0xef}, raw)

	require.NotNil(t, msg.ScopedPdu.Pdu)
	require.EqualValues(t, 2098071598, msg.ScopedPdu.Pdu.RequestID)
}

func TestDecodeV3FlagMismatch(t *testing.T) {
	// privacy flag set on a plaintext scoped PDU
	packet := append([]byte(nil), v3Discovery...)
	packet[20] = 0x03
	_, err := DecodeV3(packet)
	require.ErrorIs(t, err, ErrInvalidTag)
	require.ErrorContains(t, err, "not an octet string")

	// privacy flag clear on ciphertext
	packet = append([]byte(nil), v3Encrypted...)
	packet[21] = 0x04
	_, err = DecodeV3(packet)
	require.ErrorIs(t, err, ErrInvalidTag)
	require.ErrorContains(t, err, "not a sequence")
}

func TestDecodeV3Errors(t *testing.T) {
	secParamsNotOctetString := append([]byte(nil), v3Discovery...)
	secParamsNotOctetString[24] = 0x30
	scopedPduShort := append([]byte(nil), v3Discovery...)
	scopedPduShort[43] = 0x20

	tests := []struct {
		name string
		data []byte
		kind error
	}{
		{"empty", nil, ErrIncomplete},
		{"not_a_sequence", []byte{0x04, 0x00}, ErrInvalidTag},
		{"not_v3", v2cGetRequest, ErrInvalidValue},
		{"header_not_a_sequence", []byte{
			0x30, 0x06, 0x02, 0x01, 0x03, 0x02, 0x01, 0x00,
		}, ErrInvalidTag},
		{"header_with_fifth_field", []byte{
			0x30, 0x19, 0x02, 0x01, 0x03,
			0x30, 0x14,
			0x02, 0x04, 0x30, 0xf6, 0xf3, 0xd4,
			0x02, 0x03, 0x00, 0xff, 0xe3,
			0x04, 0x01, 0x04,
			0x02, 0x01, 0x03,
			0x02, 0x01, 0x00,
		}, ErrInvalidTag},
		{"two_byte_flags", v3TwoByteFlags, ErrInvalidLength},
		{"security_params_not_octet_string", secParamsNotOctetString, ErrInvalidTag},
		{"usm_truncated", v3UsmTruncated, ErrIncomplete},
		{"scoped_pdu_length_short", scopedPduShort, ErrInvalidLength},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeV3(test.data)
			if err == nil {
				t.Fatalf("DecodeV3(% x) succeeded, want %v", test.data, test.kind)
			}
			if !errors.Is(err, test.kind) {
				t.Errorf("got %v, want kind %v", err, test.kind)
			}
		})
	}
}

func TestDecodeV3TrailingBytes(t *testing.T) {
	packet := append([]byte(nil), v3Discovery...)
	packet = append(packet, 0x00, 0x00, 0x00)

	msg, err := DecodeV3(packet)
	require.NoError(t, err)
	require.EqualValues(t, 821490644, msg.Header.MsgID)
}

func TestDecodeV3EncryptedTrailingBytes(t *testing.T) {
	// a stray byte inside the outer sequence after the ciphertext
	packet := append([]byte(nil), v3Encrypted...)
	packet[2]++
	packet = append(packet, 0x00)

	_, err := DecodeV3(packet)
	require.ErrorIs(t, err, ErrInvalidLength)
	require.ErrorContains(t, err, "trailing bytes after the encrypted scoped PDU")
}

func TestDecodeV3Truncated(t *testing.T) {
	packets := map[string][]byte{
		"discovery": v3Discovery,
		"encrypted": v3Encrypted,
	}
	for name, packet := range packets {
		for cut := 0; cut < len(packet); cut++ {
			_, err := DecodeV3(packet[:cut])
			if err == nil {
				t.Fatalf("%s cut to %d bytes decoded, want an error", name, cut)
			}
			if !errors.Is(err, ErrIncomplete) {
				t.Fatalf("%s cut to %d bytes: got %v, want ErrIncomplete", name, cut, err)
			}
		}
	}
}

func TestSnmpV3MessageString(t *testing.T) {
	enc, err := DecodeV3(v3Encrypted)
	require.NoError(t, err)
	s := enc.String()
	require.Contains(t, s, "MsgFlags:AuthPriv|Reportable")
	require.Contains(t, s, "UserName:bootstrap")
	require.Contains(t, s, "ScopedPdu:encrypted(48 bytes)")

	disc, err := DecodeV3(v3Discovery)
	require.NoError(t, err)
	s = disc.String()
	require.Contains(t, s, "MsgFlags:NoAuthNoPriv|Reportable")
	require.Contains(t, s, "ContextEngineID:80001f888059dc486145a26322")
	require.Contains(t, s, "PDUType:GetRequest")
}

func BenchmarkSnmpV3MessageString(b *testing.B) {
	msg, err := DecodeV3(v3Encrypted)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = msg.String()
	}
}
