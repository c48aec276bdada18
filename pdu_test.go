// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpwire

import (
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// community message fixtures live in message_test.go; the PDU starts at
// byte 13 in all of them

func TestDecodePduGetBulk(t *testing.T) {
	var d Decoder
	pdu, err := d.decodePdu(v2cGetBulkRequest[13:], 2)
	if err != nil {
		t.Fatalf("decodePdu: %v", err)
	}
	want := Pdu{
		Type:           GetBulkRequest,
		RequestID:      1921684841,
		NonRepeaters:   0,
		MaxRepetitions: 10,
		VarBinds: VarBindList{
			{Oid: Oid{1, 3, 6, 1, 2, 1}, Value: ObjectSyntax{Null, nil}},
		},
	}
	if diff := cmp.Diff(want, pdu); diff != "" {
		t.Errorf("pdu mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePduTrapV1(t *testing.T) {
	var d Decoder
	pdu, err := d.decodePdu(v1TrapColdStart[13:], 2)
	if err != nil {
		t.Fatalf("decodePdu: %v", err)
	}
	want := Pdu{
		Type: Trap,
		Trap: &TrapV1{
			Enterprise:   Oid{1, 3, 6, 1, 4, 1, 4, 1, 2, 21},
			AgentAddr:    net.IP{0x7f, 0x00, 0x00, 0x01},
			GenericTrap:  ColdStart,
			SpecificTrap: 0,
			Timestamp:    26,
		},
		VarBinds: VarBindList{},
	}
	if diff := cmp.Diff(want, pdu); diff != "" {
		t.Errorf("pdu mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePduTrapAgentAddrOctetString(t *testing.T) {
	// agent address retagged as an OCTET STRING, still 4 bytes
	packet := append([]byte(nil), v1TrapColdStart[13:]...)
	packet[13] = 0x04

	var d Decoder
	pdu, err := d.decodePdu(packet, 2)
	if err != nil {
		t.Fatalf("decodePdu: %v", err)
	}
	if !pdu.Trap.AgentAddr.Equal(net.IP{0x7f, 0x00, 0x00, 0x01}) {
		t.Errorf("got agent addr %v, want 127.0.0.1", pdu.Trap.AgentAddr)
	}
}

func TestDecodePduTrapTimestampInteger(t *testing.T) {
	// timestamp retagged as a plain INTEGER
	packet := append([]byte(nil), v1TrapColdStart[13:]...)
	packet[25] = 0x02

	var d Decoder
	pdu, err := d.decodePdu(packet, 2)
	if err != nil {
		t.Fatalf("decodePdu: %v", err)
	}
	if pdu.Trap.Timestamp != 26 {
		t.Errorf("got timestamp %d, want 26", pdu.Trap.Timestamp)
	}
}

func TestDecodePduErrors(t *testing.T) {
	timestampNegative := append([]byte(nil), v1TrapColdStart[13:]...)
	timestampNegative[25] = 0x02
	timestampNegative[27] = 0x85
	timestampWrongType := append([]byte(nil), v1TrapColdStart[13:]...)
	timestampWrongType[25] = 0x04

	tests := []struct {
		name string
		data []byte
		kind error
	}{
		{"empty", nil, ErrIncomplete},
		{"unknown_type", []byte{0xa9, 0x00}, ErrInvalidTag},
		{"declares_more_than_available", []byte{0xa0, 0x7f, 0x02}, ErrIncomplete},
		{"declares_less_than_available", []byte{0xa0, 0x01, 0x02, 0x01, 0x01}, ErrInvalidLength},
		{"request_id_not_integer", []byte{0xa0, 0x04, 0x04, 0x02, 0x61, 0x62}, ErrInvalidTag},
		{"trap_enterprise_not_oid", []byte{0xa4, 0x03, 0x02, 0x01, 0x00}, ErrInvalidTag},
		{"trap_agent_addr_wrong_length", []byte{
			0xa4, 0x16,
			0x06, 0x01, 0x2b,
			0x04, 0x06, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06,
			0x02, 0x01, 0x00,
			0x02, 0x01, 0x00,
			0x43, 0x01, 0x00,
			0x30, 0x00,
		}, ErrInvalidLength},
		{"trap_timestamp_negative", timestampNegative, ErrInvalidValue},
		{"trap_timestamp_wrong_type", timestampWrongType, ErrInvalidTag},
	}
	var d Decoder
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := d.decodePdu(test.data, 2)
			if err == nil {
				t.Fatalf("decodePdu(% x) succeeded, want %v", test.data, test.kind)
			}
			if !errors.Is(err, test.kind) {
				t.Errorf("got %v, want kind %v", err, test.kind)
			}
		})
	}
}

func TestPduString(t *testing.T) {
	get := Pdu{
		Type:      GetResponse,
		RequestID: 42,
		VarBinds: VarBindList{
			{Oid: Oid{1, 3, 6, 1, 2, 1, 1, 3, 0}, Value: ObjectSyntax{TimeTicks, uint32(26)}},
		},
	}
	want := "PDUType:GetResponse, RequestID:42, ErrorStatus:NoError, ErrorIndex:0, VarBinds:[1.3.6.1.2.1.1.3.0=TimeTicks(26)]"
	if got := get.String(); got != want {
		t.Errorf("got %v expected %v", got, want)
	}

	bulk := Pdu{Type: GetBulkRequest, RequestID: 7, NonRepeaters: 1, MaxRepetitions: 5}
	if got := bulk.String(); !strings.Contains(got, "NonRepeaters:1, MaxRepetitions:5") {
		t.Errorf("GetBulkRequest rendering missing repetition fields: %v", got)
	}

	trap := Pdu{
		Type: Trap,
		Trap: &TrapV1{
			Enterprise:  Oid{1, 3, 6, 1, 4, 1, 9},
			AgentAddr:   net.IP{10, 0, 0, 1},
			GenericTrap: LinkDown,
			Timestamp:   100,
		},
	}
	got := trap.String()
	if !strings.Contains(got, "AgentAddr:10.0.0.1") || !strings.Contains(got, "GenericTrap:LinkDown") {
		t.Errorf("Trap rendering missing v1 header fields: %v", got)
	}
}
