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

// Pdu is one decoded protocol data unit. Type selects the layout:
//
// For every kind except Trap, the wire carries request-id plus two
// integers and a variable-binding list. The two integers are
// error-status and error-index for all kinds but GetBulkRequest, which
// reuses the same positions as non-repeaters and max-repetitions; the
// decoder assigns them to the fields named for the kind it saw, and the
// fields for the other reading stay zero.
//
// For Trap (the SNMPv1 trap layout) the request fields stay zero and
// Trap points at the v1 header.
type Pdu struct {
	Type           PDUType
	RequestID      int32
	ErrorStatus    ErrorStatus
	ErrorIndex     int32
	NonRepeaters   int32
	MaxRepetitions int32
	Trap           *TrapV1
	VarBinds       VarBindList
}

// String renders the fields the PDU kind actually uses.
func (p Pdu) String() string {
	switch {
	case p.Type == Trap && p.Trap != nil:
		return fmt.Sprintf("PDUType:%s, Enterprise:%s, AgentAddr:%s, GenericTrap:%s, SpecificTrap:%d, Timestamp:%d, VarBinds:%v",
			p.Type, p.Trap.Enterprise, p.Trap.AgentAddr, p.Trap.GenericTrap, p.Trap.SpecificTrap, p.Trap.Timestamp, p.VarBinds)
	case p.Type == GetBulkRequest:
		return fmt.Sprintf("PDUType:%s, RequestID:%d, NonRepeaters:%d, MaxRepetitions:%d, VarBinds:%v",
			p.Type, p.RequestID, p.NonRepeaters, p.MaxRepetitions, p.VarBinds)
	default:
		return fmt.Sprintf("PDUType:%s, RequestID:%d, ErrorStatus:%s, ErrorIndex:%d, VarBinds:%v",
			p.Type, p.RequestID, p.ErrorStatus, p.ErrorIndex, p.VarBinds)
	}
}

// TrapV1 is the header of an SNMPv1 Trap-PDU, which shares nothing with
// the common PDU layout.
type TrapV1 struct {
	Enterprise   Oid
	AgentAddr    net.IP // 4 bytes, aliasing the input
	GenericTrap  TrapType
	SpecificTrap int32
	Timestamp    uint32
}

// decodePdu decodes the tagged PDU starting at packet[0]. The tag picks
// the layout; a tag outside the nine defined kinds is an error, never a
// guess.
func (d *Decoder) decodePdu(packet []byte, depth int) (Pdu, error) {
	var pdu Pdu
	if depth > d.maxDepth() {
		return pdu, fmt.Errorf("%w: depth %d decoding a PDU", ErrDepthExceeded, depth)
	}
	if len(packet) == 0 {
		return pdu, fmt.Errorf("%w: no data for PDU", ErrIncomplete)
	}

	requestType := PDUType(packet[0])
	d.Logger.Printf("decoding PDUType %#x (%s)", byte(requestType), requestType)
	switch requestType {
	case GetRequest, GetNextRequest, GetResponse, SetRequest,
		GetBulkRequest, InformRequest, SNMPv2Trap, Report:
		return d.decodeStandardPdu(requestType, packet, depth)
	case Trap:
		return d.decodeTrapV1(packet, depth)
	default:
		return pdu, fmt.Errorf("%w: unknown PDUType %#x", ErrInvalidTag, byte(requestType))
	}
}

func (d *Decoder) decodeStandardPdu(requestType PDUType, packet []byte, depth int) (Pdu, error) {
	pdu := Pdu{Type: requestType}

	pduLength, cursor, err := ber.ParseLength(packet)
	if err != nil {
		return pdu, wrapPrimitive(err)
	}
	if pduLength > len(packet) {
		return pdu, fmt.Errorf("%w: PDU declares %d bytes, %d available", ErrIncomplete, pduLength, len(packet))
	}
	if pduLength != len(packet) {
		return pdu, fmt.Errorf("%w: error verifying PDU sanity: got %d expected %d",
			ErrInvalidLength, len(packet), pduLength)
	}
	d.Logger.Printf("pduLength: %d", pduLength)

	rawRequestID, count, err := parseRawField(d.Logger, packet[cursor:], "request id")
	if err != nil {
		return pdu, fmt.Errorf("error parsing SNMP packet request ID: %w", err)
	}
	cursor += count
	pdu.RequestID, err = toInt32(rawRequestID, "request id")
	if err != nil {
		return pdu, err
	}

	if requestType == GetBulkRequest {
		rawNonRepeaters, count, err := parseRawField(d.Logger, packet[cursor:], "non repeaters")
		if err != nil {
			return pdu, fmt.Errorf("error parsing SNMP packet non repeaters: %w", err)
		}
		cursor += count
		pdu.NonRepeaters, err = toInt32(rawNonRepeaters, "non repeaters")
		if err != nil {
			return pdu, err
		}

		rawMaxRepetitions, count, err := parseRawField(d.Logger, packet[cursor:], "max repetitions")
		if err != nil {
			return pdu, fmt.Errorf("error parsing SNMP packet max repetitions: %w", err)
		}
		cursor += count
		pdu.MaxRepetitions, err = toInt32(rawMaxRepetitions, "max repetitions")
		if err != nil {
			return pdu, err
		}
	} else {
		rawError, count, err := parseRawField(d.Logger, packet[cursor:], "error-status")
		if err != nil {
			return pdu, fmt.Errorf("error parsing SNMP packet error-status: %w", err)
		}
		cursor += count
		errorStatus, err := toInt32(rawError, "error-status")
		if err != nil {
			return pdu, err
		}
		pdu.ErrorStatus = ErrorStatus(errorStatus)

		rawErrorIndex, count, err := parseRawField(d.Logger, packet[cursor:], "error index")
		if err != nil {
			return pdu, fmt.Errorf("error parsing SNMP packet error index: %w", err)
		}
		cursor += count
		pdu.ErrorIndex, err = toInt32(rawErrorIndex, "error index")
		if err != nil {
			return pdu, err
		}
	}

	pdu.VarBinds, err = d.decodeVarBindList(packet[cursor:], depth+1)
	return pdu, err
}

func (d *Decoder) decodeTrapV1(packet []byte, depth int) (Pdu, error) {
	pdu := Pdu{Type: Trap}

	pduLength, cursor, err := ber.ParseLength(packet)
	if err != nil {
		return pdu, wrapPrimitive(err)
	}
	if pduLength > len(packet) {
		return pdu, fmt.Errorf("%w: PDU declares %d bytes, %d available", ErrIncomplete, pduLength, len(packet))
	}
	if pduLength != len(packet) {
		return pdu, fmt.Errorf("%w: error verifying PDU sanity: got %d expected %d",
			ErrInvalidLength, len(packet), pduLength)
	}
	trap := &TrapV1{}

	rawEnterprise, count, err := parseRawField(d.Logger, packet[cursor:], "enterprise")
	if err != nil {
		return pdu, fmt.Errorf("error parsing SNMP packet enterprise: %w", err)
	}
	cursor += count
	enterprise, ok := rawEnterprise.(Oid)
	if !ok {
		return pdu, fmt.Errorf("%w: enterprise is not an OID", ErrInvalidTag)
	}
	trap.Enterprise = enterprise

	rawAgentAddress, count, err := parseRawField(d.Logger, packet[cursor:], "agent address")
	if err != nil {
		return pdu, fmt.Errorf("error parsing SNMP packet agent address: %w", err)
	}
	cursor += count
	switch addr := rawAgentAddress.(type) {
	case net.IP:
		trap.AgentAddr = addr
	case []byte:
		// some v1 firmware tags the address as a plain OCTET STRING
		if len(addr) != 4 {
			return pdu, fmt.Errorf("%w: agent address with %d bytes, need 4", ErrInvalidLength, len(addr))
		}
		trap.AgentAddr = net.IP(addr)
	default:
		return pdu, fmt.Errorf("%w: agent address is not an IpAddress", ErrInvalidTag)
	}

	rawGenericTrap, count, err := parseRawField(d.Logger, packet[cursor:], "generic-trap")
	if err != nil {
		return pdu, fmt.Errorf("error parsing SNMP packet generic-trap: %w", err)
	}
	cursor += count
	genericTrap, err := toInt32(rawGenericTrap, "generic-trap")
	if err != nil {
		return pdu, err
	}
	trap.GenericTrap = TrapType(genericTrap)

	rawSpecificTrap, count, err := parseRawField(d.Logger, packet[cursor:], "specific-trap")
	if err != nil {
		return pdu, fmt.Errorf("error parsing SNMP packet specific-trap: %w", err)
	}
	cursor += count
	trap.SpecificTrap, err = toInt32(rawSpecificTrap, "specific-trap")
	if err != nil {
		return pdu, err
	}

	rawTimestamp, count, err := parseRawField(d.Logger, packet[cursor:], "time stamp")
	if err != nil {
		return pdu, fmt.Errorf("error parsing SNMP packet time stamp: %w", err)
	}
	cursor += count
	switch ts := rawTimestamp.(type) {
	case uint32:
		trap.Timestamp = ts
	case int:
		// RFC 1157 says TimeTicks but plain INTEGER shows up in the wild
		if ts < 0 || int64(ts) > math.MaxUint32 {
			return pdu, fmt.Errorf("%w: time stamp out of range", ErrInvalidValue)
		}
		trap.Timestamp = uint32(ts)
	default:
		return pdu, fmt.Errorf("%w: time stamp is not TimeTicks", ErrInvalidTag)
	}

	pdu.Trap = trap
	pdu.VarBinds, err = d.decodeVarBindList(packet[cursor:], depth+1)
	return pdu, err
}
