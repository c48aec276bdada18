// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpwire

import "fmt"

// SnmpVersion 1, 2c and 3 implemented
type SnmpVersion uint8

// SnmpVersion 1, 2c and 3 implemented
const (
	Version1  SnmpVersion = 0x0
	Version2c SnmpVersion = 0x1
	Version3  SnmpVersion = 0x3
)

// String returns the friendly version string
func (s SnmpVersion) String() string {
	if s == Version1 {
		return "1"
	} else if s == Version2c {
		return "2c"
	}
	return "3"
}

// Asn1BER is the tag of a variable-binding value.
type Asn1BER byte

// Asn1BER's - http://www.ietf.org/rfc/rfc1442.txt
const (
	EndOfContents     Asn1BER = 0x00
	Boolean           Asn1BER = 0x01
	Integer           Asn1BER = 0x02
	BitString         Asn1BER = 0x03
	OctetString       Asn1BER = 0x04
	Null              Asn1BER = 0x05
	ObjectIdentifier  Asn1BER = 0x06
	ObjectDescription Asn1BER = 0x07
	IPAddress         Asn1BER = 0x40
	Counter32         Asn1BER = 0x41
	Gauge32           Asn1BER = 0x42
	TimeTicks         Asn1BER = 0x43
	Opaque            Asn1BER = 0x44
	NsapAddress       Asn1BER = 0x45
	Counter64         Asn1BER = 0x46
	Uinteger32        Asn1BER = 0x47
	OpaqueFloat       Asn1BER = 0x78
	OpaqueDouble      Asn1BER = 0x79
	NoSuchObject      Asn1BER = 0x80
	NoSuchInstance    Asn1BER = 0x81
	EndOfMibView      Asn1BER = 0x82
)

// String returns the RFC name of the value tag, or its hex form when the
// tag is outside the SNMP set.
func (t Asn1BER) String() string {
	switch t {
	case EndOfContents:
		return "EndOfContents"
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case BitString:
		return "BitString"
	case OctetString:
		return "OctetString"
	case Null:
		return "Null"
	case ObjectIdentifier:
		return "ObjectIdentifier"
	case ObjectDescription:
		return "ObjectDescription"
	case IPAddress:
		return "IPAddress"
	case Counter32:
		return "Counter32"
	case Gauge32:
		return "Gauge32"
	case TimeTicks:
		return "TimeTicks"
	case Opaque:
		return "Opaque"
	case NsapAddress:
		return "NsapAddress"
	case Counter64:
		return "Counter64"
	case Uinteger32:
		return "Uinteger32"
	case OpaqueFloat:
		return "OpaqueFloat"
	case OpaqueDouble:
		return "OpaqueDouble"
	case NoSuchObject:
		return "NoSuchObject"
	case NoSuchInstance:
		return "NoSuchInstance"
	case EndOfMibView:
		return "EndOfMibView"
	}
	return fmt.Sprintf("Unknown(%#x)", byte(t))
}

// PDUType describes which SNMP Protocol Data Unit is being decoded.
type PDUType byte

// The currently supported PDUType's
const (
	Sequence       PDUType = 0x30
	GetRequest     PDUType = 0xa0
	GetNextRequest PDUType = 0xa1
	GetResponse    PDUType = 0xa2
	SetRequest     PDUType = 0xa3
	Trap           PDUType = 0xa4 // v1
	GetBulkRequest PDUType = 0xa5
	InformRequest  PDUType = 0xa6
	SNMPv2Trap     PDUType = 0xa7 // v2c, v3
	Report         PDUType = 0xa8 // v3
)

func (t PDUType) String() string {
	switch t {
	case Sequence:
		return "Sequence"
	case GetRequest:
		return "GetRequest"
	case GetNextRequest:
		return "GetNextRequest"
	case GetResponse:
		return "GetResponse"
	case SetRequest:
		return "SetRequest"
	case Trap:
		return "Trap"
	case GetBulkRequest:
		return "GetBulkRequest"
	case InformRequest:
		return "InformRequest"
	case SNMPv2Trap:
		return "SNMPv2Trap"
	case Report:
		return "Report"
	}
	return fmt.Sprintf("Unknown(%#x)", byte(t))
}

// ErrorStatus is the value of the error-status field in a response PDU.
type ErrorStatus int32

// Error-status values from RFC 3416 section 3. Codes above GenErr are
// only sent by SNMPv2 and v3 entities.
const (
	NoError             ErrorStatus = iota // No error occurred
	TooBig                                 // The response would not fit a single message
	NoSuchName                             // A requested name was not found (v1)
	BadValue                               // A Set value did not match the object's syntax (v1)
	ReadOnly                               // An attempt was made to set a read-only variable (v1)
	GenErr                                 // An error not covered by a more specific code
	NoAccess                               // Access denied to the object
	WrongType                              // Set value has the wrong type for the object
	WrongLength                            // Set value has the wrong length for the object
	WrongEncoding                          // Set value has the wrong encoding for the object
	WrongValue                             // Set value is not possible for the object
	NoCreation                             // The variable does not exist and cannot be created
	InconsistentValue                      // Set value cannot be assigned at this time
	ResourceUnavailable                    // A required resource is not available
	CommitFailed                           // A Set commit failed
	UndoFailed                             // A Set undo failed after a commit failure
	AuthorizationError                     // An authorization check failed
	NotWritable                            // The variable cannot be written or created
	InconsistentName                       // The name does not exist and cannot be created now
)

func (e ErrorStatus) String() string {
	switch e {
	case NoError:
		return "NoError"
	case TooBig:
		return "TooBig"
	case NoSuchName:
		return "NoSuchName"
	case BadValue:
		return "BadValue"
	case ReadOnly:
		return "ReadOnly"
	case GenErr:
		return "GenErr"
	case NoAccess:
		return "NoAccess"
	case WrongType:
		return "WrongType"
	case WrongLength:
		return "WrongLength"
	case WrongEncoding:
		return "WrongEncoding"
	case WrongValue:
		return "WrongValue"
	case NoCreation:
		return "NoCreation"
	case InconsistentValue:
		return "InconsistentValue"
	case ResourceUnavailable:
		return "ResourceUnavailable"
	case CommitFailed:
		return "CommitFailed"
	case UndoFailed:
		return "UndoFailed"
	case AuthorizationError:
		return "AuthorizationError"
	case NotWritable:
		return "NotWritable"
	case InconsistentName:
		return "InconsistentName"
	}
	return "Unknown"
}

// TrapType is the generic-trap value carried by an SNMPv1 Trap-PDU.
type TrapType int32

// Generic trap values from RFC 1157 section 4.1.6.
const (
	ColdStart TrapType = iota
	WarmStart
	LinkDown
	LinkUp
	AuthenticationFailure
	EgpNeighborLoss
	EnterpriseSpecific // specific-trap carries the meaning
)

func (t TrapType) String() string {
	switch t {
	case ColdStart:
		return "ColdStart"
	case WarmStart:
		return "WarmStart"
	case LinkDown:
		return "LinkDown"
	case LinkUp:
		return "LinkUp"
	case AuthenticationFailure:
		return "AuthenticationFailure"
	case EgpNeighborLoss:
		return "EgpNeighborLoss"
	case EnterpriseSpecific:
		return "EnterpriseSpecific"
	}
	return "Unknown"
}
