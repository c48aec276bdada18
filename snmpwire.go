// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package snmpwire decodes SNMP v1, v2c and v3 messages from their BER
// wire encoding into typed, immutable structures.
//
// The package is decode only. It never opens sockets, never resolves MIB
// names and never verifies or decrypts SNMPv3 security payloads; it is
// built for monitoring and intrusion-detection tools that must inspect
// SNMP traffic without trusting its source. Malformed or adversarial
// input is reported through errors, never a panic, and a failed decode
// returns no partial structure.
//
// Every entry point is a pure function of its input slice and safe for
// concurrent use. Decoded byte fields such as communities, octet-string
// values and engine IDs alias the input buffer rather than copying it;
// callers that retain a message after reusing the buffer must copy those
// fields first.
//
// Decoding accepts BER as real devices emit it. Non-canonical length
// forms are legal and common in the field, so no DER restrictions are
// imposed beyond the indefinite-length prohibition of RFC 3417.
package snmpwire

// DefaultMaxDepth is the constructed-nesting bound applied when
// Decoder.MaxDepth is zero. A legal SNMP message nests at most six
// levels, so the default leaves generous slack while still stopping
// crafted input long before the call stack is at risk.
const DefaultMaxDepth = 32

// Decoder carries decode configuration. The zero value is ready to use
// and is what the package-level Decode functions run with. A Decoder is
// read-only while decoding, so one instance may serve many goroutines.
type Decoder struct {
	// Logger receives decode tracing. The zero value logs nothing.
	Logger Logger

	// MaxDepth bounds the nesting of constructed values; decoding
	// returns ErrDepthExceeded beyond it. Zero or negative selects
	// DefaultMaxDepth.
	MaxDepth int
}

func (d *Decoder) maxDepth() int {
	if d.MaxDepth > 0 {
		return d.MaxDepth
	}
	return DefaultMaxDepth
}

//go:generate mockgen -destination=mocks/logger_mock.go -package=mocks -source=snmpwire.go

// Logger is an interface used for debugging. Both Print and
// Printf have the same interfaces as Package Log in the std library. The
// LoggerInterface is small to give you flexibility in how you do
// your debugging.
//
// For verbose decode tracing to stdout:
//
//	d := snmpwire.Decoder{Logger: snmpwire.NewLogger(log.New(os.Stdout, "", 0))}
type LoggerInterface interface {
	Print(v ...any)
	Printf(format string, v ...any)
}

type Logger struct {
	logger LoggerInterface
}

func NewLogger(logger LoggerInterface) Logger {
	return Logger{
		logger: logger,
	}
}
