// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

//go:build snmpwire_nodebug

package snmpwire

// Build with the snmpwire_nodebug tag to compile all decode tracing out.

func (l *Logger) Print(v ...any) {
}

func (l *Logger) Printf(format string, v ...any) {
}

func (l *Logger) Enabled() bool {
	return false
}
