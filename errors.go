// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpwire

import (
	"errors"
	"fmt"

	"github.com/snmpwire/snmpwire/ber"
)

// Decode failures wrap exactly one of these sentinels, so callers can
// classify any error from this package with errors.Is. The first three
// are shared with package ber: a truncated buffer reads the same whether
// the framing layer or the grammar layer notices it first.
var (
	// ErrIncomplete reports input that ends before a declared length is
	// satisfied. A caller feeding from a stream may retry with more bytes.
	ErrIncomplete = ber.ErrIncomplete

	// ErrInvalidLength reports a declared length that is inconsistent
	// with the remaining buffer or violates a fixed-size field, such as
	// an IpAddress that is not 4 bytes.
	ErrInvalidLength = ber.ErrInvalidLength

	// ErrInvalidValue reports a well-framed field whose content is
	// semantically illegal, such as a version outside {0, 1, 3} or an
	// object identifier with fewer than two arcs.
	ErrInvalidValue = ber.ErrInvalidValue

	// ErrInvalidTag reports a tag that matches no alternative expected
	// at its position in the message grammar.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrDepthExceeded reports constructed nesting beyond the decoder's
	// depth bound. See Decoder.MaxDepth.
	ErrDepthExceeded = errors.New("nesting depth exceeded")

	// ErrPrimitiveEngine marks errors that originated in the BER
	// primitive layer. The underlying ber category stays visible to
	// errors.Is through the same chain.
	ErrPrimitiveEngine = errors.New("primitive engine error")
)

// wrapPrimitive annotates an error surfaced by package ber without
// discarding its category.
func wrapPrimitive(err error) error {
	return fmt.Errorf("%w: %w", ErrPrimitiveEngine, err)
}
