/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package transport hides the differences between the physical channels the
// connection manager can drive: serial ports and interactive SSH shells.
// Every variant is synchronous and may block; isolating that blocking
// behaviour behind this contract is what lets the I/O worker run each
// transport on a dedicated goroutine without leaking blocking calls into the
// rest of the program.
package transport

import (
	"time"

	"github.com/sabouaram/connmux/connection"
	"github.com/sabouaram/connmux/errors"
)

// DefaultReadTimeout bounds how long a single Read call may block before
// returning zero bytes with no error. It keeps the worker responsive to
// control events even against a transport with no pending data.
const DefaultReadTimeout = 100 * time.Millisecond

// Transport is the behavioural contract implemented by every connection
// variant. All four operations are synchronous and may block.
//
//   - Connect is called exactly once before any Read/Write.
//   - Disconnect is idempotent.
//   - Read returns the number of bytes placed into buf; 0 means "no bytes
//     available within the read timeout", not EOF. A transport-terminating
//     condition is reported as an error.
//   - Write writes the entire buffer or fails.
type Transport interface {
	// Connect establishes the underlying channel. Failure leaves the
	// transport disconnected and returns a structured error.
	Connect() error

	// Disconnect releases the underlying handle. Safe to call more than
	// once and safe to call without a prior successful Connect.
	Disconnect() error

	// Read attempts to fill buf, honouring a short implementation-defined
	// timeout. A timeout with no data returns (0, nil).
	Read(buf []byte) (int, error)

	// Write blocks until the entire buffer has been accepted.
	Write(buf []byte) error

	// IsConnected reports whether Connect has succeeded and Disconnect has
	// not yet been called.
	IsConnected() bool
}

// New builds the Transport variant selected by cfg.Kind.
func New(cfg connection.Config) (Transport, errors.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case connection.KindSerial:
		return NewSerial(*cfg.Serial), nil
	case connection.KindSsh:
		return NewSsh(*cfg.Ssh), nil
	default:
		return nil, connection.ErrorConfig.Error(nil)
	}
}
