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

package transport

import (
	"fmt"
	"sync"

	"go.bug.st/serial"

	"github.com/sabouaram/connmux/connection"
)

// serialTransport drives a single RS232-style device at a fixed 8-N-1 line
// discipline. Non-blocking reads are emulated through the port's own read
// timeout; no hardware flow control is requested.
type serialTransport struct {
	mu        sync.Mutex
	cfg       connection.SerialConfig
	port      serial.Port
	connected bool
}

// NewSerial builds the Serial transport variant for cfg. Connect must be
// called before Read/Write.
func NewSerial(cfg connection.SerialConfig) Transport {
	return &serialTransport{cfg: cfg}
}

func (s *serialTransport) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	mode := &serial.Mode{
		BaudRate: int(s.cfg.Baud),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(s.cfg.Port, mode)
	if err != nil {
		return connection.ErrorConnectFailed.Error(fmt.Errorf("open %s: %w", s.cfg.Port, err))
	}

	if err = p.SetReadTimeout(DefaultReadTimeout); err != nil {
		_ = p.Close()
		return connection.ErrorConnectFailed.Error(fmt.Errorf("set read timeout: %w", err))
	}

	s.port = p
	s.connected = true
	return nil
}

func (s *serialTransport) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected || s.port == nil {
		s.connected = false
		return nil
	}

	err := s.port.Close()
	s.port = nil
	s.connected = false

	if err != nil {
		return connection.ErrorIoFailed.Error(err)
	}
	return nil
}

func (s *serialTransport) Read(buf []byte) (int, error) {
	s.mu.Lock()
	p := s.port
	connected := s.connected
	s.mu.Unlock()

	if !connected || p == nil {
		return 0, connection.ErrorIoFailed.Error(fmt.Errorf("read on disconnected serial transport"))
	}

	n, err := p.Read(buf)
	if err != nil {
		return 0, connection.ErrorIoFailed.Error(err)
	}

	// go.bug.st/serial returns (0, nil) on its own read-timeout window, which
	// is exactly the "no bytes available" contract required of Transport.
	return n, nil
}

func (s *serialTransport) Write(buf []byte) error {
	s.mu.Lock()
	p := s.port
	connected := s.connected
	s.mu.Unlock()

	if !connected || p == nil {
		return connection.ErrorIoFailed.Error(fmt.Errorf("write on disconnected serial transport"))
	}

	for written := 0; written < len(buf); {
		n, err := p.Write(buf[written:])
		if err != nil {
			return connection.ErrorIoFailed.Error(err)
		}
		written += n
	}

	return nil
}

func (s *serialTransport) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.connected
}
