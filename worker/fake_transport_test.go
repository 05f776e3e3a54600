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

package worker_test

import (
	"errors"
	"sync"
	"time"
)

// fakeTransport is an in-memory transport.Transport used to drive the
// worker's state machine deterministically in tests, without touching a
// real serial port or SSH session.
type fakeTransport struct {
	mu sync.Mutex

	connectErr error
	connected  bool

	inbound chan []byte

	writes   [][]byte
	writeErr error

	disconnects int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{inbound: make(chan []byte, 16)}
}

func (f *fakeTransport) Connect() error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.mu.Lock()
	f.connected = true
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.disconnects++
	return nil
}

func (f *fakeTransport) Read(buf []byte) (int, error) {
	select {
	case b, ok := <-f.inbound:
		if !ok {
			return 0, errors.New("transport closed")
		}
		return copy(buf, b), nil
	case <-time.After(10 * time.Millisecond):
		return 0, nil
	}
}

func (f *fakeTransport) Write(buf []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)

	f.mu.Lock()
	f.writes = append(f.writes, cp)
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeTransport) push(data []byte) {
	f.inbound <- data
}

func (f *fakeTransport) writtenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeTransport) disconnectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disconnects
}
