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

package worker

import "sync"

// EventKind discriminates the two control events a worker's inbox carries.
type EventKind uint8

const (
	// EventWrite asks the worker to forward Data to its transport.
	EventWrite EventKind = iota + 1
	// EventStop asks the worker to disconnect and terminate. Once observed,
	// no later EventWrite is forwarded.
	EventStop
)

// Event is one control-channel entry.
type Event struct {
	Kind EventKind
	Data []byte
}

// inbox is an unbounded, single-consumer queue of control Events. Enqueue
// never blocks the caller, matching write_bytes/stop_connection's contract
// of returning as soon as the event has been accepted, never waiting on the
// worker to drain it. Ordering is FIFO per enqueuing goroutine.
type inbox struct {
	mu     sync.Mutex
	queue  []Event
	closed bool
}

func newInbox() *inbox {
	return &inbox{}
}

// push appends ev to the queue. A push after close is a no-op: the worker
// has already committed to stopping.
func (b *inbox) push(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.queue = append(b.queue, ev)
}

// drainNonBlocking pops every currently queued event without waiting. It is
// used by the worker's read loop to service writes within a single
// read-timeout period without starving on an empty inbox.
func (b *inbox) drainNonBlocking() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return nil
	}

	out := b.queue
	b.queue = nil
	return out
}

// close marks the inbox orphaned: further push calls are discarded.
func (b *inbox) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
}
