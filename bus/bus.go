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

/*
Package bus fans a single stream of inbound byte chunks out to any number of
subscribers.

Unlike a plain Go channel, a Bus subscriber that falls behind never blocks the
publisher: each subscriber owns a small bounded queue, and once that queue is
full the oldest queued chunk is discarded to make room for the newest one. A
slow reader therefore loses history instead of stalling the one goroutine
reading the transport.

A Bus is cooperatively owned by its single publisher (the I/O worker driving
a connection's transport). Close marks end-of-stream: every subscriber's
channel is closed so ranging readers terminate naturally, and every
subsequent Subscribe is rejected.
*/
package bus

import (
	"sync"

	"github.com/sabouaram/connmux/errors"
)

// DefaultCapacity is the number of chunks a subscriber may hold before the
// bus starts dropping the oldest queued chunk to make room for the newest.
const DefaultCapacity = 1024

// Receiver is a single subscriber's view onto a Bus. Chunks arrives in
// publish order but may contain gaps if the receiver falls behind. The
// channel closes once the bus is closed.
type Receiver interface {
	// Chunks is the channel of inbound byte chunks. It is closed when the
	// publisher closes the bus.
	Chunks() <-chan []byte

	// Unsubscribe detaches the receiver from the bus. Safe to call more than
	// once; safe to call after the bus has already closed.
	Unsubscribe()
}

type subscriber struct {
	ch chan []byte
}

func (s *subscriber) Chunks() <-chan []byte {
	return s.ch
}

// Bus is a bounded, lag-tolerant broadcast channel. The zero value is not
// usable; construct one with New.
type Bus struct {
	mu       sync.Mutex
	capacity int
	nextID   uint64
	subs     map[uint64]*subscriber
	closed   bool
}

// New builds a Bus where each subscriber's queue holds up to capacity
// chunks before the oldest is dropped. A capacity of 0 or less falls back to
// DefaultCapacity.
func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Bus{
		capacity: capacity,
		subs:     make(map[uint64]*subscriber),
	}
}

// Subscribe attaches a new Receiver to the bus. It fails with a Closed error
// once the bus has been closed.
func (b *Bus) Subscribe() (Receiver, errors.Error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrorClosed.Error(nil)
	}

	s := &subscriber{ch: make(chan []byte, b.capacity)}
	id := b.nextID
	b.nextID++
	b.subs[id] = s

	return &receiver{bus: b, id: id, subscriber: s}, nil
}

// Publish delivers chunk to every current subscriber. It never blocks: a
// subscriber whose queue is full has its oldest queued chunk discarded to
// make room. Publish after Close is a silent no-op.
func (b *Bus) Publish(chunk []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	cp := make([]byte, len(chunk))
	copy(cp, chunk)

	for _, s := range b.subs {
		select {
		case s.ch <- cp:
		default:
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- cp:
			default:
			}
		}
	}
}

// Close signals end-of-stream to every subscriber and rejects further
// subscriptions. Safe to call more than once.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	for id, s := range b.subs {
		close(s.ch)
		delete(b.subs, id)
	}
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.subs[id]
	if !ok {
		return
	}

	delete(b.subs, id)
	close(s.ch)
}

type receiver struct {
	*subscriber
	bus  *Bus
	id   uint64
	once sync.Once
}

func (r *receiver) Unsubscribe() {
	r.once.Do(func() {
		r.bus.unsubscribe(r.id)
	})
}
