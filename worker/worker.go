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

// Package worker hosts one Transport per live connection and bridges it to
// the rest of the system: inbound bytes are published to a bus.Bus, outbound
// bytes and termination arrive as control events enqueued by the Manager.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sabouaram/connmux/bus"
	"github.com/sabouaram/connmux/connection"
	"github.com/sabouaram/connmux/runner/startStop"
	"github.com/sabouaram/connmux/transport"
)

// State is the worker's position in the Starting -> Running -> Stopped
// machine. It only ever moves forward.
type State uint8

const (
	StateStarting State = iota + 1
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const readBufferSize = 4096

// Worker owns exactly one Transport for the lifetime of one connection.
type Worker struct {
	id  connection.ID
	tr  transport.Transport
	bus *bus.Bus
	in  *inbox
	sr  startStop.StartStop

	state    atomic.Uint32
	mu       sync.Mutex
	lastErr  error
	teardown sync.Once
}

// New builds a worker for id, bound to tr, publishing inbound chunks on a
// bus sized to capacity (0 selects bus.DefaultCapacity). The worker starts
// in StateStarting; call Start to connect and begin serving.
func New(id connection.ID, tr transport.Transport, capacity int) *Worker {
	w := &Worker{
		id:  id,
		tr:  tr,
		bus: bus.New(capacity),
		in:  newInbox(),
	}
	w.state.Store(uint32(StateStarting))
	w.sr = startStop.New(w.loop, w.onStopped)
	return w
}

// Start connects the transport synchronously so configuration/connect
// failures are reported to the caller immediately, then launches the
// read/control loop in the background. On failure the worker is left in
// StateStopped and is not registerable.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.tr.Connect(); err != nil {
		w.state.Store(uint32(StateStopped))
		w.setErr(err)
		return err
	}

	w.state.Store(uint32(StateRunning))
	return w.sr.Start(ctx)
}

// loop is the startStop start-function: it owns the transport until a Stop
// event is observed, an unrecoverable transport error occurs, or ctx is
// cancelled (orphaned Manager). Whatever the cause, the transport is
// disconnected and the bus is closed exactly once before loop returns, so
// termination is uniform regardless of which of the three causes applied.
func (w *Worker) loop(ctx context.Context) error {
	buf := make([]byte, readBufferSize)

	defer w.disconnectAndClose()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := w.tr.Read(buf)
		if err != nil {
			w.setErr(err)
			return err
		}
		if n > 0 {
			w.bus.Publish(buf[:n])
		}

		stop, err := w.drainControl()
		if err != nil {
			w.setErr(err)
			return err
		}
		if stop {
			return nil
		}
	}
}

// drainControl services every control event currently queued, in order.
// Stop priority: once EventStop is seen, remaining queued events (including
// any later Write) are discarded.
func (w *Worker) drainControl() (stop bool, err error) {
	for _, ev := range w.in.drainNonBlocking() {
		switch ev.Kind {
		case EventStop:
			return true, nil
		case EventWrite:
			if werr := w.tr.Write(ev.Data); werr != nil {
				return false, werr
			}
		}
	}
	return false, nil
}

// disconnectAndClose performs the actual termination actions exactly once,
// however loop came to return: disconnect the transport, close the
// broadcast bus so subscribers observe end-of-stream, and mark the worker
// Stopped.
func (w *Worker) disconnectAndClose() {
	w.teardown.Do(func() {
		w.in.close()
		if err := w.tr.Disconnect(); err != nil {
			w.setErr(err)
		}
		w.bus.Close()
		w.state.Store(uint32(StateStopped))
	})
}

// onStopped is the startStop stop-function. By the time it runs, Stop has
// already cancelled loop's context and waited for loop (and its deferred
// disconnectAndClose) to finish, so this only surfaces the worker's last
// recorded error into the runner's own error history.
func (w *Worker) onStopped(_ context.Context) error {
	return w.LastError()
}

// Enqueue posts a control event. It never blocks and never fails: a closed
// or orphaned worker silently drops the event, which is indistinguishable
// from the event racing a Stop already in flight.
func (w *Worker) Enqueue(ev Event) {
	w.in.push(ev)
}

// Stop requests termination; best-effort, idempotent, returns once the
// event has been enqueued (not once the worker has actually stopped).
func (w *Worker) Stop() {
	w.in.push(Event{Kind: EventStop})
}

// Shutdown forcibly tears the worker down, used when the Manager itself is
// being dropped: every worker's control context is cancelled so none are
// left running after the Manager goes away, independent of whether a Stop
// event was ever enqueued.
func (w *Worker) Shutdown(ctx context.Context) error {
	return w.sr.Stop(ctx)
}

// Subscribe returns a fresh receiver observing chunks published from this
// point forward.
func (w *Worker) Subscribe() (bus.Receiver, error) {
	r, err := w.bus.Subscribe()
	if err != nil {
		return nil, err
	}
	return r, nil
}

// State reports the worker's current position in its state machine.
func (w *Worker) State() State {
	return State(w.state.Load())
}

// LastError returns the error, if any, that drove the worker to
// StateStopped. It is nil for a graceful Stop.
func (w *Worker) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Worker) setErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastErr = err
}
