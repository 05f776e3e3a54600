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

// Package manager implements the connection registry: the only entry point
// the rest of the system (CLI front-end, gRPC surface) is meant to use.
// Everything else in this module exists to serve these five operations.
package manager

import (
	"context"
	"sync"

	liblog "github.com/sabouaram/connmux/logger"
	loglvl "github.com/sabouaram/connmux/logger/level"

	"github.com/sabouaram/connmux/bus"
	"github.com/sabouaram/connmux/connection"
	"github.com/sabouaram/connmux/errors"
	errpool "github.com/sabouaram/connmux/errors/pool"
	"github.com/sabouaram/connmux/transport"
	"github.com/sabouaram/connmux/worker"
)

// transportFactory builds the Transport for a Config; swappable in tests so
// the registry's own logic can be exercised without a real serial port or
// SSH endpoint.
type transportFactory func(connection.Config) (transport.Transport, errors.Error)

// Manager owns every live connection's worker and mediates all access to
// it. The zero value is not usable; construct one with New.
type Manager struct {
	mu           sync.RWMutex
	reg          map[connection.ID]*worker.Worker
	log          liblog.Logger
	cap          int
	down         bool
	newTransport transportFactory
	metrics      *metrics
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithBusCapacity overrides the per-connection broadcast buffer capacity
// (see bus.DefaultCapacity).
func WithBusCapacity(n int) Option {
	return func(m *Manager) { m.cap = n }
}

// WithLogger attaches a logger used for lifecycle notices (connection
// added, connection removed, worker errors). A nil logger is silently
// ignored.
func WithLogger(log liblog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// withTransportFactory overrides how AddConnection builds a Transport from
// a Config. Unexported: intended for this package's own tests.
func withTransportFactory(f transportFactory) Option {
	return func(m *Manager) { m.newTransport = f }
}

// New builds an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		reg:          make(map[connection.ID]*worker.Worker),
		log:          liblog.New(context.Background()),
		newTransport: transport.New,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// AddConnection builds the transport described by cfg, connects it
// synchronously so configuration/dial errors are reported to the caller,
// spawns its worker already in the Running state, registers it, and returns
// its id. On failure nothing is registered.
func (m *Manager) AddConnection(ctx context.Context, cfg connection.Config) (connection.ID, errors.Error) {
	m.mu.RLock()
	down := m.down
	m.mu.RUnlock()
	if down {
		return connection.NilID, ErrorShutdown.Error(nil)
	}

	tr, err := m.newTransport(cfg)
	if err != nil {
		return connection.NilID, err
	}

	id := connection.NewID()
	w := worker.New(id, tr, m.cap)

	if cerr := w.Start(ctx); cerr != nil {
		m.log.Entry(loglvl.ErrorLevel, "connect failed").FieldAdd("id", id.String()).ErrorAdd(true, cerr).Log()
		m.metrics.connectFailed(cfg.Kind.String())
		return connection.NilID, connection.ErrorConnectFailed.Error(cerr)
	}

	m.mu.Lock()
	m.reg[id] = w
	m.mu.Unlock()

	m.metrics.connectionAdded(cfg.Kind.String())
	m.log.Entry(loglvl.InfoLevel, "connection added").FieldAdd("id", id.String()).Log()
	return id, nil
}

// Subscribe returns a fresh receiver observing chunks published by id's
// worker from this point forward. Fails with NotFound when id is absent.
func (m *Manager) Subscribe(id connection.ID) (bus.Receiver, errors.Error) {
	w, ok := m.lookup(id)
	if !ok {
		return nil, connection.ErrorNotFound.Error(nil)
	}

	r, err := w.Subscribe()
	if err != nil {
		return nil, connection.ErrorClosed.Error(err)
	}
	return r, nil
}

// WriteBytes enqueues a Write control event on id's worker. It returns as
// soon as the event has been accepted, without waiting for the transport
// write to complete.
func (m *Manager) WriteBytes(id connection.ID, data []byte) errors.Error {
	w, ok := m.lookup(id)
	if !ok {
		return connection.ErrorNotFound.Error(nil)
	}
	if w.State() == worker.StateStopped {
		return connection.ErrorClosed.Error(nil)
	}

	w.Enqueue(worker.Event{Kind: worker.EventWrite, Data: data})
	m.metrics.wrote(len(data))
	return nil
}

// StopConnection enqueues Stop on id's worker and eagerly removes it from
// the registry, so any subsequent lookup observes NotFound. Idempotent:
// stopping an unknown or already-stopped id is not an error.
func (m *Manager) StopConnection(id connection.ID) errors.Error {
	m.mu.Lock()
	w, ok := m.reg[id]
	if ok {
		delete(m.reg, id)
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}

	w.Stop()
	m.metrics.connectionRemoved()
	m.log.Entry(loglvl.InfoLevel, "connection stopped").FieldAdd("id", id.String()).Log()
	return nil
}

// ListConnections returns the ids currently registered. The result is a
// point-in-time snapshot.
func (m *Manager) ListConnections() []connection.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]connection.ID, 0, len(m.reg))
	for id := range m.reg {
		out = append(out, id)
	}
	return out
}

// Shutdown forcibly tears down every registered worker and marks the
// Manager closed to further AddConnection calls. Used at process shutdown
// so no worker is left running after the Manager itself goes away.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	m.down = true
	workers := make([]*worker.Worker, 0, len(m.reg))
	for id, w := range m.reg {
		workers = append(workers, w)
		delete(m.reg, id)
	}
	m.mu.Unlock()

	p := errpool.New()
	for _, w := range workers {
		p.Add(w.Shutdown(ctx))
		m.metrics.connectionRemoved()
	}

	if err := p.Error(); err != nil {
		m.log.Entry(loglvl.WarnLevel, "shutdown completed with errors").ErrorAdd(true, err).Log()
	}
}

func (m *Manager) lookup(id connection.ID) (*worker.Worker, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.reg[id]
	return w, ok
}
