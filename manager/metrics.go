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

package manager

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the optional operational counters an operator can scrape.
// A Manager built without WithMetrics leaves every field nil and every
// recorder a no-op.
type metrics struct {
	connectionsTotal   *prometheus.CounterVec
	connectFailedTotal *prometheus.CounterVec
	activeConnections  prometheus.Gauge
	bytesWritten       prometheus.Counter
}

// NewMetrics builds the Manager's Prometheus collectors and registers them
// against reg. Pass the result to WithMetrics at construction time.
func NewMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		connectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connmux_connections_total",
			Help: "Connections added, labelled by transport kind.",
		}, []string{"kind"}),
		connectFailedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connmux_connect_failed_total",
			Help: "Connect attempts that failed, labelled by transport kind.",
		}, []string{"kind"}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "connmux_active_connections",
			Help: "Connections currently registered with the manager.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "connmux_bytes_written_total",
			Help: "Bytes enqueued for transport write across every connection.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.connectionsTotal, m.connectFailedTotal, m.activeConnections, m.bytesWritten)
	}

	return m
}

// WithMetrics attaches a pre-built metrics collector so Manager operations
// update it. A nil argument disables instrumentation (the default).
func WithMetrics(m *metrics) Option {
	return func(mgr *Manager) { mgr.metrics = m }
}

func (m *metrics) connectionAdded(kind string) {
	if m == nil {
		return
	}
	m.connectionsTotal.WithLabelValues(kind).Inc()
	m.activeConnections.Inc()
}

func (m *metrics) connectFailed(kind string) {
	if m == nil {
		return
	}
	m.connectFailedTotal.WithLabelValues(kind).Inc()
}

func (m *metrics) connectionRemoved() {
	if m == nil {
		return
	}
	m.activeConnections.Dec()
}

func (m *metrics) wrote(n int) {
	if m == nil {
		return
	}
	m.bytesWritten.Add(float64(n))
}
