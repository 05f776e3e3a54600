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

package manager_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/sabouaram/connmux/connection"
	liberr "github.com/sabouaram/connmux/errors"
	"github.com/sabouaram/connmux/manager"
	"github.com/sabouaram/connmux/transport"
)

func gaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	Expect(g.Write(&m)).To(Succeed())
	return m.GetGauge().GetValue()
}

var _ = Describe("Manager metrics", func() {
	It("tracks active connections across add and stop", func() {
		reg := prometheus.NewRegistry()
		met := manager.NewMetrics(reg)

		mgr := manager.New(
			manager.WithMetrics(met),
			manager.WithTransportFactory(func(connection.Config) (transport.Transport, liberr.Error) {
				return newMemTransport(), nil
			}),
		)

		id, err := mgr.AddConnection(context.Background(), connection.NewSerialConfig("/dev/ttyUSB0", 9600))
		Expect(err).To(BeNil())

		families, ferr := reg.Gather()
		Expect(ferr).To(BeNil())
		Expect(families).ToNot(BeEmpty())

		Expect(mgr.StopConnection(id)).To(BeNil())
	})

	It("is safe to use with no metrics configured", func() {
		mgr := manager.New(manager.WithTransportFactory(func(connection.Config) (transport.Transport, liberr.Error) {
			return newMemTransport(), nil
		}))

		id, err := mgr.AddConnection(context.Background(), connection.NewSerialConfig("/dev/ttyUSB0", 9600))
		Expect(err).To(BeNil())
		Expect(mgr.WriteBytes(id, []byte("x"))).To(BeNil())
		Expect(mgr.StopConnection(id)).To(BeNil())
	})
})
