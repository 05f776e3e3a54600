/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop provides a small supervised goroutine: a pair of start/stop
// functions driven through an explicit lifecycle (Start, Stop, Restart) with
// uptime tracking and a bounded history of the errors either function returned.
package startStop

import (
	"context"
	"time"
)

// Func is the signature shared by a runner's start and stop functions.
// The context passed to the start function is cancelled when Stop is called;
// the context passed to the stop function bounds how long shutdown may take.
type Func func(ctx context.Context) error

// StartStop supervises a single long-running goroutine built from a start
// and a stop function. Start launches the goroutine in the background and
// returns immediately; failures from either function are recorded rather
// than returned, since the launch is asynchronous.
type StartStop interface {
	// Start launches the start function in a new goroutine if not already
	// running. It returns immediately; the result of the start function is
	// observable through ErrorsLast/ErrorsList.
	Start(ctx context.Context) error

	// Stop cancels the running start function and waits for the stop
	// function to complete, bounded by ctx. Idempotent: stopping an
	// already-stopped runner is a no-op.
	Stop(ctx context.Context) error

	// Restart stops then starts the runner. A no-op start is still started.
	Restart(ctx context.Context) error

	// IsRunning reports whether the start function is currently executing.
	IsRunning() bool

	// Uptime returns how long the runner has been running, zero if stopped.
	Uptime() time.Duration

	// ErrorsLast returns the most recently recorded error, nil if none.
	ErrorsLast() error

	// ErrorsList returns every recorded error in occurrence order.
	ErrorsList() []error
}

// New creates a StartStop runner around the given start and stop functions.
// A nil function is tolerated: invoking it records an "invalid start/stop
// function" error instead of panicking.
func New(start, stop Func) StartStop {
	return &runner{
		start: start,
		stop:  stop,
	}
}
