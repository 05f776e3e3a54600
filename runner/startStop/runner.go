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

package startStop

import (
	"context"
	"errors"
	"sync"
	"time"
)

const maxErrorHistory = 32

type runner struct {
	mu sync.Mutex

	start Func
	stop  Func

	running bool
	started time.Time

	cancel context.CancelFunc
	done   chan struct{}

	errs []error
}

func (r *runner) recordError(err error) {
	if err == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.errs = append(r.errs, err)
	if len(r.errs) > maxErrorHistory {
		r.errs = r.errs[len(r.errs)-maxErrorHistory:]
	}
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()

	if r.running {
		cancel := r.cancel
		done := r.done
		r.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if done != nil {
			<-done
		}

		r.mu.Lock()
	}

	cctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	r.cancel = cancel
	r.done = done
	r.running = true
	r.started = time.Now()

	start := r.start
	r.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			r.mu.Lock()
			r.running = false
			r.started = time.Time{}
			r.mu.Unlock()
		}()

		if start == nil {
			r.recordError(errors.New("invalid start function"))
			<-cctx.Done()
			return
		}

		r.recordError(start(cctx))
	}()

	_ = ctx
	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}

	cancel := r.cancel
	done := r.done
	stop := r.stop
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}

	if stop == nil {
		err := errors.New("invalid stop function")
		r.recordError(err)
		return nil
	}

	err := stop(ctx)
	r.recordError(err)
	return nil
}

func (r *runner) Restart(ctx context.Context) error {
	_ = r.Stop(ctx)
	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.running
}

func (r *runner) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running || r.started.IsZero() {
		return 0
	}

	return time.Since(r.started)
}

func (r *runner) ErrorsLast() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.errs) == 0 {
		return nil
	}

	return r.errs[len(r.errs)-1]
}

func (r *runner) ErrorsList() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}
