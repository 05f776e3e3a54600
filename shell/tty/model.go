/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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
 */

// Package tty saves and restores a terminal's mode around a raw keystroke
// session, the way the local CLI front-end needs while it owns stdin to read
// individual keys instead of line-buffered input.
package tty

import (
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"
)

// TTYSaver is the contract Restore and SignalHandler operate against. Saver
// satisfies it; tests substitute mocks.
type TTYSaver interface {
	// Restore puts the terminal back into the mode it had before New, or is
	// a no-op if the underlying descriptor was never a terminal.
	Restore() error

	// IsTerminal reports whether the descriptor New was given is an actual
	// terminal (false for files, pipes, and in-memory readers).
	IsTerminal() bool
}

// Saver remembers a file descriptor's terminal state at the moment New was
// called, and optionally its raw-mode state once Raw has been entered.
type Saver struct {
	mu         sync.Mutex
	fd         int
	isTerminal bool
	state      *term.State
	restored   bool
}

// New inspects r (os.Stdin if nil) and, if it is a terminal, optionally
// installs a handler that restores it on SIGINT/SIGTERM. It does not itself
// switch the terminal to raw mode; call Raw for that once the caller is
// ready to read individual keystrokes.
func New(r io.Reader, withSignalHandler bool) (*Saver, error) {
	if r == nil {
		r = os.Stdin
	}

	s := &Saver{fd: -1}

	type fdGetter interface{ Fd() uintptr }
	if fg, ok := r.(fdGetter); ok {
		fd := int(fg.Fd())
		if term.IsTerminal(fd) {
			s.fd = fd
			s.isTerminal = true
		}
	}

	if withSignalHandler {
		SignalHandler(s)
	}

	return s, nil
}

// Raw switches the terminal into raw mode (no echo, no line buffering) and
// remembers its prior state so Restore can put it back. A no-op on a
// non-terminal descriptor.
func (s *Saver) Raw() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isTerminal {
		return nil
	}

	st, err := term.MakeRaw(s.fd)
	if err != nil {
		return err
	}

	s.state = st
	s.restored = false
	return nil
}

// Restore puts the terminal back into the mode captured by Raw. Safe to
// call more than once and safe to call without ever having entered raw
// mode.
func (s *Saver) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isTerminal || s.state == nil || s.restored {
		return nil
	}

	s.restored = true
	return term.Restore(s.fd, s.state)
}

// IsTerminal reports whether the descriptor given to New was an actual
// terminal.
func (s *Saver) IsTerminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isTerminal
}

// Restore calls s.Restore, tolerating a nil saver so deferred cleanup code
// never needs a nil check of its own.
func Restore(s TTYSaver) {
	if s == nil {
		return
	}
	_ = s.Restore()
}

// SignalHandler spawns a goroutine that restores s's terminal mode as soon
// as the process receives SIGINT or SIGTERM, then re-raises the signal to
// default handling so the process still exits. Tolerates a nil saver.
func SignalHandler(s TTYSaver) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-ch
		Restore(s)
		signal.Stop(ch)

		if p, err := os.FindProcess(os.Getpid()); err == nil {
			_ = p.Signal(sig)
		}
	}()
}
