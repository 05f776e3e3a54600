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

package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/sabouaram/connmux/bus"
	"github.com/sabouaram/connmux/connection"
	"github.com/sabouaram/connmux/console"
	"github.com/sabouaram/connmux/manager"
	"github.com/sabouaram/connmux/shell/tty"
)

// escapeLeader and escapeFollower form the Ctrl+A x sequence that requests
// a graceful stop from the keyboard, mirroring the terminal multiplexers
// this front-end's authors are most often found driving.
const (
	escapeLeader   = 0x01 // Ctrl+A
	escapeFollower = 'x'
)

var printError = console.ColorPrint

func init() {
	console.SetColor(console.ColorPrint, int(color.FgRed), int(color.Bold))
}

// relay owns stdin/stdout for the duration of one session: it prints every
// inbound chunk as it arrives and forwards every keystroke as a Write,
// watching for the escape sequence that triggers a graceful stop. It
// returns once the subscriber observes end-of-stream (the worker stopped)
// or the escape sequence fires.
func relay(mgr *manager.Manager, id connection.ID, recv bus.Receiver) error {
	saver, _ := tty.New(os.Stdin, true)
	if err := saver.Raw(); err != nil {
		return err
	}
	defer tty.Restore(saver)

	done := make(chan struct{})
	go printInbound(recv, done)

	go readKeystrokes(mgr, id)

	<-done
	return nil
}

// printInbound writes every chunk received on recv to stdout until the bus
// closes, then signals done.
func printInbound(recv bus.Receiver, done chan<- struct{}) {
	defer close(done)

	for chunk := range recv.Chunks() {
		_, _ = os.Stdout.Write(chunk)
	}
}

// readKeystrokes reads stdin one byte at a time, forwarding each to the
// connection as a Write, until the Ctrl+A x escape sequence is seen or
// stdin closes.
func readKeystrokes(mgr *manager.Manager, id connection.ID) {
	buf := make([]byte, 1)
	leaderSeen := false

	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			mgr.StopConnection(id) //nolint:errcheck // Stop never fails
			return
		}

		b := buf[0]

		if leaderSeen {
			leaderSeen = false
			if b == escapeFollower {
				_ = mgr.StopConnection(id)
				return
			}
		}

		if b == escapeLeader {
			leaderSeen = true
			continue
		}

		if err := mgr.WriteBytes(id, []byte{b}); err != nil {
			return
		}
	}
}
