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

package transport

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/sabouaram/connmux/connection"
)

const sshDialTimeout = 10 * time.Second

// sshReadResult is one outcome of a blocking Read against the remote
// session's stdout stream, fed into sshTransport.inbound by a dedicated
// pump goroutine so that sshTransport.Read can honour a short timeout even
// though ssh.Session offers no read-deadline of its own.
type sshReadResult struct {
	n   int
	buf []byte
	err error
}

// sshTransport drives one interactive shell channel over SSH, authenticated
// with a username and password. Key-based authentication is a named future
// extension (see DESIGN.md), not supported here.
type sshTransport struct {
	mu  sync.Mutex
	cfg connection.SshConfig

	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser

	inbound chan sshReadResult
	closed  chan struct{}
	once    sync.Once

	connected bool
}

// NewSsh builds the Ssh transport variant for cfg. Connect must be called
// before Read/Write.
func NewSsh(cfg connection.SshConfig) Transport {
	return &sshTransport{cfg: cfg}
}

func (s *sshTransport) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	cfg := &ssh.ClientConfig{
		User:            s.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(s.cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // interactive terminal tool, no known_hosts store yet
		Timeout:         sshDialTimeout,
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))

	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return connection.ErrorConnectFailed.Error(fmt.Errorf("dial %s: %w", addr, err))
	}

	session, err := client.NewSession()
	if err != nil {
		_ = client.Close()
		return connection.ErrorConnectFailed.Error(fmt.Errorf("open session: %w", err))
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}

	if err = session.RequestPty("xterm", 24, 80, modes); err != nil {
		_ = session.Close()
		_ = client.Close()
		return connection.ErrorConnectFailed.Error(fmt.Errorf("request pty: %w", err))
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		_ = session.Close()
		_ = client.Close()
		return connection.ErrorConnectFailed.Error(fmt.Errorf("stdin pipe: %w", err))
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		_ = session.Close()
		_ = client.Close()
		return connection.ErrorConnectFailed.Error(fmt.Errorf("stdout pipe: %w", err))
	}

	if err = session.Shell(); err != nil {
		_ = session.Close()
		_ = client.Close()
		return connection.ErrorConnectFailed.Error(fmt.Errorf("start shell: %w", err))
	}

	s.client = client
	s.session = session
	s.stdin = stdin
	s.inbound = make(chan sshReadResult, 1)
	s.closed = make(chan struct{})
	s.connected = true

	go s.pump(stdout)

	return nil
}

// pump continuously reads from the remote stdout stream and forwards each
// result on s.inbound, giving Read something to select against with a
// timeout.
func (s *sshTransport) pump(r io.Reader) {
	for {
		buf := make([]byte, 4096)
		n, err := r.Read(buf)

		select {
		case s.inbound <- sshReadResult{n: n, buf: buf[:n], err: err}:
		case <-s.closed:
			return
		}

		if err != nil {
			return
		}
	}
}

func (s *sshTransport) Read(buf []byte) (int, error) {
	s.mu.Lock()
	inbound := s.inbound
	closed := s.closed
	connected := s.connected
	s.mu.Unlock()

	if !connected {
		return 0, connection.ErrorIoFailed.Error(fmt.Errorf("read on disconnected ssh transport"))
	}

	select {
	case res, ok := <-inbound:
		if !ok {
			return 0, connection.ErrorIoFailed.Error(io.EOF)
		}
		if res.err != nil {
			return 0, connection.ErrorIoFailed.Error(res.err)
		}
		n := copy(buf, res.buf)
		return n, nil
	case <-closed:
		return 0, connection.ErrorIoFailed.Error(fmt.Errorf("ssh transport closed"))
	case <-time.After(DefaultReadTimeout):
		return 0, nil
	}
}

func (s *sshTransport) Write(buf []byte) error {
	s.mu.Lock()
	stdin := s.stdin
	connected := s.connected
	s.mu.Unlock()

	if !connected || stdin == nil {
		return connection.ErrorIoFailed.Error(fmt.Errorf("write on disconnected ssh transport"))
	}

	for written := 0; written < len(buf); {
		n, err := stdin.Write(buf[written:])
		if err != nil {
			return connection.ErrorIoFailed.Error(err)
		}
		written += n
	}

	return nil
}

func (s *sshTransport) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	s.once.Do(func() {
		close(s.closed)
	})

	var firstErr error
	if s.session != nil {
		if err := s.session.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.client != nil {
		if err := s.client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.connected = false
	s.session = nil
	s.client = nil
	s.stdin = nil

	if firstErr != nil {
		return connection.ErrorIoFailed.Error(firstErr)
	}
	return nil
}

func (s *sshTransport) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.connected
}
