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

package connection

import "github.com/sabouaram/connmux/errors"

// Error kinds surfaced by the connection manager and its workers. Config and
// ConnectFailed are returned synchronously from AddConnection; NotFound and
// Closed are returned synchronously from WriteBytes/Subscribe/StopConnection;
// IoFailed is recorded against a worker after a successful connect and is only
// observable through LastError.
const (
	ErrorConfig errors.CodeError = iota + errors.MinPkgConnection
	ErrorConnectFailed
	ErrorIoFailed
	ErrorNotFound
	ErrorClosed
)

func init() {
	errors.RegisterIdFctMessage(ErrorConfig, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorConfig:
		return "connection configuration is invalid or incomplete"
	case ErrorConnectFailed:
		return "transport failed to connect"
	case ErrorIoFailed:
		return "transport read or write failed after connect"
	case ErrorNotFound:
		return "connection id is not registered"
	case ErrorClosed:
		return "connection worker has already terminated"
	}

	return ""
}
