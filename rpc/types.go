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

// Package rpc exposes the connection Manager over gRPC as the
// RemoteConnection service. Messages are plain Go structs carried by the
// JSON codec in rpc/codec rather than generated protobuf types, since the
// wire shapes here are small and stable enough not to warrant a protoc step.
package rpc

// SerialRequest mirrors connection.SerialConfig on the wire.
type SerialRequest struct {
	Port string `json:"port"`
	Baud uint32 `json:"baud"`
}

// SshRequest mirrors connection.SshConfig on the wire.
type SshRequest struct {
	Host     string `json:"host"`
	Port     uint16 `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// CreateRequest is a tagged union over the supported transports, optionally
// extendable with a named Profile reference in place of inline credentials.
type CreateRequest struct {
	Profile string         `json:"profile,omitempty"`
	Serial  *SerialRequest `json:"serial,omitempty"`
	Ssh     *SshRequest    `json:"ssh,omitempty"`
}

// ConnectionId carries a connection.ID's textual form across the wire.
type ConnectionId struct {
	Id string `json:"id"`
}

// WriteRequest carries the bytes to enqueue against a live connection.
type WriteRequest struct {
	Id   string `json:"id"`
	Data []byte `json:"data"`
}

// ByteChunk is one element of the server-streaming Read response.
type ByteChunk struct {
	Data []byte `json:"data"`
}

// Empty is the response shape for RPCs with nothing to return beyond
// success.
type Empty struct{}
