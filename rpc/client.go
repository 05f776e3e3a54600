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

package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/sabouaram/connmux/rpc/codec"
)

// RemoteConnectionClient is the client-side contract for RemoteConnection,
// mirroring RemoteConnectionServer.
type RemoteConnectionClient interface {
	CreateRemoteConnection(ctx context.Context, in *CreateRequest) (*ConnectionId, error)
	Write(ctx context.Context, in *WriteRequest) (*Empty, error)
	Stop(ctx context.Context, in *ConnectionId) (*Empty, error)
	Read(ctx context.Context, in *ConnectionId) (RemoteConnection_ReadClient, error)
}

// RemoteConnection_ReadClient is the client-side handle for the
// server-streaming Read RPC.
type RemoteConnection_ReadClient interface {
	Recv() (*ByteChunk, error)
	grpc.ClientStream
}

type remoteConnectionClient struct {
	cc *grpc.ClientConn
}

// NewRemoteConnectionClient builds a client against an established
// connection. Every call is forced onto the JSON content-subtype
// registered by rpc/codec; the server side resolves it through the same
// codec registry.
func NewRemoteConnectionClient(cc *grpc.ClientConn) RemoteConnectionClient {
	return &remoteConnectionClient{cc: cc}
}

func (c *remoteConnectionClient) CreateRemoteConnection(ctx context.Context, in *CreateRequest) (*ConnectionId, error) {
	out := new(ConnectionId)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/CreateRemoteConnection", in, out, grpc.CallContentSubtype(codec.Name)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *remoteConnectionClient) Write(ctx context.Context, in *WriteRequest) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Write", in, out, grpc.CallContentSubtype(codec.Name)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *remoteConnectionClient) Stop(ctx context.Context, in *ConnectionId) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Stop", in, out, grpc.CallContentSubtype(codec.Name)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *remoteConnectionClient) Read(ctx context.Context, in *ConnectionId) (RemoteConnection_ReadClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], "/"+serviceName+"/Read", grpc.CallContentSubtype(codec.Name))
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &remoteConnectionReadClient{stream}, nil
}

type remoteConnectionReadClient struct {
	grpc.ClientStream
}

func (x *remoteConnectionReadClient) Recv() (*ByteChunk, error) {
	m := new(ByteChunk)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
