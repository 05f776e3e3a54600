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
)

// serviceName is the fully qualified gRPC service name advertised by the
// hand-authored descriptor below. There is no .proto-generated registry
// behind it; remote_connection.proto in this package documents the wire
// shapes for anyone writing a non-Go client.
const serviceName = "connmux.RemoteConnection"

// RemoteConnectionServer is the contract a gRPC server implementation must
// satisfy. Server in this package is the Manager-backed implementation.
type RemoteConnectionServer interface {
	CreateRemoteConnection(context.Context, *CreateRequest) (*ConnectionId, error)
	Write(context.Context, *WriteRequest) (*Empty, error)
	Stop(context.Context, *ConnectionId) (*Empty, error)
	Read(*ConnectionId, RemoteConnection_ReadServer) error
}

// RemoteConnection_ReadServer is the server-side handle for the
// server-streaming Read RPC.
type RemoteConnection_ReadServer interface {
	Send(*ByteChunk) error
	grpc.ServerStream
}

type remoteConnectionReadServer struct {
	grpc.ServerStream
}

func (x *remoteConnectionReadServer) Send(m *ByteChunk) error {
	return x.ServerStream.SendMsg(m)
}

func remoteConnectionCreateRemoteConnectionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RemoteConnectionServer).CreateRemoteConnection(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/CreateRemoteConnection"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RemoteConnectionServer).CreateRemoteConnection(ctx, req.(*CreateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func remoteConnectionWriteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(WriteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RemoteConnectionServer).Write(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Write"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RemoteConnectionServer).Write(ctx, req.(*WriteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func remoteConnectionStopHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ConnectionId)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RemoteConnectionServer).Stop(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Stop"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RemoteConnectionServer).Stop(ctx, req.(*ConnectionId))
	}
	return interceptor(ctx, in, info, handler)
}

func remoteConnectionReadHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(ConnectionId)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(RemoteConnectionServer).Read(m, &remoteConnectionReadServer{stream})
}

// ServiceDesc is the hand-authored gRPC service descriptor for
// RemoteConnection, registered against a *grpc.Server with
// RegisterRemoteConnectionServer.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RemoteConnectionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateRemoteConnection", Handler: remoteConnectionCreateRemoteConnectionHandler},
		{MethodName: "Write", Handler: remoteConnectionWriteHandler},
		{MethodName: "Stop", Handler: remoteConnectionStopHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Read", Handler: remoteConnectionReadHandler, ServerStreams: true},
	},
	Metadata: "rpc/remote_connection.proto",
}

// RegisterRemoteConnectionServer registers srv against s under ServiceDesc.
func RegisterRemoteConnectionServer(s *grpc.Server, srv RemoteConnectionServer) {
	s.RegisterService(&ServiceDesc, srv)
}
