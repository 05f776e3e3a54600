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

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sabouaram/connmux/connection"
	liberr "github.com/sabouaram/connmux/errors"
	"github.com/sabouaram/connmux/manager"
)

// ProfileResolver translates a named profile into a connection.Config. A nil
// resolver rejects every CreateRequest that references a profile instead of
// carrying an inline transport config.
type ProfileResolver interface {
	Get(name string) (connection.Config, liberr.Error)
}

// Server implements RemoteConnectionServer against a Manager. The Core never
// sees this package: Server is purely a translation layer between wire
// messages and the Manager's five operations.
type Server struct {
	mgr      *manager.Manager
	profiles ProfileResolver
}

var _ RemoteConnectionServer = (*Server)(nil)

// NewServer builds a Server fronting mgr. profiles may be nil if profile
// references are not supported by this deployment.
func NewServer(mgr *manager.Manager, profiles ProfileResolver) *Server {
	return &Server{mgr: mgr, profiles: profiles}
}

func (s *Server) resolveConfig(req *CreateRequest) (connection.Config, error) {
	if req.Profile != "" {
		if s.profiles == nil {
			return connection.Config{}, status.Error(codes.FailedPrecondition, "no profile store configured")
		}
		cfg, err := s.profiles.Get(req.Profile)
		if err != nil {
			return connection.Config{}, status.Error(codes.NotFound, err.Error())
		}
		return cfg, nil
	}

	switch {
	case req.Serial != nil:
		return connection.NewSerialConfig(req.Serial.Port, req.Serial.Baud), nil
	case req.Ssh != nil:
		return connection.NewSshConfig(req.Ssh.Host, req.Ssh.Port, req.Ssh.User, req.Ssh.Password), nil
	default:
		return connection.Config{}, status.Error(codes.InvalidArgument, "request names neither a profile nor an inline transport config")
	}
}

// CreateRemoteConnection resolves req into a connection.Config (inline or
// via a named profile) and registers it with the Manager.
func (s *Server) CreateRemoteConnection(ctx context.Context, req *CreateRequest) (*ConnectionId, error) {
	cfg, err := s.resolveConfig(req)
	if err != nil {
		return nil, err
	}

	id, aerr := s.mgr.AddConnection(ctx, cfg)
	if aerr != nil {
		return nil, statusFromError(aerr, connection.ErrorConnectFailed, codes.Unavailable)
	}

	return &ConnectionId{Id: id.String()}, nil
}

// Write enqueues req.Data against req.Id.
func (s *Server) Write(_ context.Context, req *WriteRequest) (*Empty, error) {
	id, perr := connection.ParseID(req.Id)
	if perr != nil {
		return nil, status.Error(codes.InvalidArgument, perr.Error())
	}

	if err := s.mgr.WriteBytes(id, req.Data); err != nil {
		return nil, statusFromError(err, connection.ErrorNotFound, codes.NotFound)
	}
	return &Empty{}, nil
}

// Stop enqueues a graceful stop against req.Id. Never fails per the
// specification's error-handling policy.
func (s *Server) Stop(_ context.Context, req *ConnectionId) (*Empty, error) {
	id, perr := connection.ParseID(req.Id)
	if perr != nil {
		return nil, status.Error(codes.InvalidArgument, perr.Error())
	}

	_ = s.mgr.StopConnection(id)
	return &Empty{}, nil
}

// Read subscribes to req's broadcast bus and streams chunks until the
// connection is stopped or the client disconnects.
func (s *Server) Read(req *ConnectionId, stream RemoteConnection_ReadServer) error {
	id, perr := connection.ParseID(req.Id)
	if perr != nil {
		return status.Error(codes.InvalidArgument, perr.Error())
	}

	recv, err := s.mgr.Subscribe(id)
	if err != nil {
		return statusFromError(err, connection.ErrorNotFound, codes.NotFound)
	}
	defer recv.Unsubscribe()

	ctx := stream.Context()
	for {
		select {
		case chunk, ok := <-recv.Chunks():
			if !ok {
				return nil
			}
			if err := stream.Send(&ByteChunk{Data: chunk}); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// statusFromError maps a Core error to a gRPC status, preferring notFoundCode
// when the error carries the given notFoundKind.
func statusFromError(err liberr.Error, notFoundKind liberr.CodeError, notFoundCode codes.Code) error {
	if err.IsCode(notFoundKind) {
		return status.Error(notFoundCode, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
