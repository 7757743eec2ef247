package server

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/niels/tinyhttpd/pkg/contenttype"
	"github.com/niels/tinyhttpd/pkg/logging"
	"github.com/niels/tinyhttpd/pkg/request"
	"github.com/niels/tinyhttpd/pkg/response"
	"github.com/rs/zerolog"
)

// handleConn owns conn for its whole life: read one request, answer it, close.
func (s *Server) handleConn(conn net.Conn, remote string) {
	status := response.StatusInternalServerError
	defer func() {
		s.closeConn(conn, remote, status)
	}()

	if d := s.cfg.ReadTimeoutDuration(); d > 0 {
		conn.SetReadDeadline(time.Now().Add(d))
	}

	// A failed or empty read still gets parsed so the client receives a 400
	raw, err := request.Read(conn)
	if err != nil {
		s.logger.Debug().Err(err).Str(logging.FieldRemote, remote).Msg("Failed to read request")
	}

	resp := s.serve(remote, raw)
	status = resp.StatusCode
	s.write(conn, remote, resp)
}

// serve turns raw request bytes into a response. It never panics.
func (s *Server) serve(remote string, raw []byte) (resp response.Response) {
	var req *request.Request
	defer func() {
		if r := recover(); r != nil {
			resp = response.Text(response.StatusInternalServerError)
			s.logRequest(zerolog.ErrorLevel, remote, req, resp, fmt.Errorf("panic: %v", r))
		}
	}()

	req, err := request.Parse(raw)
	if err != nil {
		resp = response.Text(response.StatusBadRequest)
		s.logRequest(zerolog.WarnLevel, remote, nil, resp, err)
		return resp
	}

	target, err := resolvePath(s.cfg.Root, req.Path)
	if err != nil {
		code := response.StatusBadRequest
		if errors.Is(err, ErrForbidden) {
			code = response.StatusForbidden
		}
		resp = response.Text(code)
		s.logRequest(zerolog.WarnLevel, remote, req, resp, err)
		return resp
	}

	data, err := s.loadFile(target)
	switch {
	case err == nil:
		resp = response.New(response.StatusOK, data, contenttype.Resolve(target))
		s.logRequest(zerolog.InfoLevel, remote, req, resp, nil)
	case errors.Is(err, ErrNotFound):
		resp = response.Text(response.StatusNotFound)
		s.logRequest(zerolog.WarnLevel, remote, req, resp, nil)
	default:
		resp = response.Text(response.StatusInternalServerError)
		s.logRequest(zerolog.ErrorLevel, remote, req, resp, err)
	}
	return resp
}

// rejectDrainTimeout caps how long a rejected connection is read before the 503 goes out
const rejectDrainTimeout = 200 * time.Millisecond

// reject answers a connection the dispatcher had no room for
func (s *Server) reject(conn net.Conn, remote string) {
	resp := response.Text(response.StatusServiceUnavailable)
	defer s.closeConn(conn, remote, resp.StatusCode)

	// Drain the request so closing doesn't reset the connection before the client reads
	drain := rejectDrainTimeout
	if d := s.cfg.ReadTimeoutDuration(); d > 0 && d < drain {
		drain = d
	}
	conn.SetReadDeadline(time.Now().Add(drain))
	request.Read(conn)

	s.logRequest(zerolog.WarnLevel, remote, nil, resp, nil)
	s.write(conn, remote, resp)
}

func (s *Server) write(conn net.Conn, remote string, resp response.Response) {
	if d := s.cfg.WriteTimeoutDuration(); d > 0 {
		conn.SetWriteDeadline(time.Now().Add(d))
	}
	if _, err := resp.WriteTo(conn); err != nil {
		s.logger.Debug().Err(err).Str(logging.FieldRemote, remote).Msg("Failed to write response")
	}
}

func (s *Server) closeConn(conn net.Conn, remote string, status int) {
	if err := conn.Close(); err != nil {
		s.logger.Debug().Err(err).Str(logging.FieldRemote, remote).Msg("Failed to close connection")
	}
	if s.tracker != nil {
		s.tracker.Close(remote, status)
	}
}

func (s *Server) logRequest(level zerolog.Level, remote string, req *request.Request, resp response.Response, err error) {
	event := s.logger.WithLevel(level).
		Str(logging.FieldRemote, remote).
		Int(logging.FieldStatus, resp.StatusCode)

	var method, path string
	if req != nil {
		method, path = req.Method, req.Path
		event = event.Str(logging.FieldMethod, method).Str(logging.FieldPath, path)
	}
	if err != nil {
		event = event.Err(err)
	}

	event.Msg(logging.RequestLine(remote, method, path, resp.Status()))
}
