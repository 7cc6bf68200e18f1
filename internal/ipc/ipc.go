package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	dialTimeout = 2 * time.Second
	connTimeout = 10 * time.Second
)

var (
	// ErrAlreadyRunning is returned when another daemon answers on the socket.
	ErrAlreadyRunning = errors.New("another daemon is already listening on the socket")
	// ErrUnavailable is returned when no daemon accepts the connection.
	ErrUnavailable = errors.New("daemon unavailable")
)

// Handler answers a single request.
type Handler func(ctx context.Context, req *Request) *Response

// SendRequest connects to the daemon, sends a request, and returns the response.
func SendRequest(ctx context.Context, socketPath string, req *Request) (*Response, error) {
	if runtime.GOOS == "windows" {
		return nil, errors.New("IPC not implemented for Windows yet")
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(connTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// Server serves requests on a unix socket.
type Server struct {
	socketPath string
	handler    Handler
	logger     *zap.Logger
	listener   net.Listener
	wg         sync.WaitGroup
}

// NewServer creates a server for socketPath.
func NewServer(socketPath string, handler Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{socketPath: socketPath, handler: handler, logger: logger}
}

// Listen binds the socket. It fails with ErrAlreadyRunning when another
// server answers on the same path, and replaces a stale socket file.
func (s *Server) Listen() error {
	if runtime.GOOS == "windows" {
		return errors.New("IPC server not implemented for Windows yet")
	}
	if s.listener != nil {
		return nil
	}

	if conn, err := net.DialTimeout("unix", s.socketPath, dialTimeout); err == nil {
		conn.Close()
		return ErrAlreadyRunning
	}
	// Remove any stale socket
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		ln.Close()
		return fmt.Errorf("failed to restrict socket permissions: %w", err)
	}
	s.listener = ln
	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))
	return nil
}

// Serve accepts connections until ctx is cancelled. It waits for in-flight
// requests before returning and removes the socket file.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	ln := s.listener
	defer os.Remove(s.socketPath)

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.wg.Wait()
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return err
			}
			s.logger.Warn("Failed to accept IPC connection", zap.Error(err))
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

// ListenAndServe is Listen followed by Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	var req Request
	if err := dec.Decode(&req); err != nil {
		if err := enc.Encode(Errorf("invalid request: %v", err)); err != nil {
			s.logger.Debug("Failed to write IPC response", zap.Error(err))
		}
		return
	}

	resp := s.handle(ctx, &req)
	if err := enc.Encode(resp); err != nil {
		s.logger.Warn("Failed to write IPC response", zap.String("command", req.Command), zap.Error(err))
	}
}

func (s *Server) handle(ctx context.Context, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("IPC handler panicked", zap.String("command", req.Command), zap.Any("panic", r))
			resp = Errorf("internal error handling %s", req.Command)
		}
	}()

	s.logger.Debug("IPC request", zap.String("command", req.Command))
	resp = s.handler(ctx, req)
	if resp == nil {
		resp = OK("", nil)
	}
	return resp
}
