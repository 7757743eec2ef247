package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/niels/tinyhttpd/pkg/config"
	"github.com/niels/tinyhttpd/pkg/dispatch"
	"github.com/niels/tinyhttpd/pkg/retry"
	"github.com/niels/tinyhttpd/pkg/stats"
	"github.com/rs/zerolog"
)

// Server accepts TCP connections and serves files from a document root,
// one request per connection.
type Server struct {
	cfg         config.ServerConfig
	logger      zerolog.Logger
	tracker     stats.Tracker
	dispatcher  *dispatch.Dispatcher
	acceptRetry retry.Options

	readFile   func(name string) ([]byte, error)
	discoverIP func() (net.IP, error)
}

// Option customises a Server
type Option func(*Server)

// WithTracker records every connection in tracker
func WithTracker(tracker stats.Tracker) Option {
	return func(s *Server) {
		s.tracker = tracker
	}
}

// WithRetry sets the backoff used when accepting a connection fails
func WithRetry(opts retry.Options) Option {
	return func(s *Server) {
		s.acceptRetry = opts
	}
}

// New creates a server for cfg. The configuration is copied and never modified.
func New(cfg config.ServerConfig, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:         cfg,
		logger:      logger,
		acceptRetry: retry.DefaultOptions(),
		readFile:    os.ReadFile,
		discoverIP:  localIPv4,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.dispatcher = dispatch.New(cfg.MaxConnections).WithPanicHandler(func(r interface{}, stack []byte) {
		s.logger.Error().Str("stack", string(stack)).Msgf("connection handler panicked: %v", r)
	})

	// A closed listener is final; everything else is worth another attempt
	s.acceptRetry.IsRetryableFunc = func(err error) bool {
		return !errors.Is(err, net.ErrClosed)
	}
	s.acceptRetry.Logger = func(format string, args ...interface{}) {
		s.logger.Warn().Msgf("accept: "+format, args...)
	}

	return s
}

// Listen binds the configured address with address reuse enabled
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	lc := net.ListenConfig{Control: reuseControl}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", s.cfg.Address(), err)
	}
	return ln, nil
}

// ListenAndServe binds the configured address and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen(ctx)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and hands each to its own goroutine.
// It returns nil once ctx is cancelled and every handler has finished.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	s.announce(ln.Addr())

	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	for {
		conn, err := retry.Do(ctx, ln.Accept, s.acceptRetry)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.dispatcher.Wait()
				if ctx.Err() != nil {
					s.logger.Info().Msg("Server stopped")
					return nil
				}
				return fmt.Errorf("listener closed: %w", err)
			}
			s.logger.Error().Err(err).Msg("Failed to accept connection")
			continue
		}

		s.dispatch(conn)
	}
}

func (s *Server) dispatch(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	if s.tracker != nil {
		s.tracker.Open(remote)
	}

	s.dispatcher.Go(
		func() { s.handleConn(conn, remote) },
		func() { s.reject(conn, remote) },
	)
}

// announce logs where the server can be reached. Address discovery is best effort.
func (s *Server) announce(addr net.Addr) {
	port := s.cfg.Port
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	host := s.cfg.Host
	if isWildcard(host) {
		ip, err := s.discoverIP()
		if err != nil {
			s.logger.Debug().Err(err).Msg("Local address discovery failed")
			host = ""
		} else {
			host = ip.String()
		}
	}

	msg := "Serving " + s.cfg.Root
	if host != "" {
		msg += " -> http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
	}
	s.logger.Info().Msg(msg)
}
