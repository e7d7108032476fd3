package http

import (
	"context"
	stderrs "errors"
	"fmt"
	"net"
	stdhttp "net/http"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"snapgate/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// DefaultPort is the preferred report server port when config does not say otherwise
const DefaultPort = 8338

// maxPort bounds the upward walk when the preferred port is taken
const maxPort = 65535

// Options configures the server socket
type Options struct {
	// Host is the bind interface; defaults to 127.0.0.1 so approval stays a local-only surface
	Host string
	// Port is the preferred TCP port; Run walks upward from it while taken.
	// Port 0 binds an ephemeral port (useful in tests)
	Port int
	// ReadHeaderTimeout guards against slow clients; defaults to 10s
	ReadHeaderTimeout time.Duration
	// ShutdownGrace bounds the drain on ctx cancellation; defaults to 5s
	ShutdownGrace time.Duration
}

// Server is a thin wrapper over chi + stdlib http.Server with port-walking bind
type Server struct {
	host  string
	port  int
	grace time.Duration
	mux   *chi.Mux
	srv   *stdhttp.Server
	bound atomic.Int32
}

// NewServer creates a zero-value friendly http server
// opts receive the *chi.Mux so callers can mount routes/mw
func NewServer(opt Options, opts ...func(*chi.Mux)) *Server {
	if opt.Host == "" {
		opt.Host = "127.0.0.1"
	}
	if opt.ReadHeaderTimeout <= 0 {
		opt.ReadHeaderTimeout = 10 * time.Second
	}
	if opt.ShutdownGrace <= 0 {
		opt.ShutdownGrace = 5 * time.Second
	}
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		host:  opt.Host,
		port:  opt.Port,
		grace: opt.ShutdownGrace,
		mux:   m,
		srv: &stdhttp.Server{
			Handler:           m,
			ReadHeaderTimeout: opt.ReadHeaderTimeout,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router {
	return AdaptChi(s.mux)
}

// Addr returns the preferred listening address
func (s *Server) Addr() string { return net.JoinHostPort(s.host, strconv.Itoa(s.port)) }

// BoundPort returns the effective port once Run has bound a listener, 0 before that
func (s *Server) BoundPort() int { return int(s.bound.Load()) }

// listen binds the preferred port, walking upward while it is already taken
func (s *Server) listen() (net.Listener, error) {
	log := logger.Named("http")
	for port := s.port; port <= maxPort; port++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(s.host, strconv.Itoa(port)))
		if err == nil {
			if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
				s.bound.Store(int32(tcp.Port))
			}
			s.srv.Addr = ln.Addr().String()
			if port != s.port {
				log.Warn().Int("preferred", s.port).Int("port", port).Msg("preferred port taken; bound next free port")
			}
			return ln, nil
		}
		if !stderrs.Is(err, syscall.EADDRINUSE) {
			return nil, err
		}
		if port == 0 {
			// ephemeral bind cannot be in use; bail rather than walk from 1
			return nil, err
		}
		log.Debug().Int("port", port).Msg("port in use; trying next")
	}
	return nil, fmt.Errorf("no free port at or above %d", s.port)
}

// Run starts the server and blocks until Shutdown or ctx cancellation
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	ln, err := s.listen()
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Int("port", s.BoundPort()).Msg("http listening")

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		sd, cancel := context.WithTimeout(context.Background(), s.grace)
		defer cancel()
		_ = s.srv.Shutdown(sd)
		<-errCh
		return nil
	case err := <-errCh:
		if err == stdhttp.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
