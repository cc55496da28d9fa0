// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"grimoire-cli/internal/shell"
	"grimoire-cli/internal/store"
)

const (
	// StateCreated indicates the server has been created but not started.
	StateCreated State = iota
	// StateStarting indicates the server is in the process of starting.
	StateStarting
	// StateRunning indicates the server is accepting connections.
	StateRunning
	// StateStopping indicates the server is shutting down.
	StateStopping
	// StateStopped is terminal: the server has stopped.
	StateStopped
	// StateFailed is terminal: the server failed to start or hit a fatal error.
	StateFailed
)

type (
	// State represents the lifecycle state of the server.
	State int32

	// Config holds immutable configuration for the share server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1).
		Host HostAddress
		// Port is the port to listen on (0 = auto-select).
		Port ListenPort
		// TokenTTL is how long issued tokens stay valid (default: 1 hour).
		TokenTTL time.Duration
		// ShutdownTimeout bounds graceful shutdown (default: 10s).
		ShutdownTimeout time.Duration
		// StartupTimeout bounds the wait for readiness (default: 5s).
		StartupTimeout time.Duration
		// Runner executes resolved commands. nil defaults to the native
		// shell runner.
		Runner shell.Runner
		// Logger receives operational logs. nil defaults to a stderr logger.
		Logger *log.Logger
	}

	// Server shares the script registry over SSH.
	// A Server instance is single-use: once stopped or failed, create a new one.
	Server struct {
		cfg      Config
		registry store.Registry
		runner   shell.Runner
		logger   *log.Logger
		clock    Clock

		// State management (atomic for lock-free reads)
		state atomic.Int32

		// Initialized during Start; guarded by srvMu
		srvMu    sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string // actual bound address, with the resolved port

		// Lifecycle management
		ctx       context.Context
		cancel    context.CancelFunc
		wg        sync.WaitGroup
		startedCh chan struct{} // closed once the server accepts connections
		errCh     chan error    // fatal errors from background goroutines

		stateMu sync.Mutex // guards lastErr
		lastErr error

		// Token management
		tokens  map[TokenValue]*Token
		tokenMu sync.RWMutex
	}
)

// String returns a human-readable representation of the server state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            0,
		TokenTTL:        time.Hour,
		ShutdownTimeout: 10 * time.Second,
		StartupTimeout:  5 * time.Second,
	}
}

// New creates a share server over the given registry. The server is not
// started; call Start to begin accepting connections.
func New(cfg Config, registry store.Registry) *Server {
	return NewWithClock(cfg, registry, systemClock{})
}

// NewWithClock is New with a caller-supplied clock for token expiry. Tests
// use it with a fake clock.
func NewWithClock(cfg Config, registry store.Registry, clock Clock) *Server {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = 5 * time.Second
	}

	runner := cfg.Runner
	if runner == nil {
		runner = shell.NewNative()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "serve"})
	}

	s := &Server{
		cfg:       cfg,
		registry:  registry,
		runner:    runner,
		logger:    logger,
		clock:     clock,
		tokens:    make(map[TokenValue]*Token),
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 1), // buffered so goroutines never block
	}
	s.state.Store(int32(StateCreated))

	return s
}

// Start starts the share server and blocks until either:
//   - the server is ready to accept connections (returns nil)
//   - the server fails to start (returns the error)
//   - the context is cancelled (returns the context error)
//   - the startup timeout is exceeded (returns an error)
//
// After Start returns nil, use Err to monitor for runtime errors.
func (s *Server) Start(ctx context.Context) error {
	// Check for an already-cancelled context before any setup, so the serve
	// goroutine cannot transition to Running before the cancellation is seen.
	select {
	case <-ctx.Done():
		s.transitionToFailed(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return s.LastError()
	default:
	}

	if ok, errs := s.cfg.IsValid(); !ok {
		s.transitionToFailed(errs[0])
		return s.LastError()
	}
	if s.registry == nil {
		s.transitionToFailed(errors.New("cannot start share server: no script registry"))
		return s.LastError()
	}

	// Transition: Created -> Starting
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", s.State())
	}

	// Internal context for lifecycle management
	s.ctx, s.cancel = context.WithCancel(context.Background())

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	addr := net.JoinHostPort(s.cfg.Host.String(), s.cfg.Port.String())
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.transitionToFailed(fmt.Errorf("failed to listen on %s: %w", addr, err))
		return s.LastError()
	}

	s.srvMu.Lock()
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srvMu.Unlock()

	srv, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithPublicKeyAuth(s.publicKeyHandler),
		wish.WithPasswordAuth(s.passwordHandler),
		wish.WithMiddleware(
			s.sessionMiddleware(),
		),
	)
	if err != nil {
		_ = listener.Close() //nolint:errcheck // best-effort cleanup on error
		s.transitionToFailed(fmt.Errorf("failed to create SSH server: %w", err))
		return s.LastError()
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()

	s.wg.Add(1)
	go s.serve()

	s.wg.Add(1)
	go s.cleanupExpiredTokens()

	select {
	case <-s.startedCh:
		s.logger.Info("share server started", "address", s.addr)
		return nil

	case err := <-s.errCh:
		s.transitionToFailed(err)
		return err

	case <-startupCtx.Done():
		s.cancel() // stop any background work
		s.transitionToFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.LastError()
	}
}

// Stop gracefully stops the share server. It blocks until all connections
// are closed or the shutdown timeout is reached. Safe to call multiple
// times; subsequent calls are no-ops.
func (s *Server) Stop() error {
	for {
		current := s.State()
		switch current {
		case StateStopped, StateFailed:
			return nil
		case StateCreated:
			if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return nil // never started
			}
			continue // state changed, retry
		case StateStopping:
			s.wg.Wait() // wait for the ongoing stop
			return nil
		case StateStarting, StateRunning:
			if !s.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				continue // state changed, retry
			}
			return s.doStop()
		default:
			return fmt.Errorf("unknown server state: %d", current)
		}
	}
}

// Err returns a channel that receives fatal server errors. The channel is
// closed when the server stops.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// State returns the current server state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	return s.State() == StateRunning
}

// LastError returns the error that caused the Failed state, or nil.
func (s *Server) LastError() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.lastErr
}

// Address returns the server's bound address (host:port). Blocks until the
// server has started or failed; returns the empty string if it never started.
func (s *Server) Address() string {
	select {
	case <-s.startedCh:
		s.srvMu.Lock()
		defer s.srvMu.Unlock()
		return s.addr
	default:
	}

	// Not started yet. The internal context only exists once Start ran.
	if s.ctx == nil {
		return ""
	}
	select {
	case <-s.startedCh:
		s.srvMu.Lock()
		defer s.srvMu.Unlock()
		return s.addr
	case <-s.ctx.Done():
		return ""
	}
}

// Port returns the server's listening port, or 0 if it never started.
func (s *Server) Port() int {
	addr := s.Address()
	if addr == "" {
		return 0
	}
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return 0
	}
	return port
}

// Host returns the server's configured host address.
func (s *Server) Host() HostAddress {
	return s.cfg.Host
}

// Wait blocks until the server stops. Returns the error if the server
// failed, nil otherwise.
func (s *Server) Wait() error {
	s.wg.Wait()

	if s.State() == StateFailed {
		return s.LastError()
	}
	return nil
}

// serve runs the SSH server and reports errors.
func (s *Server) serve() {
	defer s.wg.Done()

	// Transition: Starting -> Running (signals readiness)
	if s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(s.startedCh)
	}

	s.srvMu.Lock()
	srv := s.srv
	listener := s.listener
	s.srvMu.Unlock()

	if srv == nil || listener == nil {
		return
	}

	err := srv.Serve(listener)
	if err != nil {
		// Expected on shutdown.
		if errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return
		}

		select {
		case s.errCh <- fmt.Errorf("serve error: %w", err):
		default:
			s.logger.Error("share server error (channel full)", "error", err)
		}
	}
}

// doStop performs the actual shutdown.
func (s *Server) doStop() error {
	if s.cancel != nil {
		s.cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.srvMu.Lock()
	if s.srv != nil {
		shutdownErr = s.srv.Shutdown(shutdownCtx)
		if shutdownErr != nil && !isClosedConnError(shutdownErr) {
			s.logger.Error("shutdown error", "error", shutdownErr)
		} else {
			shutdownErr = nil
		}
	}
	if s.listener != nil {
		_ = s.listener.Close() //nolint:errcheck // best-effort cleanup during shutdown
	}
	s.srvMu.Unlock()

	s.wg.Wait()

	s.state.Store(int32(StateStopped))
	s.logger.Info("share server stopped")

	// Signal consumers that no more errors will arrive.
	close(s.errCh)

	return shutdownErr
}

// transitionToFailed sets the server state to Failed and stores the error.
func (s *Server) transitionToFailed(err error) {
	s.stateMu.Lock()
	s.lastErr = err
	s.stateMu.Unlock()

	s.state.Store(int32(StateFailed))
	if s.cancel != nil {
		s.cancel()
	}

	select {
	case s.errCh <- err:
	default:
	}
}

// isClosedConnError checks for the "use of closed network connection" error.
func isClosedConnError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Err.Error() == "use of closed network connection"
	}
	return false
}
