package bridge

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/logging"
)

// Config holds the bridge server configuration
type Config struct {
	Host string
	Port int
	// Advertise registers the bridge over mDNS when true.
	Advertise bool
	// Instance is the mDNS instance name. Defaults to the hostname.
	Instance string
	// Title is published in the TXT record so scanners can tell bridges apart.
	Title string
	// ShutdownTimeout bounds Shutdown. Defaults to 10 seconds.
	ShutdownTimeout time.Duration
	// CertPath and KeyPath serve wss:// when both are set.
	CertPath string
	KeyPath  string
}

// Server exposes a Hub to remote viewers over WebSocket.
type Server struct {
	config   *Config
	hub      *Hub
	upgrader websocket.Upgrader

	mu         sync.Mutex
	listener   net.Listener
	httpServer *http.Server
	advertiser *Advertiser
	wg         sync.WaitGroup
}

// New creates a bridge server for hub.
func New(config *Config, hub *Hub) *Server {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		config: config,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Viewers are local tools, not browsers on other origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Hub returns the hub the server exposes.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP routes of the bridge:
//
//	/ws        WebSocket event stream and command channel
//	/snapshot  current snapshot as JSON
//	/healthz   liveness and viewer count
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/healthz", s.handleHealth)
	return logRequests(mux)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logging.LogConnection(r.RemoteAddr, "upgrade_requested")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}
	logging.LogConnection(r.RemoteAddr, "websocket_upgraded")

	c := newClient(s.hub, conn)
	s.hub.register(c)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		c.writePump()
	}()
	go func() {
		defer s.wg.Done()
		c.readPump()
	}()
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	snap, err := s.hub.Snapshot(ctx)
	if err != nil {
		logging.Warn("Snapshot request failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		logging.Debug("Failed to write snapshot", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"viewers": s.hub.ClientCount(),
	})
}

// Start listens and serves until ctx is cancelled, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var tlsConfig *tls.Config
	if s.config.CertPath != "" || s.config.KeyPath != "" {
		if s.config.CertPath == "" || s.config.KeyPath == "" {
			return fmt.Errorf("both a certificate and a key are required for TLS")
		}
		var err error
		if tlsConfig, err = NewTLSConfig(s.config.CertPath, s.config.KeyPath); err != nil {
			return err
		}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if tlsConfig != nil {
		listener = tls.NewListener(listener, tlsConfig)
	}

	s.mu.Lock()
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	logging.Info("Bridge listening for viewers",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("advertise", s.config.Advertise),
		zap.Any("tls_info", GetTLSInfo(tlsConfig)),
	)

	if s.config.Advertise {
		adv, err := Advertise(s.config.Instance, s.Port(), s.config.Title, tlsConfig != nil)
		if err != nil {
			logging.Warn("mDNS advertisement failed, continuing without it", zap.Error(err))
		} else {
			s.mu.Lock()
			s.advertiser = adv
			s.mu.Unlock()
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping bridge...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Addr returns the address the server is listening on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Port returns the bound TCP port, which differs from Config.Port when that is 0.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.config.Port
	}
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return s.config.Port
}

// Shutdown stops advertising, disconnects every viewer and waits for their
// goroutines up to ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down bridge...")

	s.mu.Lock()
	adv := s.advertiser
	s.advertiser = nil
	httpServer := s.httpServer
	s.mu.Unlock()

	if adv != nil {
		adv.Shutdown()
	}

	var err error
	if httpServer != nil {
		if err = httpServer.Shutdown(ctx); err != nil {
			logging.Error("Error stopping HTTP server", zap.Error(err))
		}
	}

	// Hijacked WebSocket connections are not closed by http.Server.
	s.hub.closeAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All viewers disconnected gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}
