package bridge

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/logging"
)

// NewTLSConfig loads a certificate and key for serving viewers over wss://.
func NewTLSConfig(certPath, keyPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	logging.Info("TLS configuration created from files",
		zap.String("cert", certPath),
		zap.String("key", keyPath),
	)

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		VerifyConnection: func(cs tls.ConnectionState) error {
			logging.Debug("TLS handshake completed",
				zap.String("server_name", cs.ServerName),
				zap.String("version", tls.VersionName(cs.Version)),
				zap.String("cipher_suite", tls.CipherSuiteName(cs.CipherSuite)),
			)
			return nil
		},
	}, nil
}

// GetTLSInfo returns human-readable TLS configuration information
func GetTLSInfo(config *tls.Config) map[string]any {
	if config == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"enabled":     true,
		"min_version": tls.VersionName(config.MinVersion),
		"num_certs":   len(config.Certificates),
	}
}

// logRequests logs every request, with the WebSocket handshake headers at
// debug level.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			logging.Debug("WebSocket upgrade request details",
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("host", r.Host),
				zap.String("origin", r.Header.Get("Origin")),
				zap.String("sec_websocket_version", r.Header.Get("Sec-WebSocket-Version")),
				zap.String("sec_websocket_protocol", r.Header.Get("Sec-WebSocket-Protocol")),
				zap.String("user_agent", r.Header.Get("User-Agent")),
			)
		}

		next.ServeHTTP(w, r)

		logging.Debug("HTTP request",
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
