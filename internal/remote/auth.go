// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/charmbracelet/ssh"
)

type (
	// Clock abstracts time for token expiry. Production code uses the
	// system clock; tests substitute a controllable fake.
	Clock interface {
		Now() time.Time
	}

	// Token is a share-server credential. Clients present its value as the
	// SSH password.
	Token struct {
		Value     TokenValue
		CreatedAt time.Time
		ExpiresAt time.Time
	}

	// ConnectionInfo describes how a client reaches the running server.
	ConnectionInfo struct {
		Host     HostAddress
		Port     int
		Token    TokenValue
		User     string
		ExpireAt time.Time
	}
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// GenerateToken creates and registers a new authentication token.
func (s *Server) GenerateToken() (*Token, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.clock.Now()
	token := &Token{
		Value:     TokenValue(hex.EncodeToString(tokenBytes)),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}

	s.tokenMu.Lock()
	s.tokens[token.Value] = token
	s.tokenMu.Unlock()

	s.logger.Debug("generated token", "expires", token.ExpiresAt)

	return token, nil
}

// ValidateToken checks whether a token is known and unexpired. Expired
// tokens are revoked on sight.
func (s *Server) ValidateToken(value TokenValue) (*Token, bool) {
	s.tokenMu.RLock()
	token, exists := s.tokens[value]
	s.tokenMu.RUnlock()

	if !exists {
		return nil, false
	}

	if s.clock.Now().After(token.ExpiresAt) {
		s.RevokeToken(value)
		return nil, false
	}

	return token, true
}

// RevokeToken invalidates a token.
func (s *Server) RevokeToken(value TokenValue) {
	s.tokenMu.Lock()
	delete(s.tokens, value)
	s.tokenMu.Unlock()
}

// ConnectionInfo generates a fresh token and returns everything a client
// needs to connect. Returns an error if the server is not running.
func (s *Server) ConnectionInfo() (*ConnectionInfo, error) {
	if !s.IsRunning() {
		return nil, fmt.Errorf("share server is not running (state: %s)", s.State())
	}

	token, err := s.GenerateToken()
	if err != nil {
		return nil, err
	}

	return &ConnectionInfo{
		Host:     s.cfg.Host,
		Port:     s.Port(),
		Token:    token.Value,
		User:     "grimoire",
		ExpireAt: token.ExpiresAt,
	}, nil
}

// cleanupExpiredTokens periodically removes expired tokens.
func (s *Server) cleanupExpiredTokens() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.tokenMu.Lock()
			now := s.clock.Now()
			for value, token := range s.tokens {
				if now.After(token.ExpiresAt) {
					delete(s.tokens, value)
				}
			}
			s.tokenMu.Unlock()
		}
	}
}

// passwordHandler authenticates clients by token.
func (s *Server) passwordHandler(ctx ssh.Context, password string) bool {
	_, valid := s.ValidateToken(TokenValue(password))
	if !valid {
		s.logger.Warn("rejected connection with invalid token", "user", ctx.User(), "remote", ctx.RemoteAddr().String())
		return false
	}

	s.logger.Debug("token authentication successful", "user", ctx.User())
	return true
}

// publicKeyHandler rejects all public key authentication. Only token-based
// password auth is accepted.
func (s *Server) publicKeyHandler(_ ssh.Context, _ ssh.PublicKey) bool {
	return false
}
