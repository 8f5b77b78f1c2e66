// Package server exposes the generated schedules behind an authenticated,
// allow-listed HTTP API. It is a boundary collaborator: its only contract
// with the core is consuming the record list and per-employee statistics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mkorsakov/dutyroster/internal/config"
	"github.com/mkorsakov/dutyroster/pkg/core/model"
	"github.com/mkorsakov/dutyroster/pkg/db"
)

// Server serves the schedule API and the Google login flow.
type Server struct {
	cfg    config.ServerConfig
	roster model.Roster
	store  db.ScheduleStore
	logger *zap.Logger

	oauth   *oauth2.Config
	allowed map[string]bool
}

// New builds a Server. store may be nil, in which case the save/load
// endpoints report the store as unavailable.
func New(cfg config.ServerConfig, roster model.Roster, store db.ScheduleStore, logger *zap.Logger) (*Server, error) {
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("server.sessionSecret is required")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil, fmt.Errorf("server.googleClientID and server.googleClientSecret are required")
	}

	allowed := make(map[string]bool, len(cfg.AllowedUsers))
	for _, email := range cfg.AllowedUsers {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || !strings.Contains(email, "@") {
			continue
		}
		allowed[email] = true
	}
	if len(allowed) == 0 {
		logger.Warn("Allow-list is empty, all users will be denied access")
	}

	callbackURL := cfg.CallbackURL
	if callbackURL == "" {
		callbackURL = fmt.Sprintf("http://localhost:%s/auth/google/callback", cfg.Port)
	}

	return &Server{
		cfg:    cfg,
		roster: roster,
		store:  store,
		logger: logger,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		allowed: allowed,
	}, nil
}

// isAllowed checks the e-mail against the allow-list, case-insensitively.
// An empty allow-list denies everyone.
func (s *Server) isAllowed(email string) bool {
	return s.allowed[strings.ToLower(email)]
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening",
			zap.String("addr", srv.Addr),
			zap.Int("allowed_users", len(s.allowed)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
