package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/devtrack/device-tracker/internal/core/domain"
	"github.com/devtrack/device-tracker/internal/core/ports"
	"github.com/devtrack/device-tracker/internal/pkg/metrics"
)

// AuthService implements registration and login on top of the credential
// store and the token issuer.
type AuthService struct {
	creds  *Credentials
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(creds *Credentials, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{creds: creds, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	user, err := s.creds.Register(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return nil, err
		}
		if errors.Is(err, domain.ErrValidation) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return "", nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	user, err := s.creds.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", nil, err
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}
