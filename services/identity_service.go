// services/identity_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"agendapro-backend/config"
	"agendapro-backend/models"

	"github.com/rs/zerolog"
)

// IdentityService delegates credential verification to an external identity
// provider over HTTP. When no provider is configured, callers fall back to
// the local user table.
type IdentityService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

func NewIdentityService(cfg *config.Config, logger zerolog.Logger) *IdentityService {
	return &IdentityService{
		baseURL: cfg.IdentityProviderURL,
		apiKey:  cfg.IdentityProviderKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Enabled reports whether an external provider is configured.
func (s *IdentityService) Enabled() bool {
	return s.baseURL != ""
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers the credentials with the provider.
func (s *IdentityService) SignUp(ctx context.Context, email, password string) error {
	status, err := s.post(ctx, "/auth/v1/signup", credentialsPayload{Email: email, Password: password})
	if err != nil {
		return err
	}
	if status >= 400 {
		return models.NewValidationError("email", "identity provider rejected registration")
	}
	return nil
}

// VerifyPassword checks the credentials against the provider. Invalid
// credentials map to ErrUnauthorized; provider outages surface as
// infrastructure errors.
func (s *IdentityService) VerifyPassword(ctx context.Context, email, password string) error {
	status, err := s.post(ctx, "/auth/v1/token?grant_type=password", credentialsPayload{Email: email, Password: password})
	if err != nil {
		return err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden {
		return models.ErrUnauthorized
	}
	if status >= 400 {
		return fmt.Errorf("identity provider returned status %d", status)
	}
	return nil
}

func (s *IdentityService) post(ctx context.Context, path string, payload interface{}) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("identity provider unreachable")
		return 0, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
