// services/apikey_service.go
package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"agendapro-backend/database"
	"agendapro-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	// randomKeyBytes yields 40 url-safe characters after base64 encoding.
	randomKeyBytes = 30

	// defaultExpiryYears applies when issuance does not specify an expiry.
	defaultExpiryYears = 10
)

// ApiKeyService gates the public webhook endpoints. It issues, validates,
// revokes and tracks usage of long-lived API keys.
type ApiKeyService struct {
	db     *gorm.DB
	prefix string
	logger zerolog.Logger

	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
}

func NewApiKeyService(db *gorm.DB, prefix string, logger zerolog.Logger) *ApiKeyService {
	return &ApiKeyService{
		db:       db,
		prefix:   prefix,
		logger:   logger,
		limiters: make(map[uuid.UUID]*rate.Limiter),
	}
}

// GenerateKey builds a new secret of the form "<prefix>_<40 random chars>".
func GenerateKey(prefix string) (string, error) {
	randomBytes := make([]byte, randomKeyBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return fmt.Sprintf("%s_%s", prefix, base64.RawURLEncoding.EncodeToString(randomBytes)), nil
}

// ExpiryFrom computes the expiry instant for an issuance request. A nil
// expiresInDays falls back to the 10 year default.
func ExpiryFrom(now time.Time, expiresInDays *int) time.Time {
	if expiresInDays != nil {
		return now.AddDate(0, 0, *expiresInDays)
	}
	return now.AddDate(defaultExpiryYears, 0, 0)
}

// Issue creates a key for the tenant and returns the record together with
// the full secret. The secret is shown exactly once; afterwards only the
// masked form is available.
func (s *ApiKeyService) Issue(ctx context.Context, tenantID uuid.UUID, name, description string, expiresInDays, rateLimit *int) (*models.ApiKey, string, error) {
	if name == "" {
		return nil, "", models.NewValidationError("name", "is required")
	}
	if rateLimit != nil && *rateLimit <= 0 {
		return nil, "", models.NewValidationError("rateLimit", "must be positive")
	}
	if expiresInDays != nil && *expiresInDays <= 0 {
		return nil, "", models.NewValidationError("expiresInDays", "must be positive")
	}

	secret, err := GenerateKey(s.prefix)
	if err != nil {
		return nil, "", err
	}

	key := &models.ApiKey{
		TenantID:    tenantID,
		Key:         secret,
		Name:        name,
		Description: description,
		IsActive:    true,
		ExpiresAt:   ExpiryFrom(time.Now().UTC(), expiresInDays),
		RateLimit:   rateLimit,
	}

	err = database.WithTenant(ctx, s.db, tenantID, func(tx *gorm.DB) error {
		return tx.Create(key).Error
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().
		Str("tenant_id", tenantID.String()).
		Str("key_id", key.ID.String()).
		Msg("api key issued")

	return key, secret, nil
}

// List returns the tenant's keys. Secrets are never included; callers expose
// only MaskedKey.
func (s *ApiKeyService) List(ctx context.Context, tenantID uuid.UUID) ([]models.ApiKey, error) {
	var keys []models.ApiKey
	err := database.WithTenant(ctx, s.db, tenantID, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&keys).Error
	})
	return keys, err
}

// Update changes name, description or the active flag of a key owned by the
// tenant.
func (s *ApiKeyService) Update(ctx context.Context, tenantID, keyID uuid.UUID, name, description *string, isActive *bool) error {
	return database.WithTenant(ctx, s.db, tenantID, func(tx *gorm.DB) error {
		var key models.ApiKey
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, keyID).First(&key).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		if name != nil {
			key.Name = *name
		}
		if description != nil {
			key.Description = *description
		}
		if isActive != nil {
			key.IsActive = *isActive
		}
		key.UpdatedAt = time.Now().UTC()

		return tx.Save(&key).Error
	})
}

// Revoke soft-deletes a key. Only the owning tenant can revoke; a key owned
// by another tenant reports not found rather than revealing its existence.
func (s *ApiKeyService) Revoke(ctx context.Context, tenantID, keyID uuid.UUID) error {
	return database.WithTenant(ctx, s.db, tenantID, func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, keyID).Delete(&models.ApiKey{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

// Validate looks a key up by secret. It returns the record iff the key
// exists, is active, and has not expired; every failure mode collapses to
// ErrUnauthorized so callers cannot distinguish an unknown key from an
// expired one. No side effects.
func (s *ApiKeyService) Validate(ctx context.Context, secret string) (*models.ApiKey, error) {
	if secret == "" {
		return nil, models.ErrUnauthorized
	}

	var key models.ApiKey
	err := s.db.WithContext(ctx).Where("key = ?", secret).First(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, err
	}

	if !key.UsableAt(time.Now().UTC()) {
		return nil, models.ErrUnauthorized
	}
	return &key, nil
}

// RecordUsage increments the usage counter and stamps last_used_at. The
// increment happens in SQL so N concurrent calls add exactly N. Called once
// per authorized webhook call, whatever the downstream outcome.
func (s *ApiKeyService) RecordUsage(ctx context.Context, secret string) error {
	return s.db.WithContext(ctx).Model(&models.ApiKey{}).
		Where("key = ?", secret).
		UpdateColumns(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": time.Now().UTC(),
		}).Error
}

// Allow applies the key's per-minute rate limit. Keys without a limit always
// pass.
func (s *ApiKeyService) Allow(key *models.ApiKey) bool {
	if key.RateLimit == nil {
		return true
	}

	s.mu.Lock()
	limiter, ok := s.limiters[key.ID]
	if !ok {
		perMinute := *key.RateLimit
		limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
		s.limiters[key.ID] = limiter
	}
	s.mu.Unlock()

	return limiter.Allow()
}
