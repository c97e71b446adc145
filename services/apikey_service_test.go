package services

import (
	"strings"
	"testing"
	"time"

	"agendapro-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyFormat(t *testing.T) {
	key, err := GenerateKey("agendapro_live")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(key, "agendapro_live_"))
	random := strings.TrimPrefix(key, "agendapro_live_")
	assert.Len(t, random, 40)

	// url-safe alphabet only
	for _, r := range random {
		valid := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
		assert.True(t, valid, "unexpected character %q in key", r)
	}
}

func TestGenerateKeyUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := GenerateKey("p")
		require.NoError(t, err)
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestExpiryFromDefaultsToTenYears(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now.AddDate(10, 0, 0), ExpiryFrom(now, nil))
}

func TestExpiryFromDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	days := 30
	assert.Equal(t, time.Date(2026, 4, 14, 10, 0, 0, 0, time.UTC), ExpiryFrom(now, &days))
}

func TestAllowWithoutLimitAlwaysPasses(t *testing.T) {
	s := NewApiKeyService(nil, "p", zerolog.Nop())
	key := &models.ApiKey{ID: uuid.New()}

	for i := 0; i < 1000; i++ {
		assert.True(t, s.Allow(key))
	}
}

func TestAllowEnforcesBurst(t *testing.T) {
	s := NewApiKeyService(nil, "p", zerolog.Nop())
	limit := 5
	key := &models.ApiKey{ID: uuid.New(), RateLimit: &limit}

	for i := 0; i < limit; i++ {
		assert.True(t, s.Allow(key), "request %d within burst should pass", i)
	}
	assert.False(t, s.Allow(key), "request beyond burst should be limited")
}

func TestAllowTracksKeysIndependently(t *testing.T) {
	s := NewApiKeyService(nil, "p", zerolog.Nop())
	limit := 1
	first := &models.ApiKey{ID: uuid.New(), RateLimit: &limit}
	second := &models.ApiKey{ID: uuid.New(), RateLimit: &limit}

	require.True(t, s.Allow(first))
	require.False(t, s.Allow(first))
	assert.True(t, s.Allow(second))
}
