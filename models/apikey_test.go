package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMaskApiKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", "****"},
		{"short key", "abc", "****"},
		{"exactly twelve chars", "123456789012", "****"},
		{"thirteen chars reveals tail", "1234567890123", "****67890123"},
		{"full key", "agendapro_live_c29tZXJhbmRvbWJ5dGVzaGVyZQ", "****VzaGVyZQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskApiKey(tt.key))
		})
	}
}

func TestMaskedKeyUsesStoredSecret(t *testing.T) {
	key := ApiKey{Key: "prefix_0123456789abcdefghij"}
	assert.Equal(t, "****cdefghij", key.MaskedKey())
}

func TestUsableAtExpiryBoundary(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	key := ApiKey{IsActive: true, ExpiresAt: expiry}

	assert.True(t, key.UsableAt(expiry.Add(-time.Hour)))
	// The expiry instant itself still authorizes.
	assert.True(t, key.UsableAt(expiry))
	assert.False(t, key.UsableAt(expiry.Add(time.Nanosecond)))
}

func TestUsableAtRequiresActive(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	key := ApiKey{IsActive: false, ExpiresAt: expiry}
	assert.False(t, key.UsableAt(time.Now()))
}

func TestExpiredAt(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	key := ApiKey{ExpiresAt: expiry}

	assert.False(t, key.ExpiredAt(expiry))
	assert.True(t, key.ExpiredAt(expiry.Add(time.Second)))
}
