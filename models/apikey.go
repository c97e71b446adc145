package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maskedMinLength is the shortest stored key that still gets a partial
// reveal. Anything at or below it masks to the constant placeholder so a
// malformed short key never leaks most of its characters.
const maskedMinLength = 12

// ApiKey is a long-lived credential for non-interactive webhook callers. The
// full secret is returned exactly once at issuance; afterwards only the
// masked form is ever shown.
type ApiKey struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenantId"`

	Key         string `gorm:"uniqueIndex;not null" json:"-"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	IsActive  bool      `gorm:"default:true" json:"isActive"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`

	RateLimit  *int       `json:"rateLimit"` // requests per minute, nil means unlimited
	UsageCount int64      `gorm:"default:0" json:"usageCount"`
	LastUsedAt *time.Time `json:"lastUsedAt"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (k *ApiKey) BeforeCreate(tx *gorm.DB) (err error) {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return
}

// ExpiredAt reports whether the key is past its expiry at the given instant.
// The expiry instant itself is still valid.
func (k *ApiKey) ExpiredAt(now time.Time) bool {
	return now.After(k.ExpiresAt)
}

// UsableAt reports whether the key authorizes requests at the given instant.
func (k *ApiKey) UsableAt(now time.Time) bool {
	return k.IsActive && !k.ExpiredAt(now)
}

// MaskedKey returns the display form of the secret: asterisks plus the last
// eight characters. Keys too short for a safe partial reveal return the
// constant placeholder.
func (k *ApiKey) MaskedKey() string {
	return MaskApiKey(k.Key)
}

// MaskApiKey masks a raw key string for display.
func MaskApiKey(key string) string {
	if len(key) <= maskedMinLength {
		return "****"
	}
	return "****" + key[len(key)-8:]
}
