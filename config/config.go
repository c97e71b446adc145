package config

import (
	"errors"

	"github.com/caarlos0/env/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config holds all application configuration. It is resolved once in main
// and passed explicitly to the components that need it.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DB_URL,required"`

	JWTSecret      string `env:"JWT_SECRET,required"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`

	// DevTenantID is the tenant used when a request carries neither a token
	// claim nor a valid X-Tenant-Id header. Honored only in development.
	DevTenantID string `env:"DEV_TENANT_ID"`

	// IdentityProviderURL, when set, delegates credential verification to an
	// external identity provider instead of the local user table.
	IdentityProviderURL string `env:"IDENTITY_PROVIDER_URL"`
	IdentityProviderKey string `env:"IDENTITY_PROVIDER_KEY"`

	APIKeyPrefix string `env:"API_KEY_PREFIX" envDefault:"agendapro_live"`

	TwilioAccountSID     string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `env:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppNumber string `env:"TWILIO_WHATSAPP_NUMBER"`
	TwilioPhoneNumber    string `env:"TWILIO_PHONE_NUMBER"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// Load reads configuration from the environment. A .env file is loaded first
// when present for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.DevTenantID != "" {
		if _, err := uuid.Parse(cfg.DevTenantID); err != nil {
			return nil, errors.New("DEV_TENANT_ID must be a valid UUID")
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether the process runs in development mode. The
// fallback tenant is only ever applied in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// FallbackTenantID returns the development fallback tenant, or uuid.Nil when
// the fallback is disabled (non-development environment or unset).
func (c *Config) FallbackTenantID() uuid.UUID {
	if !c.IsDevelopment() || c.DevTenantID == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(c.DevTenantID)
	if err != nil {
		return uuid.Nil
	}
	return id
}
