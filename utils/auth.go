// utils/auth.go
package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"agendapro-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Gin context keys populated by AuthMiddleware.
const (
	ContextUserID       = "userId"
	ContextTenantID     = "tenantId"
	ContextTenantSource = "tenantSource"
)

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken issues an HS256 token carrying the user and tenant identity.
func GenerateToken(cfg *config.Config, userID, tenantID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       userID.String(),
		"tenant_id": tenantID.String(),
		"exp":       now.Add(time.Duration(cfg.JWTExpiryHours) * time.Hour).Unix(),
		"iat":       now.Unix(),
	})

	if cfg.JWTSecret == "" {
		return "", errors.New("JWT secret not configured")
	}
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates an HS256 token and returns its claims.
func ParseToken(cfg *config.Config, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// AuthMiddleware validates the bearer token and resolves the request tenant.
// The tenant claim governs; the X-Tenant-Id header is only consulted when the
// token carries no claim, and the development fallback only applies when
// configured.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}

		claims, err := ParseToken(cfg, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		userID, err := uuid.Parse(stringClaim(claims, "sub"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		tenantID, source, err := ResolveTenant(
			stringClaim(claims, "tenant_id"),
			c.GetHeader("X-Tenant-Id"),
			cfg.FallbackTenantID(),
		)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Tenant could not be resolved"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextTenantID, tenantID)
		c.Set(ContextTenantSource, source)

		c.Next()
	}
}

// TenantFromContext returns the tenant resolved by AuthMiddleware.
func TenantFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextTenantID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// UserFromContext returns the authenticated user id.
func UserFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
