package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTenantClaimWins(t *testing.T) {
	claimTenant := uuid.New()
	headerTenant := uuid.New()
	fallback := uuid.New()

	id, source, err := ResolveTenant(claimTenant.String(), headerTenant.String(), fallback)
	require.NoError(t, err)
	assert.Equal(t, claimTenant, id)
	assert.Equal(t, TenantFromToken, source)
}

func TestResolveTenantHeaderWhenNoClaim(t *testing.T) {
	headerTenant := uuid.New()

	id, source, err := ResolveTenant("", headerTenant.String(), uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, headerTenant, id)
	assert.Equal(t, TenantFromHeader, source)
}

func TestResolveTenantMalformedClaimIsAnError(t *testing.T) {
	// A claim that does not parse must never fall through to the header.
	headerTenant := uuid.New()

	_, _, err := ResolveTenant("not-a-uuid", headerTenant.String(), uuid.New())
	assert.ErrorIs(t, err, ErrTenantMalformed)
}

func TestResolveTenantMalformedHeaderFallsThrough(t *testing.T) {
	fallback := uuid.New()

	id, source, err := ResolveTenant("", "garbage", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, id)
	assert.Equal(t, TenantFromFallback, source)
}

func TestResolveTenantFallbackDisabled(t *testing.T) {
	_, _, err := ResolveTenant("", "", uuid.Nil)
	assert.ErrorIs(t, err, ErrTenantMissing)

	_, _, err = ResolveTenant("", "garbage", uuid.Nil)
	assert.ErrorIs(t, err, ErrTenantMissing)
}

func TestResolveTenantFallbackUsed(t *testing.T) {
	fallback := uuid.New()

	id, source, err := ResolveTenant("", "", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, id)
	assert.Equal(t, TenantFromFallback, source)
}

func TestTenantSourceString(t *testing.T) {
	assert.Equal(t, "token", TenantFromToken.String())
	assert.Equal(t, "header", TenantFromHeader.String())
	assert.Equal(t, "fallback", TenantFromFallback.String())
	assert.Equal(t, "unknown", TenantSource(0).String())
}
