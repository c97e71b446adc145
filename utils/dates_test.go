package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeginningOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	in := time.Date(2026, 8, 31, 17, 42, 9, 123, loc)
	got := BeginningOfDay(in)

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())

	utc := time.Date(2026, 1, 1, 0, 0, 0, 1, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), BeginningOfDay(utc))
}
