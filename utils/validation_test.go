package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+5511987654321", NormalizePhone(" +55 (11) 98765-4321 "))
	assert.Equal(t, "+14155552671", NormalizePhone("+1.415.555.2671"))
	assert.Equal(t, "5511987654321", NormalizePhone("5511987654321"))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+5511987654321"))
	assert.True(t, ValidatePhone("5511987654321"))
	assert.True(t, ValidatePhone("+55 11 98765-4321"))

	assert.False(t, ValidatePhone(""))
	assert.False(t, ValidatePhone("0123456"))    // leading zero
	assert.False(t, ValidatePhone("12345"))      // too short
	assert.False(t, ValidatePhone("abc1234567")) // letters
}

func TestPhoneFromRemoteJid(t *testing.T) {
	tests := []struct {
		name      string
		remoteJid string
		want      string
	}{
		{"whatsapp jid", "5511987654321@s.whatsapp.net", "5511987654321"},
		{"bare number", "5511987654321", "5511987654321"},
		{"group jid is not a phone", "1234567890-1234567890@g.us", ""},
		{"empty", "", ""},
		{"junk", "not-a-number@s.whatsapp.net", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhoneFromRemoteJid(tt.remoteJid))
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	assert.True(t, ValidateHexColor("#3B82F6"))
	assert.True(t, ValidateHexColor("#abcdef"))

	assert.False(t, ValidateHexColor("3B82F6"))
	assert.False(t, ValidateHexColor("#3B82F"))
	assert.False(t, ValidateHexColor("#GGGGGG"))
}
