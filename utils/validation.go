// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)

// NormalizePhone strips formatting characters from a phone number. The
// leading + is kept so E.164 numbers survive normalization.
func NormalizePhone(phone string) string {
	cleaned := strings.TrimSpace(phone)
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	return cleaned
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(NormalizePhone(phone))
}

// PhoneFromRemoteJid extracts and normalizes the phone number from a
// WhatsApp remote JID of the form "5511987654321@s.whatsapp.net". The JID is
// an opaque external value, so the result is validated before use; an empty
// string means the JID did not carry a usable number.
func PhoneFromRemoteJid(remoteJid string) string {
	phone := remoteJid
	if i := strings.IndexByte(remoteJid, '@'); i >= 0 {
		phone = remoteJid[:i]
	}
	phone = NormalizePhone(phone)
	if !phoneRegex.MatchString(phone) {
		return ""
	}
	return phone
}

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateHexColor checks a calendar display color like "#3B82F6".
func ValidateHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}
