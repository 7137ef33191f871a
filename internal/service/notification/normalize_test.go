package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare ten digits get country code", "9876543210", "+919876543210"},
		{"international stays as-is", "+1 234-567-8900", "+12345678900"},
		{"punctuation stripped", "(987) 654-3210", "+919876543210"},
		{"short number just gets plus", "104", "+104"},
		{"eleven digits get plus", "19876543210", "+19876543210"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw, "+91"))
		})
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"patient@example.com",
		"first.last+tag@sub.domain.org",
		"x@y.co",
	}
	for _, email := range valid {
		assert.True(t, ValidEmail(email), email)
	}

	invalid := []string{
		"",
		"no-at-sign",
		"missing@tld",
		"@example.com",
		"spaces in@example.com",
		"trailing@example.",
	}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), email)
	}
}
