package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"a@b.com",
		"reader@example.co.uk",
		"first.last@sub.domain.org",
	}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), "expected valid: %q", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@no-local.com",
		"no-domain@",
		"two@@at.com",
		"a@b@c.com",
		"nodot@domain",
		"trailingdot@domain.",
		"space in@local.com",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), "expected invalid: %q", email)
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		password string
		valid    bool
		strength string
	}{
		{"abc", false, StrengthWeak},
		{"abcdefgh", false, StrengthWeak},
		{"Abcdef12", true, StrengthMedium},
		{"Ab1!longerPass99", true, StrengthStrong},
		{"ABCDEF12", false, StrengthMedium},
		{"abcdef12", false, StrengthMedium},
		{"Abcdefgh1234", true, StrengthStrong},
		{"", false, StrengthWeak},
		{"A1!", false, StrengthMedium},
	}

	for _, tt := range tests {
		got := CheckPasswordStrength(tt.password)
		assert.Equal(t, tt.valid, got.Valid, "valid for %q", tt.password)
		assert.Equal(t, tt.strength, got.Strength, "strength for %q", tt.password)
	}
}
