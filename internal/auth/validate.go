package auth

import "strings"

// IsValidEmail performs a pragmatic format check: exactly one @,
// non-empty local and domain parts, and a dot somewhere in the domain.
// It makes no attempt at full RFC 5322 compliance.
func IsValidEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	local, dom := s[:at], s[at+1:]
	if local == "" || dom == "" {
		return false
	}
	if strings.ContainsAny(s, " \t") {
		return false
	}
	dot := strings.Index(dom, ".")
	return dot > 0 && dot < len(dom)-1
}

// PasswordStrength levels reported by CheckPasswordStrength.
const (
	StrengthWeak   = "weak"
	StrengthMedium = "medium"
	StrengthStrong = "strong"
)

// PasswordCheck is the outcome of a strength evaluation. Valid is the
// hard registration gate; Strength is advisory UI feedback.
type PasswordCheck struct {
	Valid    bool   `json:"valid"`
	Strength string `json:"strength"`
}

// CheckPasswordStrength requires length >= 8 with lowercase, uppercase,
// and digit classes for validity, and scores six signals (the three
// classes, symbols, length >= 8, length >= 12) into weak/medium/strong.
func CheckPasswordStrength(s string) PasswordCheck {
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	score := 0
	for _, signal := range []bool{
		len(s) >= 8,
		len(s) >= 12,
		lower,
		upper,
		digit,
		symbol,
	} {
		if signal {
			score++
		}
	}

	strength := StrengthWeak
	switch {
	case score >= 5:
		strength = StrengthStrong
	case score >= 3:
		strength = StrengthMedium
	}

	return PasswordCheck{
		Valid:    len(s) >= 8 && lower && upper && digit,
		Strength: strength,
	}
}
