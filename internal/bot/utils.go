package bot

import (
	"strings"
	"unicode"
)

// NormalizePhoneNumber strips formatting and adds the +91 country code
// for bare 10-digit Indian mobile numbers.
func NormalizePhoneNumber(phone string) string {
	hadPlus := strings.HasPrefix(strings.TrimSpace(phone), "+")

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	if hadPlus {
		return "+" + cleaned
	}
	if len(cleaned) == 10 {
		return "+91" + cleaned
	}
	if strings.HasPrefix(cleaned, "91") && len(cleaned) == 12 {
		return "+" + cleaned
	}
	if strings.HasPrefix(cleaned, "0") && len(cleaned) == 11 {
		return "+91" + cleaned[1:]
	}
	return "+" + cleaned
}

func IsValidPhoneNumber(phone string) bool {
	phone = NormalizePhoneNumber(phone)
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 10 || len(digits) > 15 {
		return false
	}
	badNumbers := map[string]bool{
		"0000000000": true,
		"1111111111": true,
		"1234567890": true,
	}
	return !badNumbers[strings.TrimPrefix(digits, "91")]
}
