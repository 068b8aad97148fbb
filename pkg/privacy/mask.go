package privacy

import "strings"

// MaskEmail redacts the local part of an email, keeping the first
// character and the domain so logs stay recognizable without exposing the
// address.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return email
	}
	if len(local) == 1 {
		return "*@" + domain
	}
	return string(local[0]) + strings.Repeat("*", len(local)-1) + "@" + domain
}

// MaskPhone redacts a phone number keeping only the last four digits.
func MaskPhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if len(digits) < 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}
