package user

import "strings"

// NormalizePhone reduces a Brazilian phone number to digits and
// prefixes the country code: two-digit area code, then the local
// number with the mobile '9' inserted when the legacy eight-digit form
// is given.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	s := digits.String()
	if len(s) < 2 {
		return "55" + s
	}

	area := s[:2]
	number := s[2:]
	if len(number) == 8 {
		number = "9" + number
	}

	return "55" + area + number
}
