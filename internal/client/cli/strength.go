package cli

import "strings"

type Strength string

const (
	StrengthWeak   Strength = "Weak"
	StrengthMedium Strength = "Medium"
	StrengthStrong Strength = "Strong"
)

func hasRange(s string, lo, hi rune) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r >= lo && r <= hi }) >= 0
}

// PasswordStrength scores a password by five criteria: length of at least 8,
// an upper case letter, a lower case letter, a digit and one of @$!%*?&.
// Two or fewer is Weak, three or four Medium, all five Strong.
func PasswordStrength(password string) Strength {
	score := 0
	for _, ok := range []bool{
		len(password) >= 8,
		hasRange(password, 'A', 'Z'),
		hasRange(password, 'a', 'z'),
		hasRange(password, '0', '9'),
		strings.ContainsAny(password, "@$!%*?&"),
	} {
		if ok {
			score++
		}
	}

	switch {
	case score <= 2:
		return StrengthWeak
	case score <= 4:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}
