// Package validators holds input validation rules shared by the service
// layer: the password strength policy, the campus identifier format, and
// free-text sanitization applied before persistence.
//
// Validation here is defense-in-depth: handlers reject malformed payloads
// early, but repositories use parameterised queries regardless.
package validators

import (
	"regexp"
	"strings"
	"unicode"
)

// SpecialCharacters is the set of symbols accepted by the password policy.
const SpecialCharacters = `!@#$%^&*(),.?":{}|<>`

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// schoolIDPattern matches campus identifiers: exactly three dash-separated
// alphanumeric segments, e.g. "2021-00042-MN".
var schoolIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+-[A-Za-z0-9]+-[A-Za-z0-9]+$`)

// disallowedText matches characters stripped from free-text fields before
// they are sent to storage.
var disallowedText = regexp.MustCompile(`[<>;\\` + "`" + `]`)

// ValidSchoolID reports whether id has the three-segment campus format.
func ValidSchoolID(id string) bool {
	return schoolIDPattern.MatchString(id)
}

// CheckPassword evaluates candidate against the five-predicate strength
// policy: length >= 8, at least one uppercase letter, one lowercase letter,
// one digit, and one character from [SpecialCharacters].
//
// It returns nil when every predicate holds, or the sentinel naming the
// first violated predicate so the console can point at the failing rule.
func CheckPassword(candidate string) error {
	if len(candidate) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(SpecialCharacters, r):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasLower:
		return ErrPasswordNoLower
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasSpecial:
		return ErrPasswordNoSpecial
	}

	return nil
}

// SanitizeText strips disallowed characters from a free-text field and
// trims surrounding whitespace. The authoritative defense is the
// parameterised query layer; this only keeps obviously hostile characters
// out of stored display fields.
func SanitizeText(s string) string {
	return strings.TrimSpace(disallowedText.ReplaceAllString(s, ""))
}
