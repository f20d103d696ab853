package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// captchaLength is the number of characters in a generated captcha text.
const captchaLength = 6

// captchaAlphabet deliberately omits glyphs that render ambiguously in the
// console's captcha widget (0/O, 1/I/L).
const captchaAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// otpDigits is the number of digits in a one-time code.
const otpDigits = 6

// generateCaptchaText draws n characters from the captcha alphabet using
// crypto/rand.
func generateCaptchaText(n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(captchaAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(captchaAlphabet[idx.Int64()])
	}
	return b.String(), nil
}

// generateOTPCode returns a zero-padded numeric code of otpDigits digits.
func generateOTPCode() (string, error) {
	bound := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		bound.Mul(bound, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// normalizeCaptchaAnswer makes captcha comparison forgiving about case and
// surrounding whitespace without weakening the challenge.
func normalizeCaptchaAnswer(answer string) string {
	return strings.ToUpper(strings.TrimSpace(answer))
}
