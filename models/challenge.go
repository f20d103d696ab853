package models

import "time"

// OTPChallenge is a transient second-factor secret tied to a user and the
// login purpose. The code itself is never stored; only its bcrypt hash.
// A challenge is spent by a successful validation, by exhausting its
// attempt budget, or by expiry, whichever comes first.
type OTPChallenge struct {
	// ID is the server-assigned challenge identifier (UUID).
	ID string `json:"id"`

	// UserID is the account the challenge was issued for.
	UserID int64 `json:"user_id"`

	// CodeHash is the bcrypt digest of the 6-digit code.
	CodeHash string `json:"-"`

	// Attempts counts failed validations. The challenge is exhausted once
	// Attempts reaches the configured maximum.
	Attempts int `json:"attempts"`

	// ExpiresAt is the authoritative server-side expiry. Client countdowns
	// are advisory only.
	ExpiresAt time.Time `json:"expires_at"`

	// LastSentAt drives the resend cooldown.
	LastSentAt time.Time `json:"last_sent_at"`

	// Consumed marks a spent challenge. Spent challenges never validate.
	Consumed bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// CaptchaChallenge is a single-use human-verification challenge. The text
// is generated and verified server-side; the console only renders it.
// Any login attempt referencing the challenge consumes it, pass or fail.
type CaptchaChallenge struct {
	// ID is the server-assigned challenge identifier (UUID).
	ID string `json:"captcha_id"`

	// Text is the string the user must type back. Returned to the client
	// once at issue time.
	Text string `json:"text"`

	// ExpiresAt bounds how long an unanswered challenge stays valid.
	ExpiresAt time.Time `json:"expires_at"`

	// Consumed marks a spent challenge.
	Consumed bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
