package utils

import "github.com/google/uuid"

// UUIDGenerator issues identifiers for captcha and OTP challenges. V7 IDs
// are time-ordered, which keeps the challenge tables roughly append-only;
// the random V4 fallback only matters if the system clock is unusable.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
