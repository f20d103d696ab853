package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gsdportal/reserva-api/internal/config"
	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/store"
	"github.com/gsdportal/reserva-api/internal/utils"
	"github.com/gsdportal/reserva-api/internal/validators"
	"github.com/gsdportal/reserva-api/models"
)

// authService is the concrete implementation of AuthService.
// It drives the console login flow: captcha verification, credential
// checks against the bcrypt hash, the e-mail OTP second factor, the forced
// password change, and JWT session token lifecycle.
type authService struct {
	// userRepository is the data-access layer used to look up and update accounts.
	userRepository store.UserRepository

	// challengeRepository persists single-use captcha and OTP challenges.
	challengeRepository store.ChallengeRepository

	// mailer delivers OTP codes to the account mailbox.
	mailer OTPMailer

	// uuid generates challenge identifiers.
	uuid *utils.UUIDGenerator

	// hashKey is the HMAC secret used when storing captcha answers at rest.
	hashKey string

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	captchaTTL        time.Duration
	otpTTL            time.Duration
	otpResendCooldown time.Duration
	otpMaxAttempts    int

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// repositories and mailer, populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(users store.UserRepository, challenges store.ChallengeRepository, mailer OTPMailer, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:      users,
		challengeRepository: challenges,
		mailer:              mailer,
		uuid:                utils.NewUUIDGenerator(),
		hashKey:             cfg.HashKey,
		tokenSignKey:        cfg.TokenSignKey,
		tokenIssuer:         cfg.TokenIssuer,
		tokenDuration:       cfg.TokenDuration,
		captchaTTL:          cfg.CaptchaTTL,
		otpTTL:              cfg.OTPTTL,
		otpResendCooldown:   cfg.OTPResendCooldown,
		otpMaxAttempts:      cfg.OTPMaxAttempts,
		logger:              logger,
	}
}

// FetchCaptcha issues a fresh captcha challenge. The answer text travels to
// the console exactly once; at rest only its keyed hash is kept, so a
// database read cannot recover the answer.
func (a *authService) FetchCaptcha(ctx context.Context) (models.CaptchaChallenge, error) {
	log := logger.FromContext(ctx)

	text, err := generateCaptchaText(captchaLength)
	if err != nil {
		log.Err(err).Msg("captcha generation failed")
		return models.CaptchaChallenge{}, fmt.Errorf("captcha generation failed: %w", err)
	}

	challenge := models.CaptchaChallenge{
		ID:        a.uuid.Generate(),
		Text:      text,
		ExpiresAt: time.Now().Add(a.captchaTTL),
	}

	stored := challenge
	stored.Text = utils.HashString(normalizeCaptchaAnswer(text), a.hashKey)
	if err = a.challengeRepository.CreateCaptcha(ctx, stored); err != nil {
		log.Err(err).Msg("captcha persistence failed")
		return models.CaptchaChallenge{}, fmt.Errorf("captcha persistence failed: %w", err)
	}

	return challenge, nil
}

// Login runs one password authentication attempt.
//
// The referenced captcha challenge is consumed first, before any credential
// work, so a failed attempt can never retry against the same challenge.
// The outcome selects the console's next screen:
//   - FirstLogin set → [models.NextPasswordChange], no token.
//   - OTPEnabled set → an OTP is mailed and [models.NextOTP] returned, no token.
//   - otherwise     → [models.NextSession] with a signed session token.
//
// Errors:
//   - ErrInvalidDataProvided on empty or malformed input.
//   - ErrCaptchaFailed when the challenge is stale, spent, or answered wrong.
//   - ErrWrongCredentials when the account is unknown or the password wrong.
//   - ErrAccountArchived when the account is soft-deleted.
func (a *authService) Login(ctx context.Context, request models.LoginRequest) (models.LoginResult, error) {
	log := logger.FromContext(ctx)

	if request.SchoolID == "" || request.Password == "" || request.CaptchaID == "" {
		log.Error().Msg("login: empty credentials or captcha reference")
		return models.LoginResult{}, ErrInvalidDataProvided
	}

	// Spend the challenge before touching credentials.
	challenge, err := a.challengeRepository.ConsumeCaptcha(ctx, request.CaptchaID)
	if err != nil {
		if errors.Is(err, store.ErrChallengeNotFound) {
			log.Warn().Str("captcha_id", request.CaptchaID).Msg("login: stale or unknown captcha")
			return models.LoginResult{}, ErrCaptchaFailed
		}
		return models.LoginResult{}, fmt.Errorf("captcha lookup failed: %w", err)
	}

	answerHash := utils.HashString(normalizeCaptchaAnswer(request.CaptchaAnswer), a.hashKey)
	if answerHash != challenge.Text {
		log.Warn().Str("captcha_id", request.CaptchaID).Msg("login: wrong captcha answer")
		return models.LoginResult{}, ErrCaptchaFailed
	}

	if !validators.ValidSchoolID(request.SchoolID) {
		log.Warn().Msg("login: malformed school ID")
		return models.LoginResult{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserBySchoolID(ctx, request.SchoolID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.LoginResult{}, ErrWrongCredentials
		}
		return models.LoginResult{}, fmt.Errorf("user lookup failed: %w", err)
	}

	if !user.IsActive {
		log.Warn().Int64("user_id", user.UserID).Msg("login: archived account")
		return models.LoginResult{}, ErrAccountArchived
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		log.Warn().Int64("user_id", user.UserID).Msg("login: wrong password")
		return models.LoginResult{}, ErrWrongCredentials
	}

	if user.FirstLogin {
		return models.LoginResult{Next: models.NextPasswordChange, UserID: user.UserID}, nil
	}

	if user.OTPEnabled {
		if err = a.issueOTP(ctx, user); err != nil {
			return models.LoginResult{}, err
		}
		return models.LoginResult{Next: models.NextOTP, UserID: user.UserID}, nil
	}

	return a.sessionResult(ctx, user)
}

// SendLoginOTP mails a fresh code to the account. An active challenge
// younger than the resend cooldown blocks the request; otherwise the old
// challenge is spent and a new one issued, so at most one code validates at
// any time.
func (a *authService) SendLoginOTP(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrInvalidDataProvided
		}
		return fmt.Errorf("user lookup failed: %w", err)
	}
	if !user.IsActive {
		return ErrAccountArchived
	}

	active, err := a.challengeRepository.ActiveOTPForUser(ctx, userID)
	switch {
	case err == nil:
		if time.Since(active.LastSentAt) < a.otpResendCooldown {
			log.Warn().Int64("user_id", userID).Msg("otp resend inside cooldown")
			return ErrOTPCooldown
		}
		if err = a.challengeRepository.ConsumeOTP(ctx, active.ID); err != nil && !errors.Is(err, store.ErrChallengeConsumed) {
			return fmt.Errorf("retiring previous code failed: %w", err)
		}
	case errors.Is(err, store.ErrChallengeNotFound):
		// no active challenge, issue the first one
	default:
		return fmt.Errorf("challenge lookup failed: %w", err)
	}

	return a.issueOTP(ctx, user)
}

// ValidateLoginOTP checks a submitted code against the account's active
// challenge. A correct code spends the challenge and yields the same branch
// outcomes as Login: a pending forced password change wins over the session.
// A wrong code burns an attempt, with the challenge retired once the attempt
// budget is exhausted.
func (a *authService) ValidateLoginOTP(ctx context.Context, request models.ValidateOTPRequest) (models.LoginResult, error) {
	log := logger.FromContext(ctx)

	if request.UserID == 0 || request.Code == "" {
		return models.LoginResult{}, ErrInvalidDataProvided
	}

	challenge, err := a.challengeRepository.ActiveOTPForUser(ctx, request.UserID)
	if err != nil {
		if errors.Is(err, store.ErrChallengeNotFound) {
			return models.LoginResult{}, ErrOTPNotRequested
		}
		return models.LoginResult{}, fmt.Errorf("challenge lookup failed: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(strings.TrimSpace(request.Code))) != nil {
		attempts, attemptErr := a.challengeRepository.RegisterOTPAttempt(ctx, challenge.ID)
		if attemptErr != nil && !errors.Is(attemptErr, store.ErrChallengeConsumed) {
			return models.LoginResult{}, fmt.Errorf("recording failed attempt: %w", attemptErr)
		}

		if attempts >= a.otpMaxAttempts {
			if consumeErr := a.challengeRepository.ConsumeOTP(ctx, challenge.ID); consumeErr != nil && !errors.Is(consumeErr, store.ErrChallengeConsumed) {
				return models.LoginResult{}, fmt.Errorf("retiring exhausted challenge: %w", consumeErr)
			}
			log.Warn().Int64("user_id", request.UserID).Msg("otp attempt budget exhausted")
			return models.LoginResult{}, ErrOTPAttemptsExceeded
		}

		log.Warn().Int64("user_id", request.UserID).Int("attempts", attempts).Msg("wrong otp code")
		return models.LoginResult{}, ErrOTPInvalid
	}

	if err = a.challengeRepository.ConsumeOTP(ctx, challenge.ID); err != nil {
		if errors.Is(err, store.ErrChallengeConsumed) {
			return models.LoginResult{}, ErrOTPNotRequested
		}
		return models.LoginResult{}, fmt.Errorf("spending challenge failed: %w", err)
	}

	user, err := a.userRepository.FindUserByID(ctx, request.UserID)
	if err != nil {
		return models.LoginResult{}, fmt.Errorf("user lookup failed: %w", err)
	}
	if !user.IsActive {
		return models.LoginResult{}, ErrAccountArchived
	}

	// The account state may have changed between login and validation;
	// a pending forced password change still blocks the session.
	if user.FirstLogin {
		return models.LoginResult{Next: models.NextPasswordChange, UserID: user.UserID}, nil
	}

	return a.sessionResult(ctx, user)
}

// UpdatePassword performs the forced password change. The new password must
// satisfy the policy and must differ from the current one; on success the
// stored hash is replaced and the first-login flag cleared atomically.
func (a *authService) UpdatePassword(ctx context.Context, request models.UpdatePasswordRequest) error {
	log := logger.FromContext(ctx)

	if request.UserID == 0 || request.CurrentPassword == "" || request.NewPassword == "" {
		return ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByID(ctx, request.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrInvalidDataProvided
		}
		return fmt.Errorf("user lookup failed: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.CurrentPassword)) != nil {
		log.Warn().Int64("user_id", user.UserID).Msg("password change: wrong current password")
		return ErrWrongCredentials
	}

	if err = validators.CheckPassword(request.NewPassword); err != nil {
		return err
	}

	if request.NewPassword == request.CurrentPassword {
		return ErrPasswordSameAsCurrent
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}

	if err = a.userRepository.UpdatePassword(ctx, user.UserID, string(newHash)); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("password update failed")
		return fmt.Errorf("password update failed: %w", err)
	}

	return nil
}

// UpdateFirstLogin clears the forced-change flag after the console confirms
// the password step completed.
func (a *authService) UpdateFirstLogin(ctx context.Context, userID int64) error {
	if userID == 0 {
		return ErrInvalidDataProvided
	}

	if err := a.userRepository.SetFirstLogin(ctx, userID, false); err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrInvalidDataProvided
		}
		return fmt.Errorf("clearing first-login flag failed: %w", err)
	}

	return nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim and the user's role as a custom claim, and
// expires after tokenDuration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateSessionToken(a.tokenIssuer, user.UserID, user.RoleID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseSessionToken, verifying the signature
// and the issuer claim. Any validation failure (expired, wrong issuer,
// malformed) is normalised to ErrTokenIsExpiredOrInvalid so that callers do
// not need to inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseSessionToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// issueOTP creates a challenge for the user and mails the code. The code
// only ever exists in memory and in the mail body; at rest there is just
// the bcrypt digest.
func (a *authService) issueOTP(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("otp generation failed: %w", err)
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing otp code: %w", err)
	}

	now := time.Now()
	challenge := models.OTPChallenge{
		ID:         a.uuid.Generate(),
		UserID:     user.UserID,
		CodeHash:   string(codeHash),
		ExpiresAt:  now.Add(a.otpTTL),
		LastSentAt: now,
	}

	if err = a.challengeRepository.CreateOTP(ctx, challenge); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("otp persistence failed")
		return fmt.Errorf("otp persistence failed: %w", err)
	}

	if err = a.mailer.SendOTP(ctx, user.Email, code, challenge.ExpiresAt); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("otp delivery failed")
		return fmt.Errorf("otp delivery failed: %w", err)
	}

	return nil
}

// sessionResult issues a token and assembles the full session payload.
func (a *authService) sessionResult(ctx context.Context, user models.User) (models.LoginResult, error) {
	token, err := a.CreateToken(ctx, user)
	if err != nil {
		return models.LoginResult{}, err
	}

	return models.LoginResult{
		Next:         models.NextSession,
		UserID:       user.UserID,
		Token:        token.SignedString,
		User:         &user,
		LandingRoute: models.LandingRouteForRole(user.RoleID),
	}, nil
}
