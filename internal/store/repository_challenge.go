package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/models"
)

// challengeRepository is the PostgreSQL-backed implementation of
// [ChallengeRepository]. Captcha and OTP challenges are single-use rows;
// consumption happens in one conditional UPDATE so two concurrent login
// attempts can never both spend the same challenge.
type challengeRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewChallengeRepository constructs a [ChallengeRepository] backed by the
// provided database connection and logger.
func NewChallengeRepository(db *DB, logger *logger.Logger) ChallengeRepository {
	logger.Debug().Msg("creating challenge repository")
	return &challengeRepository{
		db:     db,
		logger: logger,
	}
}

// CreateCaptcha persists an issued captcha challenge. The Text field of the
// input must already hold the keyed hash of the answer; plaintext answers
// are never stored.
func (r *challengeRepository) CreateCaptcha(ctx context.Context, challenge models.CaptchaChallenge) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, createCaptcha, challenge.ID, challenge.Text, challenge.ExpiresAt)
	if err != nil {
		log.Err(err).Str("func", "*challengeRepository.CreateCaptcha").Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ConsumeCaptcha spends a captcha challenge and returns its stored answer
// hash. The UPDATE only matches an unconsumed, unexpired row, so expired,
// unknown, and already-spent challenges all surface as
// [ErrChallengeNotFound].
func (r *challengeRepository) ConsumeCaptcha(ctx context.Context, captchaID string) (models.CaptchaChallenge, error) {
	log := logger.FromContext(ctx)

	var challenge models.CaptchaChallenge
	row := r.db.QueryRowContext(ctx, consumeCaptcha, captchaID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*challengeRepository.ConsumeCaptcha").Msg("error: row is nil")
		return models.CaptchaChallenge{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	err := row.Scan(&challenge.ID, &challenge.Text, &challenge.ExpiresAt, &challenge.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CaptchaChallenge{}, ErrChallengeNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*challengeRepository.ConsumeCaptcha").Msg("error: scanning error")
		return models.CaptchaChallenge{}, err
	}

	challenge.Consumed = true
	return challenge, nil
}

// CreateOTP persists an issued OTP challenge. CodeHash must be the bcrypt
// digest of the code; the code itself is only ever mailed.
func (r *challengeRepository) CreateOTP(ctx context.Context, challenge models.OTPChallenge) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, createOTP,
		challenge.ID, challenge.UserID, challenge.CodeHash, challenge.ExpiresAt, challenge.LastSentAt)
	if err != nil {
		log.Err(err).Str("func", "*challengeRepository.CreateOTP").Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ActiveOTPForUser returns the newest unconsumed, unexpired OTP challenge
// for the given account, or [ErrChallengeNotFound] when none exists.
func (r *challengeRepository) ActiveOTPForUser(ctx context.Context, userID int64) (models.OTPChallenge, error) {
	log := logger.FromContext(ctx)

	var challenge models.OTPChallenge
	row := r.db.QueryRowContext(ctx, activeOTPForUser, userID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*challengeRepository.ActiveOTPForUser").Msg("error: row is nil")
		return models.OTPChallenge{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	err := row.Scan(&challenge.ID, &challenge.UserID, &challenge.CodeHash, &challenge.Attempts,
		&challenge.ExpiresAt, &challenge.LastSentAt, &challenge.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.OTPChallenge{}, ErrChallengeNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*challengeRepository.ActiveOTPForUser").Msg("error: scanning error")
		return models.OTPChallenge{}, err
	}

	return challenge, nil
}

// RegisterOTPAttempt increments the failed-validation counter and returns
// the new total. An already-consumed challenge returns
// [ErrChallengeConsumed].
func (r *challengeRepository) RegisterOTPAttempt(ctx context.Context, challengeID string) (int, error) {
	log := logger.FromContext(ctx)

	var attempts int
	row := r.db.QueryRowContext(ctx, registerOTPAttempt, challengeID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*challengeRepository.RegisterOTPAttempt").Msg("error: row is nil")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	err := row.Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrChallengeConsumed
	}
	if err != nil {
		log.Err(err).Str("func", "*challengeRepository.RegisterOTPAttempt").Msg("error: scanning error")
		return 0, err
	}

	return attempts, nil
}

// ConsumeOTP spends an OTP challenge. Spending an already-consumed
// challenge returns [ErrChallengeConsumed].
func (r *challengeRepository) ConsumeOTP(ctx context.Context, challengeID string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, consumeOTP, challengeID)
	if err != nil {
		log.Err(err).Str("func", "*challengeRepository.ConsumeOTP").Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrChallengeConsumed
	}

	return nil
}

// PurgeExpired deletes consumed and expired challenges of both kinds and
// returns the number of rows removed. Called by the background cleanup job.
func (r *challengeRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	var purged int64
	for _, query := range []string{purgeExpiredCaptchas, purgeExpiredOTPs} {
		result, err := r.db.ExecContext(ctx, query, now)
		if err != nil {
			log.Err(err).Str("func", "*challengeRepository.PurgeExpired").Msg("error: executing statement")
			return purged, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return purged, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		purged += affected
	}

	return purged, nil
}
