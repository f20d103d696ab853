package store

import (
	"context"
	"time"

	"github.com/gsdportal/reserva-api/models"
)

// ErrorClassificator decides whether a failed database operation is worth
// retrying. [PostgresErrorClassifier] is the production implementation.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// UserRepository persists console accounts. Accounts are soft-deleted:
// archiving flips is_active, the row itself stays.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserBySchoolID(ctx context.Context, schoolID string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	ListUsers(ctx context.Context, includeArchived bool) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	SetFirstLogin(ctx context.Context, userID int64, firstLogin bool) error
	SetUserActive(ctx context.Context, userID int64, active bool) error
	CountUsersByRole(ctx context.Context) ([]models.RoleCount, error)
}

// ResourceRepository persists master-data records of every kind in one
// table. Kind-specific fields live in the attributes JSONB column.
type ResourceRepository interface {
	CreateResource(ctx context.Context, resource models.Resource) (models.Resource, error)
	FindResourceByID(ctx context.Context, kind models.ResourceKind, id int64) (models.Resource, error)
	ListResources(ctx context.Context, kind models.ResourceKind, includeArchived bool) ([]models.Resource, error)
	UpdateResource(ctx context.Context, resource models.Resource) (models.Resource, error)
	SetResourceActive(ctx context.Context, kind models.ResourceKind, id int64, active bool) error
	CountResourcesByKind(ctx context.Context) ([]models.ResourceCount, error)
}

// ChallengeRepository persists single-use captcha and OTP challenges.
// Consumption is atomic: one UPDATE flips the consumed flag and returns the
// row, so concurrent attempts cannot both succeed.
type ChallengeRepository interface {
	CreateCaptcha(ctx context.Context, challenge models.CaptchaChallenge) error
	ConsumeCaptcha(ctx context.Context, captchaID string) (models.CaptchaChallenge, error)
	CreateOTP(ctx context.Context, challenge models.OTPChallenge) error
	ActiveOTPForUser(ctx context.Context, userID int64) (models.OTPChallenge, error)
	RegisterOTPAttempt(ctx context.Context, challengeID string) (int, error)
	ConsumeOTP(ctx context.Context, challengeID string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// NotificationRepository persists approval notices shown on the dashboard.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification models.Notification) (models.Notification, error)
	UnreadForUser(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	PruneRead(ctx context.Context, olderThan time.Time) (int64, error)
}
