package service

import (
	"context"
	"time"

	"github.com/gsdportal/reserva-api/models"
)

// Mock: store.UserRepository

type mockUserRepository struct {
	createFn         func(ctx context.Context, user models.User) (models.User, error)
	findBySchoolIDFn func(ctx context.Context, schoolID string) (models.User, error)
	findByIDFn       func(ctx context.Context, userID int64) (models.User, error)
	listFn           func(ctx context.Context, includeArchived bool) ([]models.User, error)
	updateFn         func(ctx context.Context, user models.User) (models.User, error)
	updatePasswordFn func(ctx context.Context, userID int64, passwordHash string) error
	setFirstLoginFn  func(ctx context.Context, userID int64, firstLogin bool) error
	setActiveFn      func(ctx context.Context, userID int64, active bool) error
	countByRoleFn    func(ctx context.Context) ([]models.RoleCount, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserBySchoolID(ctx context.Context, schoolID string) (models.User, error) {
	if m.findBySchoolIDFn != nil {
		return m.findBySchoolIDFn(ctx, schoolID)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, userID)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) ListUsers(ctx context.Context, includeArchived bool) ([]models.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, includeArchived)
	}
	return nil, nil
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepository) SetFirstLogin(ctx context.Context, userID int64, firstLogin bool) error {
	if m.setFirstLoginFn != nil {
		return m.setFirstLoginFn(ctx, userID, firstLogin)
	}
	return nil
}

func (m *mockUserRepository) SetUserActive(ctx context.Context, userID int64, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, userID, active)
	}
	return nil
}

func (m *mockUserRepository) CountUsersByRole(ctx context.Context) ([]models.RoleCount, error) {
	if m.countByRoleFn != nil {
		return m.countByRoleFn(ctx)
	}
	return nil, nil
}

// Mock: store.ResourceRepository

type mockResourceRepository struct {
	createFn      func(ctx context.Context, resource models.Resource) (models.Resource, error)
	findByIDFn    func(ctx context.Context, kind models.ResourceKind, id int64) (models.Resource, error)
	listFn        func(ctx context.Context, kind models.ResourceKind, includeArchived bool) ([]models.Resource, error)
	updateFn      func(ctx context.Context, resource models.Resource) (models.Resource, error)
	setActiveFn   func(ctx context.Context, kind models.ResourceKind, id int64, active bool) error
	countByKindFn func(ctx context.Context) ([]models.ResourceCount, error)
}

func (m *mockResourceRepository) CreateResource(ctx context.Context, resource models.Resource) (models.Resource, error) {
	if m.createFn != nil {
		return m.createFn(ctx, resource)
	}
	return resource, nil
}

func (m *mockResourceRepository) FindResourceByID(ctx context.Context, kind models.ResourceKind, id int64) (models.Resource, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, kind, id)
	}
	return models.Resource{}, nil
}

func (m *mockResourceRepository) ListResources(ctx context.Context, kind models.ResourceKind, includeArchived bool) ([]models.Resource, error) {
	if m.listFn != nil {
		return m.listFn(ctx, kind, includeArchived)
	}
	return nil, nil
}

func (m *mockResourceRepository) UpdateResource(ctx context.Context, resource models.Resource) (models.Resource, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, resource)
	}
	return resource, nil
}

func (m *mockResourceRepository) SetResourceActive(ctx context.Context, kind models.ResourceKind, id int64, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, kind, id, active)
	}
	return nil
}

func (m *mockResourceRepository) CountResourcesByKind(ctx context.Context) ([]models.ResourceCount, error) {
	if m.countByKindFn != nil {
		return m.countByKindFn(ctx)
	}
	return nil, nil
}

// Mock: store.ChallengeRepository

type mockChallengeRepository struct {
	createCaptchaFn  func(ctx context.Context, challenge models.CaptchaChallenge) error
	consumeCaptchaFn func(ctx context.Context, captchaID string) (models.CaptchaChallenge, error)
	createOTPFn      func(ctx context.Context, challenge models.OTPChallenge) error
	activeOTPFn      func(ctx context.Context, userID int64) (models.OTPChallenge, error)
	registerFn       func(ctx context.Context, challengeID string) (int, error)
	consumeOTPFn     func(ctx context.Context, challengeID string) error
	purgeFn          func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockChallengeRepository) CreateCaptcha(ctx context.Context, challenge models.CaptchaChallenge) error {
	if m.createCaptchaFn != nil {
		return m.createCaptchaFn(ctx, challenge)
	}
	return nil
}

func (m *mockChallengeRepository) ConsumeCaptcha(ctx context.Context, captchaID string) (models.CaptchaChallenge, error) {
	if m.consumeCaptchaFn != nil {
		return m.consumeCaptchaFn(ctx, captchaID)
	}
	return models.CaptchaChallenge{}, nil
}

func (m *mockChallengeRepository) CreateOTP(ctx context.Context, challenge models.OTPChallenge) error {
	if m.createOTPFn != nil {
		return m.createOTPFn(ctx, challenge)
	}
	return nil
}

func (m *mockChallengeRepository) ActiveOTPForUser(ctx context.Context, userID int64) (models.OTPChallenge, error) {
	if m.activeOTPFn != nil {
		return m.activeOTPFn(ctx, userID)
	}
	return models.OTPChallenge{}, nil
}

func (m *mockChallengeRepository) RegisterOTPAttempt(ctx context.Context, challengeID string) (int, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, challengeID)
	}
	return 0, nil
}

func (m *mockChallengeRepository) ConsumeOTP(ctx context.Context, challengeID string) error {
	if m.consumeOTPFn != nil {
		return m.consumeOTPFn(ctx, challengeID)
	}
	return nil
}

func (m *mockChallengeRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.purgeFn != nil {
		return m.purgeFn(ctx, now)
	}
	return 0, nil
}

// Mock: store.NotificationRepository

type mockNotificationRepository struct {
	createFn    func(ctx context.Context, notification models.Notification) (models.Notification, error)
	unreadFn    func(ctx context.Context, userID int64) ([]models.Notification, error)
	markReadFn  func(ctx context.Context, userID, notificationID int64) error
	pruneReadFn func(ctx context.Context, olderThan time.Time) (int64, error)
}

func (m *mockNotificationRepository) CreateNotification(ctx context.Context, notification models.Notification) (models.Notification, error) {
	if m.createFn != nil {
		return m.createFn(ctx, notification)
	}
	return notification, nil
}

func (m *mockNotificationRepository) UnreadForUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	if m.unreadFn != nil {
		return m.unreadFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, userID, notificationID int64) error {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, userID, notificationID)
	}
	return nil
}

func (m *mockNotificationRepository) PruneRead(ctx context.Context, olderThan time.Time) (int64, error) {
	if m.pruneReadFn != nil {
		return m.pruneReadFn(ctx, olderThan)
	}
	return 0, nil
}

// Mock: OTPMailer

type mockOTPMailer struct {
	sendFn func(ctx context.Context, email, code string, expiresAt time.Time) error
	sent   []string
}

func (m *mockOTPMailer) SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	m.sent = append(m.sent, code)
	if m.sendFn != nil {
		return m.sendFn(ctx, email, code, expiresAt)
	}
	return nil
}
