package service

import (
	"context"
	"time"

	"github.com/gsdportal/reserva-api/models"
)

// AuthService drives the login flow: captcha issue and verification,
// credential checks, the OTP second factor, the forced password change,
// and session token lifecycle.
type AuthService interface {
	FetchCaptcha(ctx context.Context) (models.CaptchaChallenge, error)
	Login(ctx context.Context, request models.LoginRequest) (models.LoginResult, error)
	SendLoginOTP(ctx context.Context, userID int64) error
	ValidateLoginOTP(ctx context.Context, request models.ValidateOTPRequest) (models.LoginResult, error)
	UpdatePassword(ctx context.Context, request models.UpdatePasswordRequest) error
	UpdateFirstLogin(ctx context.Context, userID int64) error
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// ResourceService is the master-data CRUD surface shared by every resource
// kind. Archive and restore are the only delete operations; rows never
// disappear.
type ResourceService interface {
	ListResources(ctx context.Context, query models.ListQuery) (models.ResourceList, error)
	FetchResource(ctx context.Context, kind models.ResourceKind, id int64) (models.Resource, error)
	SaveResource(ctx context.Context, resource models.Resource, actor Actor) (models.Resource, error)
	UpdateResource(ctx context.Context, resource models.Resource, actor Actor) (models.Resource, error)
	SetResourceArchived(ctx context.Context, kind models.ResourceKind, id int64, archived bool, actor Actor) error
}

// UserAdminService manages console accounts the same way ResourceService
// manages master data.
type UserAdminService interface {
	ListUsers(ctx context.Context, query models.ListQuery) (models.UserList, error)
	FetchUser(ctx context.Context, userID int64) (models.User, error)
	SaveUser(ctx context.Context, user models.User, actor Actor) (models.User, error)
	UpdateUser(ctx context.Context, user models.User, actor Actor) (models.User, error)
	SetUserArchived(ctx context.Context, request models.ArchiveUserRequest, archived bool, actor Actor) error
}

// DashboardService serves the landing-screen widgets.
type DashboardService interface {
	Stats(ctx context.Context) (models.Stats, error)
	ApprovalNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID int64) error
}

// OTPMailer delivers a one-time code to an account's mailbox. The concrete
// implementation talks to the campus mail gateway.
type OTPMailer interface {
	SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error
}

// Actor identifies the authenticated caller of a mutating operation. It is
// extracted from the session token by the transport layer and stamped onto
// every created or modified row.
type Actor struct {
	UserID int64
	Role   int
}

// AdminIDs splits the actor into the audit column pair: super admins stamp
// super_admin_id, everyone else stamps admin_id.
func (a Actor) AdminIDs() (adminID, superAdminID *int64) {
	id := a.UserID
	if a.Role == models.RoleSuperAdmin {
		return nil, &id
	}
	return &id, nil
}
