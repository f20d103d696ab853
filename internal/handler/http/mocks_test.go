package http

import (
	"context"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/service"
	"github.com/gsdportal/reserva-api/models"
)

// ------------------------- service mocks -------------------------

type mockAuthService struct {
	fetchCaptchaFn     func(ctx context.Context) (models.CaptchaChallenge, error)
	loginFn            func(ctx context.Context, request models.LoginRequest) (models.LoginResult, error)
	sendLoginOTPFn     func(ctx context.Context, userID int64) error
	validateLoginOTPFn func(ctx context.Context, request models.ValidateOTPRequest) (models.LoginResult, error)
	updatePasswordFn   func(ctx context.Context, request models.UpdatePasswordRequest) error
	updateFirstLoginFn func(ctx context.Context, userID int64) error
	createTokenFn      func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn       func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) FetchCaptcha(ctx context.Context) (models.CaptchaChallenge, error) {
	return m.fetchCaptchaFn(ctx)
}

func (m *mockAuthService) Login(ctx context.Context, request models.LoginRequest) (models.LoginResult, error) {
	return m.loginFn(ctx, request)
}

func (m *mockAuthService) SendLoginOTP(ctx context.Context, userID int64) error {
	return m.sendLoginOTPFn(ctx, userID)
}

func (m *mockAuthService) ValidateLoginOTP(ctx context.Context, request models.ValidateOTPRequest) (models.LoginResult, error) {
	return m.validateLoginOTPFn(ctx, request)
}

func (m *mockAuthService) UpdatePassword(ctx context.Context, request models.UpdatePasswordRequest) error {
	return m.updatePasswordFn(ctx, request)
}

func (m *mockAuthService) UpdateFirstLogin(ctx context.Context, userID int64) error {
	return m.updateFirstLoginFn(ctx, userID)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

type mockResourceService struct {
	listResourcesFn       func(ctx context.Context, query models.ListQuery) (models.ResourceList, error)
	fetchResourceFn       func(ctx context.Context, kind models.ResourceKind, id int64) (models.Resource, error)
	saveResourceFn        func(ctx context.Context, resource models.Resource, actor service.Actor) (models.Resource, error)
	updateResourceFn      func(ctx context.Context, resource models.Resource, actor service.Actor) (models.Resource, error)
	setResourceArchivedFn func(ctx context.Context, kind models.ResourceKind, id int64, archived bool, actor service.Actor) error
}

func (m *mockResourceService) ListResources(ctx context.Context, query models.ListQuery) (models.ResourceList, error) {
	return m.listResourcesFn(ctx, query)
}

func (m *mockResourceService) FetchResource(ctx context.Context, kind models.ResourceKind, id int64) (models.Resource, error) {
	return m.fetchResourceFn(ctx, kind, id)
}

func (m *mockResourceService) SaveResource(ctx context.Context, resource models.Resource, actor service.Actor) (models.Resource, error) {
	return m.saveResourceFn(ctx, resource, actor)
}

func (m *mockResourceService) UpdateResource(ctx context.Context, resource models.Resource, actor service.Actor) (models.Resource, error) {
	return m.updateResourceFn(ctx, resource, actor)
}

func (m *mockResourceService) SetResourceArchived(ctx context.Context, kind models.ResourceKind, id int64, archived bool, actor service.Actor) error {
	return m.setResourceArchivedFn(ctx, kind, id, archived, actor)
}

type mockUserAdminService struct {
	listUsersFn       func(ctx context.Context, query models.ListQuery) (models.UserList, error)
	fetchUserFn       func(ctx context.Context, userID int64) (models.User, error)
	saveUserFn        func(ctx context.Context, user models.User, actor service.Actor) (models.User, error)
	updateUserFn      func(ctx context.Context, user models.User, actor service.Actor) (models.User, error)
	setUserArchivedFn func(ctx context.Context, request models.ArchiveUserRequest, archived bool, actor service.Actor) error
}

func (m *mockUserAdminService) ListUsers(ctx context.Context, query models.ListQuery) (models.UserList, error) {
	return m.listUsersFn(ctx, query)
}

func (m *mockUserAdminService) FetchUser(ctx context.Context, userID int64) (models.User, error) {
	return m.fetchUserFn(ctx, userID)
}

func (m *mockUserAdminService) SaveUser(ctx context.Context, user models.User, actor service.Actor) (models.User, error) {
	return m.saveUserFn(ctx, user, actor)
}

func (m *mockUserAdminService) UpdateUser(ctx context.Context, user models.User, actor service.Actor) (models.User, error) {
	return m.updateUserFn(ctx, user, actor)
}

func (m *mockUserAdminService) SetUserArchived(ctx context.Context, request models.ArchiveUserRequest, archived bool, actor service.Actor) error {
	return m.setUserArchivedFn(ctx, request, archived, actor)
}

type mockDashboardService struct {
	statsFn                 func(ctx context.Context) (models.Stats, error)
	approvalNotificationsFn func(ctx context.Context, userID int64) ([]models.Notification, error)
	markNotificationReadFn  func(ctx context.Context, userID, notificationID int64) error
}

func (m *mockDashboardService) Stats(ctx context.Context) (models.Stats, error) {
	return m.statsFn(ctx)
}

func (m *mockDashboardService) ApprovalNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	return m.approvalNotificationsFn(ctx, userID)
}

func (m *mockDashboardService) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	return m.markNotificationReadFn(ctx, userID, notificationID)
}

// ------------------------- helpers -------------------------

// sessionToken builds a parsed token the way the auth middleware sees it
// after successful validation.
func sessionToken(userID int64, role int) models.Token {
	return models.Token{UserID: userID, Role: role}
}

// acceptAnyToken is a ParseToken stub that authenticates every request as
// the given caller.
func acceptAnyToken(userID int64, role int) func(ctx context.Context, tokenString string) (models.Token, error) {
	return func(ctx context.Context, tokenString string) (models.Token, error) {
		return sessionToken(userID, role), nil
	}
}

// newHandlerWithServices builds a Handler around the given mocks with a
// nop logger. Nil mocks are left nil; tests only wire what they exercise.
func newHandlerWithServices(auth service.AuthService, resources service.ResourceService, users service.UserAdminService, dashboard service.DashboardService) *Handler {
	return NewHandler(&service.Services{
		AuthService:      auth,
		ResourceService:  resources,
		UserAdminService: users,
		DashboardService: dashboard,
	}, logger.Nop())
}
