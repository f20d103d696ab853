package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/gsdportal/reserva-api/internal/config"
	"github.com/gsdportal/reserva-api/internal/listing"
	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/store"
	"github.com/gsdportal/reserva-api/internal/validators"
	"github.com/gsdportal/reserva-api/models"
)

// userListSpec wires accounts into the shared list pipeline.
var userListSpec = listing.Spec[models.User]{
	SearchFields: []func(models.User) string{
		func(u models.User) string { return u.Name },
		func(u models.User) string { return u.SchoolID },
		func(u models.User) string { return u.Email },
		func(u models.User) string { return u.Department },
	},
	SortKeys: map[string]func(a, b models.User) int{
		"name":       func(a, b models.User) int { return listing.CompareStrings(a.Name, b.Name) },
		"school_id":  func(a, b models.User) int { return listing.CompareStrings(a.SchoolID, b.SchoolID) },
		"email":      func(a, b models.User) int { return listing.CompareStrings(a.Email, b.Email) },
		"department": func(a, b models.User) int { return listing.CompareStrings(a.Department, b.Department) },
		"role_id":    func(a, b models.User) int { return a.RoleID - b.RoleID },
		"created_at": func(a, b models.User) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
}

// roleLabels maps the human role labels the console sends on user
// archival to role identifiers. The mapping is fixed, not inferred from
// the label text.
var roleLabels = map[string]int{
	"admin":       models.RoleAdmin,
	"dean":        models.RoleDean,
	"personnel":   models.RolePersonnel,
	"super admin": models.RoleSuperAdmin,
	"driver":      models.RoleDriver,
	"user":        models.RoleUser,
}

// userAdminService is the concrete implementation of UserAdminService. It
// mirrors the master-data CRUD surface for console accounts, with the
// credential bootstrap on creation as the one extra concern.
type userAdminService struct {
	userRepository store.UserRepository

	// defaultPassword seeds new accounts; the owner must replace it on
	// first login.
	defaultPassword string

	logger *logger.Logger
}

// NewUserAdminService constructs a UserAdminService backed by the given
// repository.
func NewUserAdminService(users store.UserRepository, cfg config.App, logger *logger.Logger) UserAdminService {
	return &userAdminService{
		userRepository:  users,
		defaultPassword: cfg.DefaultPassword,
		logger:          logger,
	}
}

// ListUsers fetches every account and runs the set through the filter,
// sort, and pagination pipeline.
func (s *userAdminService) ListUsers(ctx context.Context, query models.ListQuery) (models.UserList, error) {
	users, err := s.userRepository.ListUsers(ctx, query.IncludeArchived)
	if err != nil {
		return models.UserList{}, fmt.Errorf("listing accounts failed: %w", err)
	}

	result := listing.Apply(users, listing.Query{
		Search:    query.Search,
		SortField: query.SortField,
		SortOrder: query.SortOrder,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}, userListSpec)

	return models.UserList{
		Items:    result.Items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	}, nil
}

// FetchUser returns a fresh copy of one account for the edit screen.
func (s *userAdminService) FetchUser(ctx context.Context, userID int64) (models.User, error) {
	if userID == 0 {
		return models.User{}, ErrInvalidDataProvided
	}

	user, err := s.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("fetching account failed: %w", err)
	}

	return user, nil
}

// SaveUser validates and persists a new account. The account starts active
// with the configured default password and the first-login flag set, so
// the owner is forced through the password change before any session.
func (s *userAdminService) SaveUser(ctx context.Context, user models.User, actor Actor) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := s.prepare(&user); err != nil {
		log.Warn().Err(err).Msg("rejected account payload")
		return models.User{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(s.defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing default password: %w", err)
	}

	user.PasswordHash = string(passwordHash)
	user.FirstLogin = true
	user.IsActive = true
	user.AdminID, user.SuperAdminID = actor.AdminIDs()

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrSchoolIDAlreadyExists) {
			return models.User{}, err
		}
		log.Err(err).Str("school_id", user.SchoolID).Msg("account creation failed")
		return models.User{}, fmt.Errorf("account creation failed: %w", err)
	}

	return created, nil
}

// UpdateUser validates and rewrites the profile fields of an account,
// restamping the audit columns. Credentials are untouched; those change
// only through the login flow.
func (s *userAdminService) UpdateUser(ctx context.Context, user models.User, actor Actor) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.UserID == 0 {
		return models.User{}, ErrInvalidDataProvided
	}
	if err := s.prepare(&user); err != nil {
		log.Warn().Err(err).Int64("user_id", user.UserID).Msg("rejected account payload")
		return models.User{}, err
	}

	user.AdminID, user.SuperAdminID = actor.AdminIDs()

	updated, err := s.userRepository.UpdateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) || errors.Is(err, store.ErrSchoolIDAlreadyExists) {
			return models.User{}, err
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("account update failed")
		return models.User{}, fmt.Errorf("account update failed: %w", err)
	}

	return updated, nil
}

// SetUserArchived flips the soft-delete flag of an account. The role label
// sent by the console must resolve through the fixed lookup; labels outside
// the table are rejected rather than guessed at.
func (s *userAdminService) SetUserArchived(ctx context.Context, request models.ArchiveUserRequest, archived bool, actor Actor) error {
	log := logger.FromContext(ctx)

	if request.UserID == 0 {
		return ErrInvalidDataProvided
	}

	label := strings.ToLower(strings.TrimSpace(request.RoleLabel))
	roleID, ok := roleLabels[label]
	if !ok {
		log.Warn().Str("role_label", request.RoleLabel).Msg("unknown role label on archive request")
		return ErrUnknownRoleLabel
	}

	user, err := s.userRepository.FindUserByID(ctx, request.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return err
		}
		return fmt.Errorf("fetching account failed: %w", err)
	}

	wantTag, _ := models.UserTypeTagForRole(roleID)
	haveTag, _ := models.UserTypeTagForRole(user.RoleID)
	if wantTag != haveTag {
		log.Warn().
			Str("role_label", request.RoleLabel).
			Str("account_tag", haveTag).
			Int64("user_id", user.UserID).
			Msg("role label does not match account")
		return ErrUnknownRoleLabel
	}

	if err = s.userRepository.SetUserActive(ctx, request.UserID, !archived); err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return err
		}
		return fmt.Errorf("archival toggle failed: %w", err)
	}

	log.Info().
		Int64("user_id", request.UserID).
		Bool("archived", archived).
		Int64("actor_id", actor.UserID).
		Msg("account availability changed")
	return nil
}

// prepare sanitizes the profile fields and checks the identity invariants
// shared by create and update.
func (s *userAdminService) prepare(user *models.User) error {
	user.SchoolID = strings.TrimSpace(user.SchoolID)
	user.Name = validators.SanitizeText(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	user.Department = validators.SanitizeText(user.Department)
	user.ContactNumber = validators.SanitizeText(user.ContactNumber)

	if !validators.ValidSchoolID(user.SchoolID) {
		return fmt.Errorf("%w: school ID", ErrInvalidDataProvided)
	}
	if user.Name == "" {
		return fmt.Errorf("%w: name", ErrInvalidDataProvided)
	}
	if user.Email == "" || !strings.Contains(user.Email, "@") {
		return fmt.Errorf("%w: email", ErrInvalidDataProvided)
	}
	if _, ok := models.UserTypeTagForRole(user.RoleID); !ok {
		return fmt.Errorf("%w: role %s", ErrInvalidDataProvided, strconv.Itoa(user.RoleID))
	}

	return nil
}
