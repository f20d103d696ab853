package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles console account creation, lookup, listing, and the credential
// and soft-delete statements against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new account and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// The INSERT uses the [createUser] prepared query which returns all columns
// via a RETURNING clause, so the caller receives the canonical database
// representation of the newly created account.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrSchoolIDAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.SchoolID, user.Name, user.Email, user.ContactNumber, user.Department,
		user.RoleID, user.PasswordHash, user.FirstLogin, user.OTPEnabled, user.IsActive,
		user.AdminID, user.SuperAdminID)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrSchoolIDAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	created, err := scanUser(row)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return created, nil
}

// FindUserBySchoolID retrieves the account whose school ID matches the
// given login name.
//
// Error handling:
//   - No matching row → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserBySchoolID(ctx context.Context, schoolID string) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findUserBySchoolID, schoolID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.FindUserBySchoolID").Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUserBySchoolID").Msg("error: scanning error")
		return models.User{}, err
	}

	return found, nil
}

// FindUserByID retrieves the account with the given internal identifier.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findUserByID, userID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.FindUserByID").Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUserByID").Msg("error: scanning error")
		return models.User{}, err
	}

	return found, nil
}

// ListUsers fetches every account, ordered by user_id. Archived accounts
// are included only when includeArchived is set; filtering, sorting and
// pagination of the result happen in the service layer.
func (r *userRepository) ListUsers(ctx context.Context, includeArchived bool) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListUsersQuery(includeArchived)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error: building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error: executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*userRepository.ListUsers").Msg("error: scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

// UpdateUser rewrites the mutable profile fields of an account and returns
// the stored row. Credentials and the soft-delete flag are managed through
// [UpdatePassword], [SetFirstLogin] and [SetUserActive].
//
// Error handling:
//   - No matching row → [ErrNoUserWasFound].
//   - PostgreSQL unique_violation (23505) → [ErrSchoolIDAlreadyExists].
func (r *userRepository) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error: building query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrSchoolIDAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	updated, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return updated, nil
}

// UpdatePassword replaces the stored password hash and clears the
// first-login flag in the same statement, so a forced password change
// cannot leave the account half-updated.
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.execExpectingRow(ctx, "*userRepository.UpdatePassword", updateUserPassword, ErrNoUserWasFound, userID, passwordHash)
}

// SetFirstLogin flips the forced-password-change flag.
func (r *userRepository) SetFirstLogin(ctx context.Context, userID int64, firstLogin bool) error {
	return r.execExpectingRow(ctx, "*userRepository.SetFirstLogin", setUserFirstLogin, ErrNoUserWasFound, userID, firstLogin)
}

// SetUserActive archives or restores an account. Only the availability
// flag changes; the rest of the row is left as it was.
func (r *userRepository) SetUserActive(ctx context.Context, userID int64, active bool) error {
	log := logger.FromContext(ctx)

	query, args, err := buildSetActiveQuery("users", "user_id", userID, active, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.SetUserActive").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execExpectingRow(ctx, "*userRepository.SetUserActive", query, ErrNoUserWasFound, args...)
}

// CountUsersByRole returns the number of active accounts per role for the
// dashboard statistics.
func (r *userRepository) CountUsersByRole(ctx context.Context) ([]models.RoleCount, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, countUsersByRole)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CountUsersByRole").Msg("error: executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	counts := make([]models.RoleCount, 0)
	for rows.Next() {
		var count models.RoleCount
		if err = rows.Scan(&count.RoleID, &count.Count); err != nil {
			log.Err(err).Str("func", "*userRepository.CountUsersByRole").Msg("error: scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		counts = append(counts, count)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return counts, nil
}

// execExpectingRow runs a DML statement that must touch exactly one row and
// maps a zero-row outcome to the supplied sentinel.
func (r *userRepository) execExpectingRow(ctx context.Context, fn, query string, notFound error, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return notFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	err := row.Scan(&user.UserID, &user.SchoolID, &user.Name, &user.Email,
		&user.ContactNumber, &user.Department, &user.RoleID, &user.PasswordHash,
		&user.FirstLogin, &user.OTPEnabled, &user.IsActive,
		&user.AdminID, &user.SuperAdminID, &user.CreatedAt)
	return user, err
}
