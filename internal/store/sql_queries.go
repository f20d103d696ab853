package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/gsdportal/reserva-api/models"
)

// psql is the shared squirrel builder configured for PostgreSQL
// dollar-numbered placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	userColumns = `user_id, school_id, name, email, contact_number, department, role_id,
    password_hash, first_login, otp_enabled, is_active, admin_id, super_admin_id, created_at`

	resourceColumns = `id, resource_type, name, description, attributes, is_active,
    admin_id, super_admin_id, created_at, updated_at`

	createUser = `INSERT INTO users (school_id, name, email, contact_number, department, role_id,
    password_hash, first_login, otp_enabled, is_active, admin_id, super_admin_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    RETURNING ` + userColumns + `;`

	findUserBySchoolID = `SELECT ` + userColumns + `
    FROM users
    WHERE school_id = $1;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	updateUserPassword = `UPDATE users
    SET password_hash = $2, first_login = FALSE
    WHERE user_id = $1;`

	setUserFirstLogin = `UPDATE users
    SET first_login = $2
    WHERE user_id = $1;`

	countUsersByRole = `SELECT role_id, COUNT(*)
    FROM users
    WHERE is_active = TRUE
    GROUP BY role_id
    ORDER BY role_id;`

	createResource = `INSERT INTO resources (resource_type, name, description, attributes,
    is_active, admin_id, super_admin_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING ` + resourceColumns + `;`

	findResourceByID = `SELECT ` + resourceColumns + `
    FROM resources
    WHERE resource_type = $1 AND id = $2;`

	countResourcesByKind = `SELECT resource_type,
    COUNT(*) FILTER (WHERE is_active),
    COUNT(*) FILTER (WHERE NOT is_active)
    FROM resources
    GROUP BY resource_type
    ORDER BY resource_type;`

	createCaptcha = `INSERT INTO captcha_challenges (id, answer_hash, expires_at)
    VALUES ($1, $2, $3);`

	consumeCaptcha = `UPDATE captcha_challenges
    SET consumed = TRUE
    WHERE id = $1 AND consumed = FALSE AND expires_at > NOW()
    RETURNING id, answer_hash, expires_at, created_at;`

	createOTP = `INSERT INTO otp_challenges (id, user_id, code_hash, expires_at, last_sent_at)
    VALUES ($1, $2, $3, $4, $5);`

	activeOTPForUser = `SELECT id, user_id, code_hash, attempts, expires_at, last_sent_at, created_at
    FROM otp_challenges
    WHERE user_id = $1 AND consumed = FALSE AND expires_at > NOW()
    ORDER BY created_at DESC
    LIMIT 1;`

	registerOTPAttempt = `UPDATE otp_challenges
    SET attempts = attempts + 1
    WHERE id = $1 AND consumed = FALSE
    RETURNING attempts;`

	consumeOTP = `UPDATE otp_challenges
    SET consumed = TRUE
    WHERE id = $1 AND consumed = FALSE;`

	purgeExpiredCaptchas = `DELETE FROM captcha_challenges
    WHERE consumed = TRUE OR expires_at <= $1;`

	purgeExpiredOTPs = `DELETE FROM otp_challenges
    WHERE consumed = TRUE OR expires_at <= $1;`

	createNotification = `INSERT INTO notifications (user_id, kind, message)
    VALUES ($1, $2, $3)
    RETURNING id, user_id, kind, message, is_read, created_at;`

	unreadNotificationsForUser = `SELECT id, user_id, kind, message, is_read, created_at
    FROM notifications
    WHERE user_id = $1 AND is_read = FALSE
    ORDER BY created_at DESC;`

	markNotificationRead = `UPDATE notifications
    SET is_read = TRUE
    WHERE id = $1 AND user_id = $2 AND is_read = FALSE;`

	pruneReadNotifications = `DELETE FROM notifications
    WHERE is_read = TRUE AND created_at < $1;`
)

// buildListUsersQuery builds the SELECT used by ListUsers. Archived rows
// are included only when requested; the edit screens and the dashboard
// both work on active rows.
func buildListUsersQuery(includeArchived bool) (string, []any, error) {
	builder := psql.
		Select("user_id", "school_id", "name", "email", "contact_number", "department",
			"role_id", "password_hash", "first_login", "otp_enabled", "is_active",
			"admin_id", "super_admin_id", "created_at").
		From("users").
		OrderBy("user_id")

	if !includeArchived {
		builder = builder.Where(sq.Eq{"is_active": true})
	}

	return builder.ToSql()
}

// buildListResourcesQuery builds the SELECT used by ListResources for a
// single kind.
func buildListResourcesQuery(kind models.ResourceKind, includeArchived bool) (string, []any, error) {
	builder := psql.
		Select("id", "resource_type", "name", "description", "attributes", "is_active",
			"admin_id", "super_admin_id", "created_at", "updated_at").
		From("resources").
		Where(sq.Eq{"resource_type": string(kind)}).
		OrderBy("id")

	if !includeArchived {
		builder = builder.Where(sq.Eq{"is_active": true})
	}

	return builder.ToSql()
}

// buildUpdateUserQuery builds the UPDATE used by UpdateUser. Credentials
// and the soft-delete flag are managed through dedicated statements and are
// deliberately absent here.
func buildUpdateUserQuery(user models.User) (string, []any, error) {
	return psql.
		Update("users").
		Set("name", user.Name).
		Set("email", user.Email).
		Set("contact_number", user.ContactNumber).
		Set("department", user.Department).
		Set("role_id", user.RoleID).
		Set("otp_enabled", user.OTPEnabled).
		Set("admin_id", user.AdminID).
		Set("super_admin_id", user.SuperAdminID).
		Where(sq.Eq{"user_id": user.UserID}).
		Suffix("RETURNING " + userColumns).
		ToSql()
}

// buildUpdateResourceQuery builds the UPDATE used by UpdateResource.
// The attributes argument is the already-marshalled JSONB payload.
func buildUpdateResourceQuery(resource models.Resource, attributes []byte) (string, []any, error) {
	return psql.
		Update("resources").
		Set("name", resource.Name).
		Set("description", resource.Description).
		Set("attributes", attributes).
		Set("admin_id", resource.AdminID).
		Set("super_admin_id", resource.SuperAdminID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": resource.ID, "resource_type": string(resource.Kind)}).
		Suffix("RETURNING " + resourceColumns).
		ToSql()
}

// buildSetActiveQuery builds the archive/restore UPDATE for the given
// table. Only the availability flag changes; every other column, the
// audit pair included, survives an archive and restore round trip.
func buildSetActiveQuery(table, idColumn string, id int64, active bool, extra sq.Eq) (string, []any, error) {
	where := sq.Eq{idColumn: id}
	for column, value := range extra {
		where[column] = value
	}

	return psql.
		Update(table).
		Set("is_active", active).
		Where(where).
		ToSql()
}
