package models

import "time"

// User represents a faculty or staff account managed through the admin
// console. It carries identity attributes, the role used for authorization
// decisions, and credential-related flags.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"user_id"`

	// SchoolID is the campus-issued identifier used as the login name.
	// Format: three dash-separated segments (e.g. "2021-00042-MN").
	SchoolID string `json:"school_id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email receives OTP codes and account notices.
	Email string `json:"email"`

	// ContactNumber is an optional phone contact.
	ContactNumber string `json:"contact_number,omitempty"`

	// Department is the campus department the user belongs to.
	Department string `json:"department,omitempty"`

	// RoleID selects the authorization role. See roles.go for known values.
	RoleID int `json:"role_id"`

	// PasswordHash stores the bcrypt digest of the user's password.
	// Never serialized and never plaintext.
	PasswordHash string `json:"-"`

	// FirstLogin marks accounts that must change their password before a
	// session is issued.
	FirstLogin bool `json:"first_login"`

	// OTPEnabled enables the e-mail OTP second factor on login.
	OTPEnabled bool `json:"otp_enabled"`

	// IsActive is the soft-delete flag. Archived accounts keep their row;
	// only this flag flips.
	IsActive bool `json:"is_active"`

	// AdminID and SuperAdminID record the actor that created or last
	// modified this record. Exactly one is populated, depending on the
	// caller's role.
	AdminID      *int64 `json:"admin_id,omitempty"`
	SuperAdminID *int64 `json:"super_admin_id,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
