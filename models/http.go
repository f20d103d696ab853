package models

import "encoding/json"

// Envelope response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the wire shape of every console request. The operation name
// selects server-side behavior; the operation payload travels in the same
// JSON object and is decoded a second time into the payload struct once the
// operation is known.
type Envelope struct {
	Operation string `json:"operation"`
}

// Response is the wire shape of every console reply. Exactly one of Data or
// Message is populated, depending on Status.
type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// DecodeEnvelope extracts the operation name from a raw request body.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(body, &env)
	return env, err
}

// Next-step markers returned by the authentication operations. They tell
// the console which screen of the login flow to present.
const (
	NextOTP            = "otp"
	NextPasswordChange = "password_change"
	NextSession        = "session"
)

// LoginRequest is the payload of the "login" operation.
type LoginRequest struct {
	// SchoolID is the campus identifier, three dash-separated segments.
	SchoolID string `json:"school_id"`

	// Password is the plaintext password, verified against the stored
	// bcrypt hash. Never logged.
	Password string `json:"password"`

	// CaptchaID and CaptchaAnswer reference a previously issued captcha
	// challenge. The challenge is consumed by this attempt regardless of
	// the outcome.
	CaptchaID     string `json:"captcha_id"`
	CaptchaAnswer string `json:"captcha_answer"`
}

// LoginResult is the payload returned by "login" and "validateLoginOTP".
// Next selects the console's next screen; Token and User are only present
// when Next is [NextSession].
type LoginResult struct {
	Next         string `json:"next"`
	UserID       int64  `json:"user_id,omitempty"`
	Token        string `json:"token,omitempty"`
	User         *User  `json:"user,omitempty"`
	LandingRoute string `json:"landing_route,omitempty"`
}

// SendOTPRequest is the payload of the "sendLoginOTP" operation.
type SendOTPRequest struct {
	UserID int64 `json:"user_id"`
}

// ValidateOTPRequest is the payload of the "validateLoginOTP" operation.
type ValidateOTPRequest struct {
	UserID int64  `json:"user_id"`
	Code   string `json:"code"`
}

// UpdatePasswordRequest is the payload of the "updatePassword" operation
// used by the forced password change step.
type UpdatePasswordRequest struct {
	UserID          int64  `json:"user_id"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateFirstLoginRequest is the payload of the "updateFirstLogin"
// operation that clears the forced-change flag after a successful
// password update.
type UpdateFirstLoginRequest struct {
	UserID int64 `json:"user_id"`
}

// Sort directions accepted by list operations.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListQuery is the payload of the "fetchResources" and "fetchUsers"
// operations. Filtering, sorting, and pagination run server-side over the
// full fetched set.
type ListQuery struct {
	ResourceType    ResourceKind `json:"resource_type,omitempty"`
	Search          string       `json:"search,omitempty"`
	SortField       string       `json:"sort_field,omitempty"`
	SortOrder       string       `json:"sort_order,omitempty"`
	Page            int          `json:"page,omitempty"`
	PageSize        int          `json:"page_size,omitempty"`
	IncludeArchived bool         `json:"include_archived,omitempty"`
}

// ResourceList is the paged reply to "fetchResources".
type ResourceList struct {
	Items    []Resource `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// UserList is the paged reply to "fetchUsers".
type UserList struct {
	Items    []User `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// FetchRequest is the payload of the single-record "fetchResource" and
// "fetchUser" operations. Edit screens re-fetch by id to seed the form
// with a fresh copy instead of the row already rendered.
type FetchRequest struct {
	ResourceType ResourceKind `json:"resource_type,omitempty"`
	ID           int64        `json:"id"`
}

// ArchiveRequest is the payload of "archiveResource"/"unarchiveResource".
type ArchiveRequest struct {
	ResourceType ResourceKind `json:"resource_type"`
	ID           int64        `json:"id"`
}

// ArchiveUserRequest is the payload of "archiveUser"/"unarchiveUser". The
// console sends the human role label; the server maps it to a user-type
// tag through a fixed lookup.
type ArchiveUserRequest struct {
	UserID    int64  `json:"user_id"`
	RoleLabel string `json:"role_label"`
}

// ResourceCount is one row of the dashboard statistics reply.
type ResourceCount struct {
	Kind     ResourceKind `json:"resource_type"`
	Active   int          `json:"active"`
	Archived int          `json:"archived"`
}

// RoleCount is one row of the per-role user statistics.
type RoleCount struct {
	RoleID int `json:"role_id"`
	Count  int `json:"count"`
}

// Stats is the reply to "fetchStats".
type Stats struct {
	Resources []ResourceCount `json:"resources"`
	Users     []RoleCount     `json:"users"`
}

// MarkNotificationRequest is the payload of "markNotificationRead".
type MarkNotificationRequest struct {
	NotificationID int64 `json:"notification_id"`
}
