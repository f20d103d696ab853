package models

import "time"

// Notification is an approval notice addressed to a console user. The
// dashboard polls unread notifications; reading one flips IsRead, the row
// itself is kept for the audit trail until the retention job prunes it.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Notification model.
func (n Notification) TableName() string {
	return "notifications"
}
