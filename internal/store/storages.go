package store

import "github.com/gsdportal/reserva-api/internal/logger"

// Storages aggregates every repository behind one handle that the service
// layer receives at startup.
type Storages struct {
	UserRepository         UserRepository
	ResourceRepository     ResourceRepository
	ChallengeRepository    ChallengeRepository
	NotificationRepository NotificationRepository
}

// NewStorages wires all PostgreSQL repositories to the shared connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:         NewUserRepository(db, log),
		ResourceRepository:     NewResourceRepository(db, log),
		ChallengeRepository:    NewChallengeRepository(db, log),
		NotificationRepository: NewNotificationRepository(db, log),
	}
}
