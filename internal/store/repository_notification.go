package store

import (
	"context"
	"fmt"
	"time"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/models"
)

// notificationRepository is the PostgreSQL-backed implementation of
// [NotificationRepository].
type notificationRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewNotificationRepository constructs a [NotificationRepository] backed by
// the provided database connection and logger.
func NewNotificationRepository(db *DB, logger *logger.Logger) NotificationRepository {
	logger.Debug().Msg("creating notification repository")
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

// CreateNotification persists an approval notice and returns the stored row.
func (r *notificationRepository) CreateNotification(ctx context.Context, notification models.Notification) (models.Notification, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createNotification,
		notification.UserID, notification.Kind, notification.Message)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*notificationRepository.CreateNotification").Msg("error: row is nil")
		return models.Notification{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var created models.Notification
	err := row.Scan(&created.ID, &created.UserID, &created.Kind, &created.Message,
		&created.IsRead, &created.CreatedAt)
	if err != nil {
		log.Err(err).Str("func", "*notificationRepository.CreateNotification").Msg("error: scanning error")
		return models.Notification{}, err
	}

	return created, nil
}

// UnreadForUser returns the unread notices of one account, newest first.
func (r *notificationRepository) UnreadForUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, unreadNotificationsForUser, userID)
	if err != nil {
		log.Err(err).Str("func", "*notificationRepository.UnreadForUser").Msg("error: executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var notification models.Notification
		if err = rows.Scan(&notification.ID, &notification.UserID, &notification.Kind,
			&notification.Message, &notification.IsRead, &notification.CreatedAt); err != nil {
			log.Err(err).Str("func", "*notificationRepository.UnreadForUser").Msg("error: scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		notifications = append(notifications, notification)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return notifications, nil
}

// MarkRead flips the read flag of one notice. The user ID is part of the
// match so an account can only read its own notices.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, notificationID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, markNotificationRead, notificationID, userID)
	if err != nil {
		log.Err(err).Str("func", "*notificationRepository.MarkRead").Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// PruneRead deletes read notices older than the given cutoff and returns
// the number of rows removed. Called by the background cleanup job.
func (r *notificationRepository) PruneRead(ctx context.Context, olderThan time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, pruneReadNotifications, olderThan)
	if err != nil {
		log.Err(err).Str("func", "*notificationRepository.PruneRead").Msg("error: executing statement")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}
