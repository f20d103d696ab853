package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/store"
	"github.com/gsdportal/reserva-api/models"
)

// dashboardService is the concrete implementation of DashboardService.
type dashboardService struct {
	resourceRepository     store.ResourceRepository
	userRepository         store.UserRepository
	notificationRepository store.NotificationRepository
	logger                 *logger.Logger
}

// NewDashboardService constructs a DashboardService over the repositories
// its widgets read from.
func NewDashboardService(resources store.ResourceRepository, users store.UserRepository, notifications store.NotificationRepository, logger *logger.Logger) DashboardService {
	return &dashboardService{
		resourceRepository:     resources,
		userRepository:         users,
		notificationRepository: notifications,
		logger:                 logger,
	}
}

// Stats assembles the landing-screen counters: active and archived records
// per resource kind plus active accounts per role.
func (s *dashboardService) Stats(ctx context.Context) (models.Stats, error) {
	resources, err := s.resourceRepository.CountResourcesByKind(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("counting resources failed: %w", err)
	}

	users, err := s.userRepository.CountUsersByRole(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("counting accounts failed: %w", err)
	}

	return models.Stats{Resources: resources, Users: users}, nil
}

// ApprovalNotifications returns the caller's unread notices, newest first.
func (s *dashboardService) ApprovalNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	if userID == 0 {
		return nil, ErrInvalidDataProvided
	}

	notifications, err := s.notificationRepository.UnreadForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching notifications failed: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead flips the read flag of one of the caller's notices.
func (s *dashboardService) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	if userID == 0 || notificationID == 0 {
		return ErrInvalidDataProvided
	}

	err := s.notificationRepository.MarkRead(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, store.ErrNotificationNotFound) {
			return err
		}
		return fmt.Errorf("marking notification read failed: %w", err)
	}

	return nil
}
