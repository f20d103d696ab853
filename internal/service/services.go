package service

import (
	"github.com/gsdportal/reserva-api/internal/config"
	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/store"
)

// Services aggregates every domain service behind one handle that the
// transport layer receives at startup.
type Services struct {
	AuthService      AuthService
	ResourceService  ResourceService
	UserAdminService UserAdminService
	DashboardService DashboardService
}

// NewServices wires all services to their repositories and shared
// configuration.
func NewServices(storages *store.Storages, mailer OTPMailer, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:      NewAuthService(storages.UserRepository, storages.ChallengeRepository, mailer, cfg.App, logger),
		ResourceService:  NewResourceService(storages.ResourceRepository, logger),
		UserAdminService: NewUserAdminService(storages.UserRepository, cfg.App, logger),
		DashboardService: NewDashboardService(storages.ResourceRepository, storages.UserRepository, storages.NotificationRepository, logger),
	}
}
