package http

import (
	"net/http"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/service"
	"github.com/gsdportal/reserva-api/models"
)

// operationFunc handles a single console operation. The raw request body is
// passed in because the envelope and the operation payload share one JSON
// object and the body has already been consumed by the dispatcher.
type operationFunc func(w http.ResponseWriter, r *http.Request, body []byte)

// operation binds a handler to the roles allowed to call it. An empty Roles
// slice admits any authenticated caller.
type operation struct {
	Handle operationFunc
	Roles  []int
}

type Handler struct {
	services *service.Services

	logger *logger.Logger

	authOperations  map[string]operation
	adminOperations map[string]operation
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		logger:   logger,
	}

	h.authOperations = map[string]operation{
		"fetchCaptcha":     {Handle: h.fetchCaptcha},
		"login":            {Handle: h.login},
		"sendLoginOTP":     {Handle: h.sendLoginOTP},
		"validateLoginOTP": {Handle: h.validateLoginOTP},
		"updatePassword":   {Handle: h.updatePassword},
		"updateFirstLogin": {Handle: h.updateFirstLogin},
	}

	adminOnly := []int{models.RoleAdmin, models.RoleSuperAdmin}
	h.adminOperations = map[string]operation{
		"fetchResources":    {Handle: h.fetchResources, Roles: adminOnly},
		"fetchResource":     {Handle: h.fetchResource, Roles: adminOnly},
		"saveResource":      {Handle: h.saveResource, Roles: adminOnly},
		"updateResource":    {Handle: h.updateResource, Roles: adminOnly},
		"archiveResource":   {Handle: h.archiveResource, Roles: adminOnly},
		"unarchiveResource": {Handle: h.unarchiveResource, Roles: adminOnly},
		"fetchUsers":        {Handle: h.fetchUsers, Roles: adminOnly},
		"fetchUser":         {Handle: h.fetchUser, Roles: adminOnly},
		"saveUser":          {Handle: h.saveUser, Roles: adminOnly},
		"updateUser":        {Handle: h.updateUser, Roles: adminOnly},
		"archiveUser":       {Handle: h.archiveUser, Roles: adminOnly},
		"unarchiveUser":     {Handle: h.unarchiveUser, Roles: adminOnly},
		"fetchStats":        {Handle: h.fetchStats, Roles: adminOnly},

		// Approval notifications are personal: any signed-in account may
		// read and acknowledge its own.
		"fetchApprovalNotification": {Handle: h.fetchApprovalNotification},
		"markNotificationRead":      {Handle: h.markNotificationRead},
	}

	logger.Info().Msg("http handler created")

	return h
}
