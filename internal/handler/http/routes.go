package http

import (
	"io"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/service"
	"github.com/gsdportal/reserva-api/internal/utils"
	"github.com/gsdportal/reserva-api/models"
)

// maxBodySize caps console request bodies. Every operation payload is a
// small JSON object; anything larger is a malformed or hostile request.
const maxBodySize = 1 << 20

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth", h.dispatch(h.authOperations))
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/api/admin", h.dispatch(h.adminOperations))
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// dispatch reads the request body once, resolves the operation named in the
// envelope, enforces that operation's role allow-list, and forwards the body
// to the operation handler for payload decoding.
func (h *Handler) dispatch(operations map[string]operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			log.Err(err).Msg("error reading request body")
			utils.WriteError(w, "error reading request body", http.StatusBadRequest)
			return
		}

		envelope, err := models.DecodeEnvelope(body)
		if err != nil {
			log.Err(err).Msg("malformed request envelope")
			utils.WriteError(w, "malformed request envelope", http.StatusBadRequest)
			return
		}

		op, ok := operations[envelope.Operation]
		if !ok {
			log.Warn().Str("operation", envelope.Operation).Msg("unknown operation")
			utils.WriteError(w, ErrUnknownOperation.Error(), http.StatusBadRequest)
			return
		}

		if len(op.Roles) > 0 {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok || !slices.Contains(op.Roles, role) {
				log.Warn().Str("operation", envelope.Operation).Int("role", role).Msg("operation forbidden for role")
				utils.WriteError(w, ErrOperationForbidden.Error(), http.StatusForbidden)
				return
			}
		}

		op.Handle(w, r, body)
	}
}

// actorFromContext rebuilds the authenticated caller from the context values
// stored by the auth middleware.
func actorFromContext(r *http.Request) (service.Actor, bool) {
	userID, okUser := utils.GetUserIDFromContext(r.Context())
	role, okRole := utils.GetRoleFromContext(r.Context())
	if !okUser || !okRole {
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: role}, true
}
