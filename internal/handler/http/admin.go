package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/service"
	"github.com/gsdportal/reserva-api/internal/utils"
	"github.com/gsdportal/reserva-api/models"
)

func (h *Handler) fetchResources(w http.ResponseWriter, r *http.Request, body []byte) {
	log := logger.FromRequest(r)

	var query models.ListQuery
	if err := json.Unmarshal(body, &query); err != nil {
		log.Err(err).Msg("malformed fetchResources payload")
		utils.WriteError(w, "malformed fetchResources payload", http.StatusBadRequest)
		return
	}

	list, err := h.services.ResourceService.ListResources(r.Context(), query)
	if err != nil {
		log.Err(err).Str("resource_type", string(query.ResourceType)).Msg("error listing resources")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, list)
}

func (h *Handler) fetchResource(w http.ResponseWriter, r *http.Request, body []byte) {
	log := logger.FromRequest(r)

	var request models.FetchRequest
	if err := json.Unmarshal(body, &request); err != nil {
		log.Err(err).Msg("malformed fetchResource payload")
		utils.WriteError(w, "malformed fetchResource payload", http.StatusBadRequest)
		return
	}

	resource, err := h.services.ResourceService.FetchResource(r.Context(), request.ResourceType, request.ID)
	if err != nil {
		log.Err(err).Int64("id", request.ID).Msg("error fetching resource")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, resource)
}

func (h *Handler) saveResource(w http.ResponseWriter, r *http.Request, body []byte) {
	h.persistResource(w, r, body, h.services.ResourceService.SaveResource)
}

func (h *Handler) updateResource(w http.ResponseWriter, r *http.Request, body []byte) {
	h.persistResource(w, r, body, h.services.ResourceService.UpdateResource)
}

// persistResource is the shared body of saveResource and updateResource.
// The two operations differ only in the service call they forward to.
func (h *Handler) persistResource(w http.ResponseWriter, r *http.Request, body []byte, persist func(ctx context.Context, resource models.Resource, actor service.Actor) (models.Resource, error)) {
	log := logger.FromRequest(r)

	actor, ok := actorFromContext(r)
	if !ok {
		log.Warn().Msg("authenticated caller missing from context")
		utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var resource models.Resource
	if err := json.Unmarshal(body, &resource); err != nil {
		log.Err(err).Msg("malformed resource payload")
		utils.WriteError(w, "malformed resource payload", http.StatusBadRequest)
		return
	}

	saved, err := persist(r.Context(), resource, actor)
	if err != nil {
		log.Err(err).Str("resource_type", string(resource.Kind)).Msg("error persisting resource")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, saved)
}

func (h *Handler) archiveResource(w http.ResponseWriter, r *http.Request, body []byte) {
	h.setResourceArchived(w, r, body, true)
}

func (h *Handler) unarchiveResource(w http.ResponseWriter, r *http.Request, body []byte) {
	h.setResourceArchived(w, r, body, false)
}

func (h *Handler) setResourceArchived(w http.ResponseWriter, r *http.Request, body []byte, archived bool) {
	log := logger.FromRequest(r)

	actor, ok := actorFromContext(r)
	if !ok {
		log.Warn().Msg("authenticated caller missing from context")
		utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var request models.ArchiveRequest
	if err := json.Unmarshal(body, &request); err != nil {
		log.Err(err).Msg("malformed archive payload")
		utils.WriteError(w, "malformed archive payload", http.StatusBadRequest)
		return
	}

	err := h.services.ResourceService.SetResourceArchived(r.Context(), request.ResourceType, request.ID, archived, actor)
	if err != nil {
		log.Err(err).Int64("id", request.ID).Bool("archived", archived).Msg("error toggling resource archive state")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, nil)
}

func (h *Handler) fetchUsers(w http.ResponseWriter, r *http.Request, body []byte) {
	log := logger.FromRequest(r)

	var query models.ListQuery
	if err := json.Unmarshal(body, &query); err != nil {
		log.Err(err).Msg("malformed fetchUsers payload")
		utils.WriteError(w, "malformed fetchUsers payload", http.StatusBadRequest)
		return
	}

	list, err := h.services.UserAdminService.ListUsers(r.Context(), query)
	if err != nil {
		log.Err(err).Msg("error listing users")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, list)
}

func (h *Handler) fetchUser(w http.ResponseWriter, r *http.Request, body []byte) {
	log := logger.FromRequest(r)

	var request models.FetchRequest
	if err := json.Unmarshal(body, &request); err != nil {
		log.Err(err).Msg("malformed fetchUser payload")
		utils.WriteError(w, "malformed fetchUser payload", http.StatusBadRequest)
		return
	}

	user, err := h.services.UserAdminService.FetchUser(r.Context(), request.ID)
	if err != nil {
		log.Err(err).Int64("id", request.ID).Msg("error fetching user")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, user)
}

func (h *Handler) saveUser(w http.ResponseWriter, r *http.Request, body []byte) {
	h.persistUser(w, r, body, h.services.UserAdminService.SaveUser)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request, body []byte) {
	h.persistUser(w, r, body, h.services.UserAdminService.UpdateUser)
}

func (h *Handler) persistUser(w http.ResponseWriter, r *http.Request, body []byte, persist func(ctx context.Context, user models.User, actor service.Actor) (models.User, error)) {
	log := logger.FromRequest(r)

	actor, ok := actorFromContext(r)
	if !ok {
		log.Warn().Msg("authenticated caller missing from context")
		utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		log.Err(err).Msg("malformed user payload")
		utils.WriteError(w, "malformed user payload", http.StatusBadRequest)
		return
	}

	saved, err := persist(r.Context(), user, actor)
	if err != nil {
		log.Err(err).Str("school_id", user.SchoolID).Msg("error persisting user")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, saved)
}

func (h *Handler) archiveUser(w http.ResponseWriter, r *http.Request, body []byte) {
	h.setUserArchived(w, r, body, true)
}

func (h *Handler) unarchiveUser(w http.ResponseWriter, r *http.Request, body []byte) {
	h.setUserArchived(w, r, body, false)
}

func (h *Handler) setUserArchived(w http.ResponseWriter, r *http.Request, body []byte, archived bool) {
	log := logger.FromRequest(r)

	actor, ok := actorFromContext(r)
	if !ok {
		log.Warn().Msg("authenticated caller missing from context")
		utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var request models.ArchiveUserRequest
	if err := json.Unmarshal(body, &request); err != nil {
		log.Err(err).Msg("malformed archive payload")
		utils.WriteError(w, "malformed archive payload", http.StatusBadRequest)
		return
	}

	err := h.services.UserAdminService.SetUserArchived(r.Context(), request, archived, actor)
	if err != nil {
		log.Err(err).Int64("user_id", request.UserID).Bool("archived", archived).Msg("error toggling user archive state")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, nil)
}
