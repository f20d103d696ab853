package http

import (
	"encoding/json"
	"net/http"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/utils"
	"github.com/gsdportal/reserva-api/models"
)

func (h *Handler) fetchStats(w http.ResponseWriter, r *http.Request, _ []byte) {
	log := logger.FromRequest(r)

	stats, err := h.services.DashboardService.Stats(r.Context())
	if err != nil {
		log.Err(err).Msg("error collecting dashboard statistics")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, stats)
}

func (h *Handler) fetchApprovalNotification(w http.ResponseWriter, r *http.Request, _ []byte) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		log.Warn().Msg("authenticated caller missing from context")
		utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	notifications, err := h.services.DashboardService.ApprovalNotifications(r.Context(), userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("error fetching approval notifications")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, notifications)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request, body []byte) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		log.Warn().Msg("authenticated caller missing from context")
		utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var request models.MarkNotificationRequest
	if err := json.Unmarshal(body, &request); err != nil {
		log.Err(err).Msg("malformed markNotificationRead payload")
		utils.WriteError(w, "malformed markNotificationRead payload", http.StatusBadRequest)
		return
	}

	err := h.services.DashboardService.MarkNotificationRead(r.Context(), userID, request.NotificationID)
	if err != nil {
		log.Err(err).Int64("notification_id", request.NotificationID).Msg("error marking notification read")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, nil)
}
