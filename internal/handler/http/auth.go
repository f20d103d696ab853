package http

import (
	"encoding/json"
	"net/http"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/utils"
	"github.com/gsdportal/reserva-api/models"
)

func (h *Handler) fetchCaptcha(w http.ResponseWriter, r *http.Request, _ []byte) {
	log := logger.FromRequest(r)

	challenge, err := h.services.AuthService.FetchCaptcha(r.Context())
	if err != nil {
		log.Err(err).Msg("error issuing captcha challenge")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, challenge)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, body []byte) {
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := json.Unmarshal(body, &request); err != nil {
		log.Err(err).Msg("malformed login payload")
		utils.WriteError(w, "malformed login payload", http.StatusBadRequest)
		return
	}

	result, err := h.services.AuthService.Login(r.Context(), request)
	if err != nil {
		log.Err(err).Str("school_id", request.SchoolID).Msg("login rejected")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, result)
}

func (h *Handler) sendLoginOTP(w http.ResponseWriter, r *http.Request, body []byte) {
	log := logger.FromRequest(r)

	var request models.SendOTPRequest
	if err := json.Unmarshal(body, &request); err != nil {
		log.Err(err).Msg("malformed sendLoginOTP payload")
		utils.WriteError(w, "malformed sendLoginOTP payload", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.SendLoginOTP(r.Context(), request.UserID); err != nil {
		log.Err(err).Int64("user_id", request.UserID).Msg("error sending one-time code")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, nil)
}

func (h *Handler) validateLoginOTP(w http.ResponseWriter, r *http.Request, body []byte) {
	log := logger.FromRequest(r)

	var request models.ValidateOTPRequest
	if err := json.Unmarshal(body, &request); err != nil {
		log.Err(err).Msg("malformed validateLoginOTP payload")
		utils.WriteError(w, "malformed validateLoginOTP payload", http.StatusBadRequest)
		return
	}

	result, err := h.services.AuthService.ValidateLoginOTP(r.Context(), request)
	if err != nil {
		log.Err(err).Int64("user_id", request.UserID).Msg("one-time code rejected")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, result)
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request, body []byte) {
	log := logger.FromRequest(r)

	var request models.UpdatePasswordRequest
	if err := json.Unmarshal(body, &request); err != nil {
		log.Err(err).Msg("malformed updatePassword payload")
		utils.WriteError(w, "malformed updatePassword payload", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.UpdatePassword(r.Context(), request); err != nil {
		log.Err(err).Int64("user_id", request.UserID).Msg("password update rejected")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, nil)
}

func (h *Handler) updateFirstLogin(w http.ResponseWriter, r *http.Request, body []byte) {
	log := logger.FromRequest(r)

	var request models.UpdateFirstLoginRequest
	if err := json.Unmarshal(body, &request); err != nil {
		log.Err(err).Msg("malformed updateFirstLogin payload")
		utils.WriteError(w, "malformed updateFirstLogin payload", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.UpdateFirstLogin(r.Context(), request.UserID); err != nil {
		log.Err(err).Int64("user_id", request.UserID).Msg("error clearing first-login flag")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteSuccess(w, nil)
}
