package http

import (
	"errors"
	"net/http"

	"github.com/gsdportal/reserva-api/internal/service"
	"github.com/gsdportal/reserva-api/internal/store"
	"github.com/gsdportal/reserva-api/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongCredentials:        http.StatusUnauthorized,
	service.ErrAccountArchived:         http.StatusForbidden,
	service.ErrCaptchaFailed:           http.StatusUnauthorized,
	service.ErrOTPNotRequested:         http.StatusBadRequest,
	service.ErrOTPInvalid:              http.StatusUnauthorized,
	service.ErrOTPAttemptsExceeded:     http.StatusUnauthorized,
	service.ErrOTPCooldown:             http.StatusTooManyRequests,
	service.ErrPasswordSameAsCurrent:   http.StatusBadRequest,
	service.ErrUnknownResourceKind:     http.StatusBadRequest,
	service.ErrMissingAttributes:       http.StatusBadRequest,
	service.ErrUnknownRoleLabel:        http.StatusBadRequest,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	validators.ErrPasswordTooShort:  http.StatusBadRequest,
	validators.ErrPasswordNoUpper:   http.StatusBadRequest,
	validators.ErrPasswordNoLower:   http.StatusBadRequest,
	validators.ErrPasswordNoDigit:   http.StatusBadRequest,
	validators.ErrPasswordNoSpecial: http.StatusBadRequest,

	store.ErrSchoolIDAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:        http.StatusNotFound,
	store.ErrResourceNotFound:      http.StatusNotFound,
	store.ErrChallengeNotFound:     http.StatusUnauthorized,
	store.ErrChallengeConsumed:     http.StatusUnauthorized,
	store.ErrNotificationNotFound:  http.StatusNotFound,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
