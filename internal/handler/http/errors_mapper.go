package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/service"
	"github.com/MKhiriev/golden-glimpses/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrUnsupportedMediaType:    http.StatusUnsupportedMediaType,
	service.ErrUploadTooLarge:          http.StatusRequestEntityTooLarge,
	// answered like a missing capsule so non-owners cannot tell which ids exist
	service.ErrNotCapsuleOwner:         http.StatusNotFound,
	service.ErrCapsuleIsSealed:         http.StatusConflict,
	service.ErrTooManyConflicts:        http.StatusConflict,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrMediaUploadFailed:       http.StatusBadGateway,
	service.ErrVersionIsNotSpecified:   http.StatusInternalServerError,

	store.ErrCapsuleNotFound:    http.StatusNotFound,
	store.ErrVersionConflict:    http.StatusConflict,
	store.ErrLoginAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusNotFound,

	ErrInvalidJSON:      http.StatusBadRequest,
	ErrInvalidDate:      http.StatusBadRequest,
	ErrInvalidQuery:     http.StatusBadRequest,
	ErrMissingFile:      http.StatusBadRequest,
	ErrInvalidMultipart: http.StatusBadRequest,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError answers a failed request. Client errors carry the error text,
// capsule access errors share one body and server errors only the status
// text.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	message := err.Error()
	switch {
	case status >= http.StatusInternalServerError:
		log.Err(err).Str("func", funcName).Int("status", status).Msg("request failed")
		message = http.StatusText(status)
	case errors.Is(err, store.ErrCapsuleNotFound) || errors.Is(err, service.ErrNotCapsuleOwner):
		log.Debug().Err(err).Str("func", funcName).Int("status", status).Msg("capsule access denied")
		message = errCapsuleAccess
	default:
		log.Debug().Err(err).Str("func", funcName).Int("status", status).Msg("request rejected")
	}

	http.Error(w, message, status)
}
