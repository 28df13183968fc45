package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/storefront/internal/apperr"
)

const maxBodyBytes = 1 << 20

// respondWithError sends {"error": message}.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrPaymentSession):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorResponder renders service errors. Outside production, 500 and 403
// responses carry the internal message in "detail".
type errorResponder struct {
	exposeDetail bool
}

func (e errorResponder) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToStatusCode(err)
	logger := hlog.FromRequest(r)

	var message string
	switch status {
	case http.StatusInternalServerError:
		logger.Error().Err(err).Msg("Request failed")
		message = "internal server error"
	case http.StatusForbidden:
		logger.Warn().Err(err).Msg("Payment session rejected")
		message = apperr.ErrPaymentSession.Error()
	default:
		logger.Warn().Err(err).Int("status", status).Msg("Request rejected")
		respondWithError(w, status, err.Error())
		return
	}

	body := map[string]string{"error": message}
	if e.exposeDetail {
		body["detail"] = err.Error()
	}
	respondWithJSON(w, status, body)
}

// decodeJSON reads a size-limited JSON body. Decode failures are validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request payload: %v", err)
	}
	return nil
}
