package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/db/repositories"
	"first-nation/registry/internal/models/dtos/responses"
	"first-nation/registry/internal/providers"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := responses.APIResponse[T]{
		Status:    "success",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	resp := responses.APIResponse[any]{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(resp)
}

// respondWithServiceError translates classified errors into HTTP statuses.
// Portal trouble maps to gateway-style codes so callers can tell local
// faults from remote ones.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch providers.ErrorCode(err) {
	case constants.ErrCodeNotConfigured:
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
		return
	case constants.ErrCodeRateLimited:
		respondWithError(w, http.StatusTooManyRequests, err.Error())
		return
	case constants.ErrCodeNetworkUnreachable,
		constants.ErrCodeRemoteRejected,
		constants.ErrCodeMalformedResponse:
		respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repositories.ErrDuplicateIdentifier):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
