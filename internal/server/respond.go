package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/toptracks/internal/services"
	"github.com/desertthunder/toptracks/internal/shared"
)

const (
	msgMissingParams      = "Missing query parameters"
	msgInvalidParams      = "Invalid query parameters"
	msgMissingAccessToken = "Missing access token"
	msgReAuthRequired     = "Re-auth required"
	msgInternalError      = "Internal error"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// logProviderError records the failed operation and, when the provider answered, its status.
func logProviderError(logger *log.Logger, msg string, err error) {
	var (
		perr *services.ProviderError
		terr *services.TokenExchangeError
	)
	switch {
	case errors.As(err, &perr):
		logger.Error(msg, "op", perr.Op, "status", perr.StatusCode, "err", err)
	case errors.As(err, &terr):
		logger.Error(msg, "op", terr.Op, "status", terr.StatusCode, "error_code", terr.ErrorCode, "err", err)
	default:
		logger.Error(msg, "err", err)
	}
}
