package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/toptracks/internal/models"
	"github.com/desertthunder/toptracks/internal/shared"
)

const TopItemsPath = "/api/spotify/top"

type topProvider interface {
	TopItemsWithRefresh(ctx context.Context, q models.TopItemsQuery, accessToken, refreshToken string) (models.TopItems, *models.TokenSet, error)
}

// TopHandler serves the user's top tracks or artists as a JSON array.
type TopHandler struct {
	provider topProvider
	cookies  *CookieManager
	logger   *log.Logger
}

func NewTopHandler(provider topProvider, cookies *CookieManager, logger *log.Logger) *TopHandler {
	return &TopHandler{provider: provider, cookies: cookies, logger: shared.WithLogger(logger, "handler", "top")}
}

func (h *TopHandler) Routes() []string {
	return []string{"GET " + TopItemsPath}
}

// ServeHTTP validates the query before looking at cookies, then fetches with at most one refresh.
// Refreshed tokens are written back to the session cookies.
func (h *TopHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query, err := models.ParseTopItemsQuery(params.Get("type"), params.Get("limit"), params.Get("time_range"))
	switch {
	case errors.Is(err, shared.ErrMissingArgument):
		writeError(w, http.StatusBadRequest, msgMissingParams)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, msgInvalidParams)
		return
	}

	accessToken, ok := h.cookies.Get(r, AccessTokenCookie)
	if !ok {
		writeError(w, http.StatusUnauthorized, msgMissingAccessToken)
		return
	}
	refreshToken, _ := h.cookies.Get(r, RefreshTokenCookie)

	items, refreshed, err := h.provider.TopItemsWithRefresh(r.Context(), query, accessToken, refreshToken)
	switch {
	case errors.Is(err, shared.ErrReAuthRequired):
		logProviderError(h.logger, "re-authentication required", err)
		writeError(w, http.StatusUnauthorized, msgReAuthRequired)
		return
	case err != nil:
		logProviderError(h.logger, "top items request failed", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	if refreshed != nil {
		h.cookies.SetTokens(w, refreshed)
		h.logger.Debug("access token refreshed", "expires_in", refreshed.ExpiresIn)
	}

	writeJSON(w, http.StatusOK, items)
}
