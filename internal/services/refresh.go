package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/toptracks/internal/models"
	"github.com/desertthunder/toptracks/internal/shared"
)

// TopItemsWithRefresh runs q with accessToken. If the provider answers 401 and refreshToken is set,
// it refreshes once and retries once with the new access token. There is no loop.
//
// Any failure after the first 401 is wrapped in [shared.ErrReAuthRequired]. Failures other than 401 on
// the first attempt are returned unchanged. On a successful retry the refreshed tokens are returned so
// the caller can persist them.
func TopItemsWithRefresh(ctx context.Context, tokens TokenExchanger, fetcher TopItemsFetcher, q models.TopItemsQuery, accessToken, refreshToken string) (models.TopItems, *models.TokenSet, error) {
	items, err := fetcher.TopItems(ctx, q, accessToken)
	if err == nil {
		return items, nil, nil
	}
	if !errors.Is(err, shared.ErrUnauthorized) {
		return models.TopItems{}, nil, err
	}

	if refreshToken == "" {
		return models.TopItems{}, nil, fmt.Errorf("%w: %w", shared.ErrReAuthRequired, shared.ErrNoRefreshToken)
	}

	refreshed, err := tokens.Refresh(ctx, refreshToken)
	if err != nil {
		return models.TopItems{}, nil, fmt.Errorf("%w: %w", shared.ErrReAuthRequired, err)
	}

	items, err = fetcher.TopItems(ctx, q, refreshed.AccessToken)
	if err != nil {
		return models.TopItems{}, nil, fmt.Errorf("%w: retry after refresh: %w", shared.ErrReAuthRequired, err)
	}

	return items, refreshed, nil
}
