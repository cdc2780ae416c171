package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/desertthunder/toptracks/internal/formatter"
	"github.com/desertthunder/toptracks/internal/models"
	"github.com/desertthunder/toptracks/internal/shared"
	"github.com/urfave/cli/v3"
)

// Top fetches the user's top items and renders them in the requested format.
//
// An expired access token is refreshed at most once when --refresh-token is given.
func (r *Runner) Top(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	query, err := models.ParseTopItemsQuery(cmd.String("type"), strconv.Itoa(cmd.Int("limit")), cmd.String("time-range"))
	if err != nil {
		return err
	}

	provider, err := r.requireProvider()
	if err != nil {
		return err
	}

	items, refreshed, err := provider.TopItemsWithRefresh(ctx, query, cmd.String("token"), cmd.String("refresh-token"))
	if errors.Is(err, shared.ErrReAuthRequired) {
		return fmt.Errorf("%w; run `toptracks auth url --open` to sign in again", err)
	} else if err != nil {
		return err
	}

	if refreshed != nil {
		r.logger.Warn("access token expired and was refreshed; use the new token for later calls",
			"access_token", refreshed.AccessToken, "expires_in", refreshed.ExpiresIn)
	}
	r.logger.Debug("fetched top items", "type", query.Type, "count", items.Len())

	data, err := formatter.Render(items, query, format)
	if err != nil {
		return err
	}
	if err := r.writeBytes(data); err != nil {
		return err
	}
	if format == formatter.FormatJSON {
		return r.writePlain("\n")
	}
	return nil
}
