package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/toptracks/internal/formatter"
	"github.com/urfave/cli/v3"
)

// AuthURL prints the consent-screen URL, optionally copying it and opening a browser.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	provider, err := r.requireProvider()
	if err != nil {
		return err
	}

	authURL := provider.AuthURL(cmd.String("state"))
	if err := r.writePlain("%s\n", authURL); err != nil {
		return err
	}

	if cmd.Bool("copy") {
		if err := r.clipboard(authURL); err != nil {
			r.logger.Warnf("failed to copy URL to clipboard: %v", err)
		} else {
			r.writePlain("%s\n", formatter.Success("✓ Copied to clipboard"))
		}
	}

	if cmd.Bool("open") {
		if err := r.browser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlain("%s\n", formatter.Warning("⚠ Could not open browser automatically."))
		}
	}

	return nil
}

// AuthRefresh exchanges a refresh token and prints the new token set.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	provider, err := r.requireProvider()
	if err != nil {
		return err
	}

	tokens, err := provider.Refresh(ctx, cmd.String("token"))
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	r.logger.Info("access token refreshed", "expires_in", tokens.ExpiresIn)

	if cmd.Bool("json") {
		return r.writeJSON(tokens, true)
	}

	r.writePlain("%s\n", formatter.Success("✓ Token refreshed"))
	r.writePlain("Access token: %s\n", tokens.AccessToken)
	r.writePlain("Expires in: %ds\n", tokens.ExpiresIn)
	if tokens.Scope != "" {
		r.writePlain("Scope: %s\n", tokens.Scope)
	}
	return r.writePlain("Refresh token: %s\n", tokens.RefreshToken)
}
