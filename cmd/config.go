package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/toptracks/internal/formatter"
	"github.com/desertthunder/toptracks/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the embedded example config to --path, or to --config when unset.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		path = r.configPath
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("%s\n", formatter.Success("✓ Config file created at "+path))
}

// ConfigShow prints the resolved configuration (file, then environment) as TOML with the client secret masked.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	config := *r.config
	config.Credentials.Spotify.ClientSecret = mask(config.Credentials.Spotify.ClientSecret)

	if err := toml.NewEncoder(r.output).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
