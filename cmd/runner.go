package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/toptracks/internal/server"
	"github.com/desertthunder/toptracks/internal/services"
	"github.com/desertthunder/toptracks/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	provider   services.Provider
	metrics    *server.Metrics
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	clipboard  func(string) error
	browser    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Provider is built from the resolved config before the first command runs.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Provider   services.Provider
	Metrics    *server.Metrics
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Clipboard  func(string) error
	Browser    func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Metrics == nil {
		opts.Metrics = server.NewMetrics()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Browser == nil {
		opts.Browser = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		provider:   opts.Provider,
		metrics:    opts.Metrics,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		clipboard:  opts.Clipboard,
		browser:    opts.Browser,
	}
}

// command builds the root command.
func (r *Runner) command() *cli.Command {
	return &cli.Command{
		Name:    "toptracks",
		Usage:   "See your top Spotify tracks and artists",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before:   r.setup,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, authCommand, topCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// setup resolves the config (file, then environment), applies the log level and builds the provider.
func (r *Runner) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	config, err := shared.ResolveConfig(r.configPath)
	if err != nil {
		return ctx, err
	}
	if level := cmd.String("log-level"); level != "" {
		config.Log.Level = level
	}
	if err := shared.SetLogLevel(r.logger, config.Log.Level); err != nil {
		return ctx, err
	}
	r.config = config

	spotify := config.Credentials.Spotify
	if r.provider != nil || spotify.ClientID == "" || spotify.ClientSecret == "" {
		return ctx, nil
	}

	svc, err := services.NewSpotifyService(spotify, r.providerClient(), r.logger)
	if err != nil {
		return ctx, err
	}
	r.provider = svc
	return ctx, nil
}

// providerClient applies the configured timeout and metrics instrumentation to the runner's client.
func (r *Runner) providerClient() *http.Client {
	client := *r.httpClient
	if secs := r.config.Server.ClientTimeout; secs > 0 {
		client.Timeout = time.Duration(secs) * time.Second
	}
	return r.metrics.InstrumentClient(&client)
}

func (r *Runner) requireProvider() (services.Provider, error) {
	if r.provider == nil {
		return nil, fmt.Errorf("%w: set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET or add them to %s",
			shared.ErrMissingCredentials, r.configPath)
	}
	return r.provider, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
