package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/w-udagawa/vlingual-cards/internal/app"
	"github.com/w-udagawa/vlingual-cards/internal/config"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := os.Getenv("CONFIG_PATH")
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.LoadFile(path)
	})
	return c.config, c.configErr
}

// logger keeps command output readable: below --verbose only warnings and
// errors reach stderr.
func (c *commandContext) logger(w io.Writer, cfg *config.Config) *slog.Logger {
	logCfg := cfg.Log
	if c.verbose == nil || !*c.verbose {
		logCfg.Level = "warn"
	}
	return app.NewLoggerTo(w, logCfg)
}

// withApp wires the services for one command run, optionally adjusting the
// loaded config first.
func (c *commandContext) withApp(cmd *cobra.Command, adjust func(*config.Config), fn func(ctx context.Context, a *app.Components) error) error {
	loaded, err := c.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if adjust != nil {
		adjust(&cfg)
	}

	a, err := app.Build(cmd.Context(), &cfg, c.logger(cmd.ErrOrStderr(), &cfg))
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a)
}

// applySource points the dataset config at a path or URL given on the
// command line.
func applySource(source string) func(*config.Config) {
	return func(cfg *config.Config) {
		source = strings.TrimSpace(source)
		if source == "" {
			return
		}
		if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
			cfg.Dataset.URL = source
			cfg.Dataset.Path = ""
			return
		}
		cfg.Dataset.Path = source
	}
}
