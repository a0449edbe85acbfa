package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/w-udagawa/vlingual-cards/internal/adapter/provider/csvsource"
	"github.com/w-udagawa/vlingual-cards/internal/config"
	"github.com/w-udagawa/vlingual-cards/internal/domain"
	"github.com/w-udagawa/vlingual-cards/internal/prefs"
	"github.com/w-udagawa/vlingual-cards/internal/progress"
	"github.com/w-udagawa/vlingual-cards/internal/scheduler"
	"github.com/w-udagawa/vlingual-cards/internal/service/library"
	"github.com/w-udagawa/vlingual-cards/internal/service/study"
	"github.com/w-udagawa/vlingual-cards/internal/speech"
	"github.com/w-udagawa/vlingual-cards/internal/transport/dataloader"
	"github.com/w-udagawa/vlingual-cards/internal/transport/middleware"
	"github.com/w-udagawa/vlingual-cards/internal/transport/rest"
)

// Components are the wired services shared by the HTTP server and the CLI.
type Components struct {
	Config    *config.Config
	Log       *slog.Logger
	Store     Store
	Prefs     *prefs.Service
	Library   *library.Service
	Scheduler *scheduler.Scheduler
	Speaker   speech.Speaker

	closeStore func() error
}

// Build opens the store and wires every service. The dataset is not loaded;
// call Library.Load. Close releases the store.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	store, closeStore, err := OpenStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	pr := prefs.NewService(logger, store)

	return &Components{
		Config:  cfg,
		Log:     logger,
		Store:   store,
		Prefs:   pr,
		Library: library.NewService(logger, datasetSource(cfg.Dataset, logger), pr),
		Scheduler: scheduler.New(scheduler.Options{
			Policy:        domain.Policy(cfg.Study.Policy),
			Deterministic: cfg.Study.ScoreSelection == config.SelectionDeterministic,
			TopN:          cfg.Study.TopN,
			Logger:        logger,
		}),
		Speaker:    speech.FromConfig(logger, cfg.Speech),
		closeStore: closeStore,
	}, nil
}

type datasetFetcher interface {
	Fetch(ctx context.Context) (string, error)
	Name() string
}

// datasetSource returns nil when no dataset is configured, which makes the
// library serve the sample.
func datasetSource(cfg config.DatasetConfig, logger *slog.Logger) datasetFetcher {
	switch {
	case cfg.Path != "":
		return csvsource.NewFileSource(cfg.Path)
	case cfg.URL != "":
		return csvsource.NewHTTPSource(cfg.URL, cfg.FetchTimeout, logger)
	}
	return nil
}

// NewSession creates a study controller with its own progress store under
// the configured policy.
func (c *Components) NewSession() *study.Controller {
	return c.NewSessionWithPolicy(domain.Policy(c.Config.Study.Policy))
}

// NewSessionWithPolicy is NewSession with an explicit policy.
func (c *Components) NewSessionWithPolicy(policy domain.Policy) *study.Controller {
	sched := c.Scheduler
	if policy != sched.Policy() {
		sched = scheduler.New(scheduler.Options{
			Policy:        policy,
			Deterministic: c.Config.Study.ScoreSelection == config.SelectionDeterministic,
			TopN:          c.Config.Study.TopN,
			Logger:        c.Log,
		})
	}

	opts := study.OptionsFromConfig(c.Config.Study, c.Config.Speech)
	if policy == domain.PolicyMastery {
		return study.NewController(c.Log, c.Library, progress.NewMasteryStore(), sched, c.Speaker, c.Prefs, opts)
	}
	return study.NewController(c.Log, c.Library, progress.NewCounterStore(c.Log, c.Store), sched, c.Speaker, c.Prefs, opts)
}

// Close releases the store.
func (c *Components) Close() error {
	if c.closeStore == nil {
		return nil
	}
	return c.closeStore()
}

// Handler builds the HTTP handler over sessions. The returned func stops
// background work owned by the middleware.
func (c *Components) Handler(sessions *study.Manager) (http.Handler, func()) {
	cfg := c.Config

	router := rest.NewRouter(rest.Handlers{
		Health:      rest.NewHealthHandler(c.Store, c.Library, BuildVersion()),
		Dataset:     rest.NewDatasetHandler(c.Library, c.Log),
		Catalog:     rest.NewCatalogHandler(c.Library, c.Prefs, c.Log),
		Sessions:    rest.NewSessionHandler(sessions, c.Log),
		Preferences: rest.NewPreferencesHandler(c.Prefs, c.Library, c.Log),
	}, dataloader.Middleware(&dataloader.Repos{
		Progress: c.Store,
		Checked:  c.Prefs,
		Scope:    cfg.Study.ProgressScope,
		Log:      c.Log,
	}))

	var limit middleware.Middleware
	stop := func() {}
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		limit = rl.LimitWrites(cfg.RateLimit.SessionWrites)
		stop = rl.Stop
	}

	chain := middleware.Chain(
		middleware.Recovery(c.Log),
		middleware.RequestID(),
		middleware.Logger(c.Log),
		middleware.CORS(cfg.CORS),
		limit,
	)
	return chain(router), stop
}

// Run is the server entry point. It loads configuration, wires the
// services, loads the dataset and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("policy", cfg.Study.Policy),
	)

	return Serve(ctx, cfg, logger)
}

// Serve runs the HTTP server with cfg until ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	c, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("close storage", slog.String("error", err.Error()))
		}
	}()

	if _, err := c.Library.Load(ctx); err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	sessions := study.NewManager(logger, cfg.Study.SessionTTL, c.NewSession)
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		sessions.Run(janitorCtx, cfg.Study.JanitorInterval)
	}()

	handler, stopMiddleware := c.Handler(sessions)
	defer stopMiddleware()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.String("error", err.Error()))
	}

	stopJanitor()
	select {
	case <-janitorDone:
	case <-time.After(cfg.Server.ShutdownTimeout):
	}

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}
