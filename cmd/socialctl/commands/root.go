package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jrsteele09/go-social-client/api"
	"github.com/jrsteele09/go-social-client/feed"
	"github.com/jrsteele09/go-social-client/internal/config"
	apperrors "github.com/jrsteele09/go-social-client/internal/errors"
	"github.com/jrsteele09/go-social-client/internal/logging"
	"github.com/jrsteele09/go-social-client/internal/metrics"
	"github.com/jrsteele09/go-social-client/session"
	"github.com/jrsteele09/go-social-client/social"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	serverURL  string
	cookieFile string
	outputFmt  string

	app *appContext
)

// appContext is everything a command needs, built once per invocation.
type appContext struct {
	cfg     config.Config
	jar     *api.FileJar
	client  *api.Client
	manager *session.Manager
	binding *session.Binding
	social  *social.Service
	out     *printer
	log     zerolog.Logger
	metrics *prometheus.Registry
}

func Execute() error {
	root := &cobra.Command{
		Use:           "socialctl",
		Short:         "Command line client for the social API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAppContext()
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			app.binding.Close()
			logCounters(app.log, app.metrics)
			return app.jar.Save()
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.GetEnv("SOCIAL_CONFIG", ""), "YAML config file")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (overrides client.base_url)")
	root.PersistentFlags().StringVar(&cookieFile, "cookies", "", "cookie file (default ~/.socialctl/cookies.json)")
	root.PersistentFlags().StringVarP(&outputFmt, "output", "o", formatTable, "output format: table, json or yaml")

	root.AddCommand(
		versionCmd(),
		loginCmd(), logoutCmd(), registerCmd(), whoamiCmd(), passwordCmd(),
		postsCmd(), postCmd(), commentsCmd(), commentCmd(),
		likeCmd(), bookmarkCmd(), bookmarksCmd(),
		profilesCmd(), profileCmd(), followCmd(),
	)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return root.ExecuteContext(ctx)
}

func newAppContext() (*appContext, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg, os.Stderr)
	logging.SetGlobal(logger)

	out, err := newPrinter(os.Stdout, outputFmt)
	if err != nil {
		return nil, err
	}

	path, err := cookiePath(cfg)
	if err != nil {
		return nil, err
	}
	jar, err := api.OpenFileJar(path)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.GetBaseURL()
	if serverURL != "" {
		baseURL = serverURL
	}
	client, err := api.New(baseURL,
		api.WithJar(jar),
		api.WithTimeout(cfg.GetTimeout()),
		api.WithRateLimit(cfg.GetRequestsPerSecond(), 1),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	mc := metrics.NewClient(reg)

	store := session.NewStore(session.WithStoreLogger(logger), session.WithStoreMetrics(mc))
	manager, err := session.NewManager(client, store,
		session.WithEndpoints(session.Endpoints{
			User:         cfg.GetUserPath(),
			Login:        cfg.GetLoginPath(),
			Logout:       cfg.GetLogoutPath(),
			Registration: cfg.GetRegistrationPath(),
			Refresh:      cfg.GetRefreshPath(),
		}),
		session.WithRefreshInterval(cfg.GetRefreshInterval()),
		session.WithLogger(logger),
		session.WithMetrics(mc),
	)
	if err != nil {
		return nil, err
	}

	svc, err := social.NewService(client,
		social.WithLogger(logger),
		social.WithMetrics(mc),
		social.WithListOptions(feed.WithLogger(logger), feed.WithDebounceDelay(cfg.GetDebounceDelay())),
	)
	if err != nil {
		return nil, err
	}

	return &appContext{
		cfg:     cfg,
		jar:     jar,
		client:  client,
		manager: manager,
		binding: session.Bind(client, manager),
		social:  svc,
		out:     out,
		log:     logger,
		metrics: reg,
	}, nil
}

func cookiePath(cfg config.Config) (string, error) {
	if cookieFile != "" {
		return cookieFile, nil
	}
	if p := cfg.GetCookieFile(); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locate home directory")
	}
	return filepath.Join(home, ".socialctl", "cookies.json"), nil
}

// requireSession restores the saved session or fails with a hint to log in.
func requireSession(ctx context.Context) (session.Session, error) {
	s, err := app.manager.Require(ctx)
	switch {
	case apperrors.Is(err, apperrors.ErrSessionExpired):
		return session.Session{}, errors.New("session expired, run `socialctl login` again")
	case apperrors.Is(err, apperrors.ErrNotAuthenticated):
		return session.Session{}, errors.New("not logged in, run `socialctl login` first")
	}
	return s, err
}

// logCounters writes the non-zero client counters of this invocation at debug level.
func logCounters(logger zerolog.Logger, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		logger.Debug().Err(err).Msg("gather counters")
		return
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			value := m.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			event := logger.Debug().Str("counter", family.GetName()).Float64("value", value)
			for _, label := range m.GetLabel() {
				event = event.Str(label.GetName(), label.GetValue())
			}
			event.Msg("client counter")
		}
	}
}
