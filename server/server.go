package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-social-client/content"
	"github.com/jrsteele09/go-social-client/internal/config"
	"github.com/jrsteele09/go-social-client/internal/metrics"
	"github.com/jrsteele09/go-social-client/token"
	"github.com/jrsteele09/go-social-client/token/refresh"
	refreshrepofake "github.com/jrsteele09/go-social-client/token/refresh/repofake"
	"github.com/jrsteele09/go-social-client/users"
	fakeuserrepo "github.com/jrsteele09/go-social-client/users/repofake"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Server is the sandbox social API: an in-memory stand-in for the REST
// backend the client talks to.
type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	router   *mux.Router
	routes   []string
	config   config.Config
	users    users.UserRepo
	refresh  refresh.Repo
	tokens   *token.Manager
	content  *content.Store
	media    *mediaStore
	faults   *faults
	metrics  *metrics.Server
	registry *prometheus.Registry
	log      zerolog.Logger
	nowFunc  func() time.Time
}

type Option func(*Server)

func WithUserRepo(repo users.UserRepo) Option {
	return func(s *Server) {
		s.users = repo
	}
}

func WithRefreshRepo(repo refresh.Repo) Option {
	return func(s *Server) {
		s.refresh = repo
	}
}

// WithNowFunc overrides the clock used for credentials and timestamps.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = now
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

func New(cfg config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[server.New] config is required")
	}

	s := &Server{
		env:      cfg.GetEnv(),
		router:   mux.NewRouter(),
		config:   cfg,
		media:    newMediaStore(),
		faults:   newFaults(),
		registry: prometheus.NewRegistry(),
		log:      log.Logger,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.users == nil {
		s.users = fakeuserrepo.NewFakeUserRepo()
	}
	if s.refresh == nil {
		s.refresh = refreshrepofake.NewFakeRefreshTokenRepo()
	}

	signer, err := token.NewHMACSigner(cfg.GetSigningSecret())
	if err != nil {
		return nil, errors.Wrap(err, "[server.New]")
	}
	refreshManager := refresh.NewManager(s.refresh, cfg, refresh.WithNowFunc(s.now))
	s.tokens, err = token.New(refreshManager, s.users, signer,
		token.WithAccessTokenExpiry(cfg.GetAccessTokenExpiry()),
		token.WithIssuer(cfg.GetAppName()),
		token.WithNowFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[server.New]")
	}
	s.content = content.New(content.WithNowFunc(s.now))
	s.metrics = metrics.NewServer(s.registry)

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

// now defers to nowFunc so options applied after construction still take effect.
func (s *Server) now() time.Time {
	return s.nowFunc()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Content exposes the store, for seeding.
func (s *Server) Content() *content.Store {
	return s.content
}

func (s *Server) RegisterRouteFunc(method, pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+pattern)
	s.router.HandleFunc(pattern, handler).Methods(method, http.MethodOptions)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		s.log.Debug().Msg(logRoute(parts[0], parts[1]))
	}
}

func logRoute(method, path string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor + " " + path
	}
	return Gray + paddedMethod + ResetColor + " " + path
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
