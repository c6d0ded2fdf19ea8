package http

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-pacer/internal/audience"
	"github.com/goliatone/go-pacer/internal/auth"
	"github.com/goliatone/go-pacer/internal/blog"
	"github.com/goliatone/go-pacer/internal/feeds"
	"github.com/goliatone/go-pacer/internal/logging"
	"github.com/goliatone/go-pacer/internal/site"
	"github.com/goliatone/go-pacer/internal/views"
	"github.com/goliatone/go-pacer/internal/waitlist"
	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// AdminRoles may call the admin API.
var AdminRoles = []string{audience.RoleAdmin, audience.RoleEditor}

// Server registers the public site, the JSON API and the admin API.
type Server struct {
	apiBase       string
	blog          blog.Service
	waitlist      waitlist.Service
	audience      audience.Service
	legal         *site.Legal
	feeds         *feeds.Builder
	views         *views.Renderer
	tokens        *auth.Tokens
	static        fs.FS
	honeypotField string
	logger        interfaces.Logger
}

// ServerOption mutates the Server configuration.
type ServerOption func(*Server)

// NewServer constructs a Server instance.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		apiBase:       "/api",
		honeypotField: "website",
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// WithAPIBase overrides the API prefix (defaults to "/api").
func WithAPIBase(path string) ServerOption {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			s.apiBase = trimmed
		}
	}
}

// WithBlogService wires the post read model.
func WithBlogService(service blog.Service) ServerOption {
	return func(s *Server) { s.blog = service }
}

// WithWaitlistService wires signup handling.
func WithWaitlistService(service waitlist.Service) ServerOption {
	return func(s *Server) { s.waitlist = service }
}

// WithAudienceService wires subscriber and admin record handling.
func WithAudienceService(service audience.Service) ServerOption {
	return func(s *Server) { s.audience = service }
}

// WithLegal wires the legal page source.
func WithLegal(legal *site.Legal) ServerOption {
	return func(s *Server) { s.legal = legal }
}

// WithFeeds wires the feed and sitemap builder.
func WithFeeds(builder *feeds.Builder) ServerOption {
	return func(s *Server) { s.feeds = builder }
}

// WithRenderer wires the HTML page renderer.
func WithRenderer(renderer *views.Renderer) ServerOption {
	return func(s *Server) { s.views = renderer }
}

// WithTokens enables the admin API.
func WithTokens(tokens *auth.Tokens) ServerOption {
	return func(s *Server) { s.tokens = tokens }
}

// WithStatic serves fsys under /static/.
func WithStatic(fsys fs.FS) ServerOption {
	return func(s *Server) { s.static = fsys }
}

// WithHoneypotField names the hidden form field checked for spam.
func WithHoneypotField(name string) ServerOption {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			s.honeypotField = trimmed
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Register attaches every endpoint to the provided mux.
func (s *Server) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if s == nil {
		return fmt.Errorf("http: server is nil")
	}

	base := joinPath(s.apiBase, "")

	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.static != nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))
	}

	s.registerPageRoutes(mux)
	s.registerFeedRoutes(mux)
	s.registerPostRoutes(mux, base)
	s.registerAudienceRoutes(mux, base)
	s.registerAdminRoutes(mux, joinPath(base, "admin"))
	return nil
}

// Handler returns the mux wrapped in the standard middleware chain.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := s.Register(mux); err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.traceRequests)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Mount("/", mux)
	return r, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
