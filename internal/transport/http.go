package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/domain/dashboard"
	"github.com/rpggio/pronix-hub/internal/domain/workbook"
	"github.com/rpggio/pronix-hub/internal/notify"
)

// ClientService defines client operations needed by the API.
type ClientService interface {
	Create(ctx context.Context, c client.Client) (*client.Client, error)
	Save(ctx context.Context, c client.Client) (*client.Client, error)
	Get(ctx context.Context, id string) (*client.Client, error)
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, id, author, text string) (*client.Client, error)
	Rows(ctx context.Context, filter client.Filter) ([]client.Row, error)
	Options(ctx context.Context) (client.FilterOptions, error)
}

// AuditService defines change log operations needed by the API.
type AuditService interface {
	List(ctx context.Context, opts audit.ListOptions) ([]audit.Entry, error)
}

// WorkbookService defines spreadsheet operations needed by the API.
type WorkbookService interface {
	Import(ctx context.Context, data []byte, filename string) (*workbook.ImportResult, error)
	Export(ctx context.Context) (*workbook.File, error)
}

// DashboardService defines dashboard operations needed by the API.
type DashboardService interface {
	Get(ctx context.Context) (dashboard.Stats, error)
}

// AnalysisWorkflow runs the risk analysis for one client.
type AnalysisWorkflow interface {
	Run(ctx context.Context, c client.Client) notify.Result
}

// Services contains all domain services needed by the API.
type Services struct {
	Clients   ClientService
	Audit     AuditService
	Workbooks WorkbookService
	Dashboard DashboardService
	Analysis  AnalysisWorkflow
}

// Options configures the router.
type Options struct {
	Auth   func(http.Handler) http.Handler
	MCP    http.Handler
	Logger *slog.Logger
	// Ready reports whether the state backend is reachable.
	Ready func(context.Context) error
}

// Server wires HTTP handlers.
type Server struct {
	services Services
	logger   *slog.Logger
	ready    func(context.Context) error
}

// NewServer creates an HTTP server router with middleware.
func NewServer(services Services, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if opts.Logger != nil {
		r.Use(requestLogger(opts.Logger))
	}

	srv := &Server{services: services, logger: opts.Logger, ready: opts.Ready}

	r.Get("/health", srv.handleHealth)

	// The MCP server authenticates its own requests.
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}

		r.Route("/api", func(r chi.Router) {
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", srv.handleListClients)
				r.Post("/", srv.handleCreateClient)
				r.Get("/options", srv.handleClientOptions)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", srv.handleGetClient)
					r.Put("/", srv.handleSaveClient)
					r.Delete("/", srv.handleDeleteClient)
					r.Post("/comments", srv.handleAddComment)
					r.Post("/analyze", srv.handleAnalyze)
				})
			})
			r.Post("/import", srv.handleImport)
			r.Get("/export", srv.handleExport)
			r.Get("/dashboard", srv.handleDashboard)
			r.Get("/logs", srv.handleLogs)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			if s.logger != nil {
				s.logger.Warn("health check failed", "error", err)
			}
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
