package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/domain/dashboard"
	"github.com/rpggio/pronix-hub/internal/domain/workbook"
	"github.com/rpggio/pronix-hub/internal/notify"
)

// ClientService defines client operations needed by MCP.
type ClientService interface {
	Create(ctx context.Context, c client.Client) (*client.Client, error)
	Edit(ctx context.Context, id string, fn func(current client.Client) (client.Client, error)) (*client.Client, error)
	Get(ctx context.Context, id string) (*client.Client, error)
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, id, author, text string) (*client.Client, error)
	Rows(ctx context.Context, filter client.Filter) ([]client.Row, error)
	Options(ctx context.Context) (client.FilterOptions, error)
}

// AuditService defines change log operations needed by MCP.
type AuditService interface {
	List(ctx context.Context, opts audit.ListOptions) ([]audit.Entry, error)
}

// WorkbookService defines spreadsheet operations needed by MCP.
type WorkbookService interface {
	Import(ctx context.Context, data []byte, filename string) (*workbook.ImportResult, error)
	Export(ctx context.Context) (*workbook.File, error)
}

// DashboardService defines dashboard operations needed by MCP.
type DashboardService interface {
	Get(ctx context.Context) (dashboard.Stats, error)
}

// AnalysisWorkflow runs the risk analysis for one client.
type AnalysisWorkflow interface {
	Run(ctx context.Context, c client.Client) notify.Result
}

// Services contains all domain services needed by MCP.
type Services struct {
	Clients   ClientService
	Audit     AuditService
	Workbooks WorkbookService
	Dashboard DashboardService
	Analysis  AnalysisWorkflow
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      ActorResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "pronix-hub",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only and never authenticates.
	identify := noAuthMiddleware(audit.DefaultActor)
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled && cfg.Resolver != nil {
		identify = authMiddleware(cfg.Resolver)
	}
	// The first middleware of a call runs outermost, so traffic logs see
	// the resolved actor and session.
	server.AddReceivingMiddleware(identify, sessionMiddleware(), trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
