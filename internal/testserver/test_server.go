package testserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/domain/dashboard"
	"github.com/rpggio/pronix-hub/internal/domain/workbook"
	"github.com/rpggio/pronix-hub/internal/hub"
	"github.com/rpggio/pronix-hub/internal/mcp"
	"github.com/rpggio/pronix-hub/internal/notify"
	"github.com/rpggio/pronix-hub/internal/sqlite"
	"github.com/rpggio/pronix-hub/internal/transport"
	"github.com/stretchr/testify/require"
)

// Now is the fixed clock every stack runs on.
var Now = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

// Insight is the text returned by the fake generator.
const Insight = "Cliente estável, manter cadência de ativações."

// Stack is a fully wired hub backed by an in-memory sqlite database.
type Stack struct {
	DB        *sqlite.DB
	Store     *hub.Store
	Clients   *client.Service
	Audit     *audit.Service
	Workbooks *workbook.Service
	Dashboard *dashboard.Service
	Analysis  *notify.Workflow
	Generator *Generator
	Webhook   *WebhookRecorder
}

// NewStack wires every service over a fresh database seeded with seed.
func NewStack(t *testing.T, seed []client.Client) *Stack {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	store := hub.New(sqlite.NewStateStore(db), nil)
	require.NoError(t, store.Load(context.Background(), seed))

	clock := func() time.Time { return Now }
	auditSvc := audit.NewService(store.Logs(), nil).WithClock(clock)
	clientSvc := client.NewService(store, auditSvc, nil).WithClock(clock)
	workbookSvc := workbook.NewService(clientSvc, auditSvc, nil).WithClock(clock)
	dashboardSvc := dashboard.NewService(clientSvc).WithClock(clock)

	gen := &Generator{Text: Insight}
	hook := NewWebhookRecorder(t)
	analyzer := notify.NewAnalyzer(gen, notify.DefaultModel, nil)
	workflow := notify.NewWorkflow(analyzer, notify.NewWebhook(hook.URL(), hook.Client(), nil), auditSvc, nil)

	return &Stack{
		DB:        db,
		Store:     store,
		Clients:   clientSvc,
		Audit:     auditSvc,
		Workbooks: workbookSvc,
		Dashboard: dashboardSvc,
		Analysis:  workflow,
		Generator: gen,
		Webhook:   hook,
	}
}

// TransportServices adapts the stack for the HTTP API.
func (s *Stack) TransportServices() transport.Services {
	return transport.Services{
		Clients:   s.Clients,
		Audit:     s.Audit,
		Workbooks: s.Workbooks,
		Dashboard: s.Dashboard,
		Analysis:  s.Analysis,
	}
}

// MCPServices adapts the stack for the MCP server.
func (s *Stack) MCPServices() mcp.Services {
	return mcp.Services{
		Clients:   s.Clients,
		Audit:     s.Audit,
		Workbooks: s.Workbooks,
		Dashboard: s.Dashboard,
		Analysis:  s.Analysis,
	}
}

// TestServer serves the REST API and MCP endpoint over httptest.
type TestServer struct {
	*Stack
	Server *httptest.Server
	Token  string
	Actor  string
}

// New starts a server whose bearer token resolves to actor.
func New(t *testing.T, token, actor string) *TestServer {
	t.Helper()

	stack := NewStack(t, hub.SampleClients(Now))
	tokens := transport.StaticTokens{token: actor}

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      stack.MCPServices(),
		Resolver:      tokens,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	server := httptest.NewServer(transport.NewServer(stack.TransportServices(), transport.Options{
		Auth:  transport.AuthMiddleware(tokens),
		MCP:   mcpHandler,
		Ready: stack.DB.PingContext,
	}))
	t.Cleanup(server.Close)

	return &TestServer{
		Stack:  stack,
		Server: server,
		Token:  token,
		Actor:  actor,
	}
}

// Generator is a notify.TextGenerator returning fixed text.
type Generator struct {
	mu      sync.Mutex
	Text    string
	Err     error
	Prompts []string
}

func (g *Generator) Generate(_ context.Context, _ string, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Prompts = append(g.Prompts, prompt)
	return g.Text, g.Err
}

// WebhookRecorder captures webhook deliveries.
type WebhookRecorder struct {
	server   *httptest.Server
	mu       sync.Mutex
	payloads []notify.Payload
}

// NewWebhookRecorder starts a webhook endpoint closed with the test.
func NewWebhookRecorder(t *testing.T) *WebhookRecorder {
	t.Helper()
	rec := &WebhookRecorder{}
	rec.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload notify.Payload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rec.mu.Lock()
		rec.payloads = append(rec.payloads, payload)
		rec.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(rec.server.Close)
	return rec
}

func (r *WebhookRecorder) URL() string          { return r.server.URL }
func (r *WebhookRecorder) Client() *http.Client { return r.server.Client() }

// Payloads returns the deliveries received so far.
func (r *WebhookRecorder) Payloads() []notify.Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Payload(nil), r.payloads...)
}
