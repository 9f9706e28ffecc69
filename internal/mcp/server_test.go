package mcp_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/domain/dashboard"
	"github.com/rpggio/pronix-hub/internal/hub"
	"github.com/rpggio/pronix-hub/internal/mcp"
	"github.com/rpggio/pronix-hub/internal/notify"
	"github.com/rpggio/pronix-hub/internal/testserver"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, stack *testserver.Stack) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(mcp.Config{
		Services:      stack.MCPServices(),
		TransportMode: "stdio",
	})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.False(t, res.IsError, "tool %s failed: %s", name, resultText(res))
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), out))
	}
}

// callToolErr returns the error text of a failing tool call.
func callToolErr(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return err.Error()
	}
	require.True(t, res.IsError, "expected %s to fail", name)
	return resultText(res)
}

func resultText(res *sdkmcp.CallToolResult) string {
	if res == nil || len(res.Content) == 0 {
		return ""
	}
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	if !ok {
		return ""
	}
	return text.Text
}

func TestTools_Listed(t *testing.T) {
	cs := connect(t, testserver.NewStack(t, nil))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"list_clients", "client_options", "get_client", "create_client", "save_client",
		"delete_client", "add_comment", "analyze_client", "import_spreadsheet",
		"export_spreadsheet", "get_dashboard", "get_logs",
	}, names)
}

func TestTools_ListAndFilter(t *testing.T) {
	cs := connect(t, testserver.NewStack(t, hub.SampleClients(testserver.Now)))

	var rows []client.Row
	callTool(t, cs, "list_clients", nil, &rows)
	require.Len(t, rows, 1)
	require.Equal(t, "PRX-001", rows[0].ID)

	callTool(t, cs, "list_clients", map[string]any{"query": "exemplo", "saude": []string{"Vermelho"}}, &rows)
	require.Len(t, rows, 1)

	callTool(t, cs, "list_clients", map[string]any{"saude": []string{"Verde"}}, &rows)
	require.Empty(t, rows)

	msg := callToolErr(t, cs, "list_clients", map[string]any{"saude": []string{"Roxo"}})
	require.Contains(t, msg, "INVALID_INPUT")
}

func TestTools_OptionsListStatuses(t *testing.T) {
	cs := connect(t, testserver.NewStack(t, hub.SampleClients(testserver.Now)))

	var opts client.FilterOptions
	callTool(t, cs, "client_options", nil, &opts)
	require.Equal(t, client.Statuses, opts.Statuses)

	msg := callToolErr(t, cs, "save_client", map[string]any{
		"id":     "PRX-001",
		"fields": map[string]any{"status": "Arquivado"},
	})
	require.Contains(t, msg, "UNKNOWN_STATUS")
	require.Contains(t, msg, "client_options")
}

func TestTools_GetLogsRejectsNegativePaging(t *testing.T) {
	cs := connect(t, testserver.NewStack(t, nil))

	for _, args := range []map[string]any{{"limit": -1}, {"offset": -2}} {
		msg := callToolErr(t, cs, "get_logs", args)
		require.Contains(t, msg, "INVALID_INPUT")
	}

	var entries []audit.Entry
	callTool(t, cs, "get_logs", map[string]any{"limit": 0, "offset": 0}, &entries)
	require.Empty(t, entries)
}

func TestTools_ClientLifecycle(t *testing.T) {
	stack := testserver.NewStack(t, nil)
	cs := connect(t, stack)

	var created client.Client
	callTool(t, cs, "create_client", map[string]any{"fields": map[string]any{
		"id":                       "PRX-200",
		"nomeEmpresa":              "Loja Azul",
		"dataAtivacaoEspecialista": "2024-06-01",
	}}, &created)
	require.Equal(t, "PRX-200", created.ID)
	require.Equal(t, "2024-06-16", created.ProximaAtivacaoEspecialista)

	var saved client.Client
	callTool(t, cs, "save_client", map[string]any{
		"id":     "PRX-200",
		"fields": map[string]any{"dataAtivacaoEspecialista": "2024-01-20", "proximaAtivacaoEspecialista": "2099-01-01"},
	}, &saved)
	require.Equal(t, "Loja Azul", saved.NomeEmpresa)
	require.Equal(t, "2024-02-04", saved.ProximaAtivacaoEspecialista)

	var commented client.Client
	callTool(t, cs, "add_comment", map[string]any{"id": "PRX-200", "text": "Ligar amanhã"}, &commented)
	require.Len(t, commented.Comentarios, 1)
	require.Equal(t, audit.DefaultActor, commented.Comentarios[0].Autor)
	require.Equal(t, "Ligar amanhã", commented.Observacoes)

	callTool(t, cs, "delete_client", map[string]any{"id": "PRX-200"}, nil)

	msg := callToolErr(t, cs, "get_client", map[string]any{"id": "PRX-200"})
	require.Contains(t, msg, "CLIENT_NOT_FOUND")

	var entries []audit.Entry
	callTool(t, cs, "get_logs", map[string]any{"client_id": "PRX-200"}, &entries)
	require.NotEmpty(t, entries)
	require.Equal(t, audit.FieldRemoved, entries[0].CampoAlterado)
	for _, entry := range entries {
		require.Equal(t, audit.DefaultActor, entry.Usuario)
	}
}

func TestTools_SpreadsheetRoundTrip(t *testing.T) {
	stack := testserver.NewStack(t, hub.SampleClients(testserver.Now))
	cs := connect(t, stack)

	var exported mcp.ExportResponse
	callTool(t, cs, "export_spreadsheet", nil, &exported)
	require.Equal(t, "PRONIX_BASE_HUB_2024-06-10.xlsx", exported.Filename)

	var result struct {
		Count int `json:"count"`
	}
	callTool(t, cs, "import_spreadsheet", map[string]any{
		"filename":       exported.Filename,
		"content_base64": exported.ContentBase64,
	}, &result)
	require.Equal(t, 1, result.Count)

	got, err := stack.Clients.Get(context.Background(), "PRX-001")
	require.NoError(t, err)
	require.Equal(t, client.SourcePlanilha, got.LastModifiedSource)

	msg := callToolErr(t, cs, "import_spreadsheet", map[string]any{
		"filename":       "base.xlsx",
		"content_base64": base64.StdEncoding.EncodeToString([]byte("not a workbook")),
	})
	require.Contains(t, msg, "MALFORMED_SPREADSHEET")

	msg = callToolErr(t, cs, "import_spreadsheet", map[string]any{
		"filename":       "base.xlsx",
		"content_base64": "%%%",
	})
	require.Contains(t, msg, "INVALID_INPUT")
}

func TestTools_DashboardAndAnalysis(t *testing.T) {
	stack := testserver.NewStack(t, hub.SampleClients(testserver.Now))
	cs := connect(t, stack)

	var stats dashboard.Stats
	callTool(t, cs, "get_dashboard", nil, &stats)
	require.Equal(t, 1, stats.ActiveCount)

	var result notify.Result
	callTool(t, cs, "analyze_client", map[string]any{"id": "PRX-001"}, &result)
	require.True(t, result.Delivered)
	require.Equal(t, testserver.Insight, result.Insight)

	payloads := stack.Webhook.Payloads()
	require.Len(t, payloads, 1)
	require.Equal(t, testserver.Insight, payloads[0].Descricao)

	var entries []audit.Entry
	callTool(t, cs, "get_logs", map[string]any{"limit": 1}, &entries)
	require.Len(t, entries, 1)
	require.Equal(t, audit.FieldAISync, entries[0].CampoAlterado)
}

func TestResources_Docs(t *testing.T) {
	cs := connect(t, testserver.NewStack(t, nil))
	ctx := context.Background()

	list, err := cs.ListResources(ctx, nil)
	require.NoError(t, err)
	require.NotEmpty(t, list.Resources)

	res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "pronix://docs/fields"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "proximaAtivacaoEspecialista")
}
