package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pronix-hub/internal/dates"
	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
)

var errAnalysisDisabled = errors.New("analysis is not configured")

type tools struct {
	services Services
}

func registerTools(server *sdkmcp.Server, services Services) {
	t := &tools{services: services}

	// Clients
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_clients",
		Description: "List clients with their activation health, optionally filtered by name, track, plan, health bucket and overdelivery state",
	}, t.listClients)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "client_options",
		Description: "Get the values available for the list_clients filters",
	}, t.clientOptions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_client",
		Description: "Get the full record of one client",
	}, t.getClient)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_client",
		Description: "Register a new client; a missing id is generated",
	}, t.createClient)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_client",
		Description: "Update fields of an existing client; next activation dates are recalculated",
	}, t.saveClient)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_client",
		Description: "Remove a client from the portfolio",
	}, t.deleteClient)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_comment",
		Description: "Add a comment to a client; the text is also prepended to its notes",
	}, t.addComment)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "analyze_client",
		Description: "Generate an AI risk summary for a client and send it to the configured webhook",
	}, t.analyzeClient)

	// Spreadsheets
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_spreadsheet",
		Description: "Replace the whole client base with the rows of a spreadsheet (.xlsx, .xls or .csv)",
	}, t.importSpreadsheet)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_spreadsheet",
		Description: "Export the client base as an .xlsx workbook",
	}, t.exportSpreadsheet)

	// Overview
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_dashboard",
		Description: "Get portfolio indicators: active clients, risk, renewals, cancellations and owner performance",
	}, t.getDashboard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_logs",
		Description: "List change log entries, newest first",
	}, t.getLogs)
}

func (t *tools) listClients(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListClientsParams) (*sdkmcp.CallToolResult, any, error) {
	filter := client.Filter{
		Search:       in.Query,
		Trilhas:      in.Trilhas,
		Planos:       in.Planos,
		Overdelivery: in.Overdelivery,
	}
	for _, value := range in.Saude {
		tier, ok := dates.ParseTier(value)
		if !ok {
			return nil, nil, &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("unknown saude value %q", value), RecoveryHint: "Call client_options for valid buckets"}
		}
		filter.Saude = append(filter.Saude, tier)
	}
	rows, err := t.services.Clients.Rows(ctx, filter)
	if err != nil {
		return nil, nil, toolError("list clients", err)
	}
	return jsonResult(rows)
}

func (t *tools) clientOptions(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	opts, err := t.services.Clients.Options(ctx)
	if err != nil {
		return nil, nil, toolError("client options", err)
	}
	return jsonResult(opts)
}

func (t *tools) getClient(ctx context.Context, _ *sdkmcp.CallToolRequest, in ClientIDParams) (*sdkmcp.CallToolResult, any, error) {
	c, err := t.services.Clients.Get(ctx, in.ID)
	if err != nil {
		return nil, nil, toolError("get client", err)
	}
	return jsonResult(c)
}

func (t *tools) createClient(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateClientParams) (*sdkmcp.CallToolResult, any, error) {
	c, err := applyFields(client.Client{}, in.Fields)
	if err != nil {
		return nil, nil, err
	}
	created, err := t.services.Clients.Create(ctx, c)
	if err != nil {
		return nil, nil, toolError("create client", err)
	}
	return jsonResult(created)
}

func (t *tools) saveClient(ctx context.Context, _ *sdkmcp.CallToolRequest, in SaveClientParams) (*sdkmcp.CallToolResult, any, error) {
	saved, err := t.services.Clients.Edit(ctx, in.ID, func(current client.Client) (client.Client, error) {
		return applyFields(current, in.Fields)
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, nil, apiErr
		}
		return nil, nil, toolError("save client", err)
	}
	return jsonResult(saved)
}

func (t *tools) deleteClient(ctx context.Context, _ *sdkmcp.CallToolRequest, in ClientIDParams) (*sdkmcp.CallToolResult, any, error) {
	if err := t.services.Clients.Delete(ctx, in.ID); err != nil {
		return nil, nil, toolError("delete client", err)
	}
	return jsonResult(map[string]any{"deleted": in.ID})
}

func (t *tools) addComment(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddCommentParams) (*sdkmcp.CallToolResult, any, error) {
	author := in.Author
	if author == "" {
		author = audit.ActorFromContext(ctx)
	}
	updated, err := t.services.Clients.AddComment(ctx, in.ID, author, in.Text)
	if err != nil {
		return nil, nil, toolError("add comment", err)
	}
	return jsonResult(updated)
}

func (t *tools) analyzeClient(ctx context.Context, _ *sdkmcp.CallToolRequest, in ClientIDParams) (*sdkmcp.CallToolResult, any, error) {
	if t.services.Analysis == nil {
		return nil, nil, errAnalysisDisabled
	}
	c, err := t.services.Clients.Get(ctx, in.ID)
	if err != nil {
		return nil, nil, toolError("analyze client", err)
	}
	return jsonResult(t.services.Analysis.Run(ctx, *c))
}

func (t *tools) importSpreadsheet(ctx context.Context, _ *sdkmcp.CallToolRequest, in ImportSpreadsheetParams) (*sdkmcp.CallToolResult, any, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(in.ContentBase64))
	if err != nil {
		return nil, nil, &APIError{Code: "INVALID_INPUT", Message: "content_base64 is not valid base64"}
	}
	result, err := t.services.Workbooks.Import(ctx, data, in.Filename)
	if err != nil {
		return nil, nil, toolError("import spreadsheet", err)
	}
	return jsonResult(result)
}

func (t *tools) exportSpreadsheet(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	file, err := t.services.Workbooks.Export(ctx)
	if err != nil {
		return nil, nil, toolError("export spreadsheet", err)
	}
	return jsonResult(ExportResponse{
		Filename:      file.Filename,
		ContentType:   file.ContentType,
		ContentBase64: base64.StdEncoding.EncodeToString(file.Data),
	})
}

func (t *tools) getDashboard(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	stats, err := t.services.Dashboard.Get(ctx)
	if err != nil {
		return nil, nil, toolError("dashboard", err)
	}
	return jsonResult(stats)
}

func (t *tools) getLogs(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetLogsParams) (*sdkmcp.CallToolResult, any, error) {
	if in.Limit < 0 || in.Offset < 0 {
		return nil, nil, &APIError{
			Code:         "INVALID_INPUT",
			Message:      "limit and offset must not be negative",
			RecoveryHint: "Omit limit for every entry; offset starts at 0",
		}
	}
	entries, err := t.services.Audit.List(ctx, audit.ListOptions{
		ClientID: in.ClientID,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, nil, toolError("get logs", err)
	}
	return jsonResult(entries)
}

// applyFields overlays JSON-named fields onto base.
func applyFields(base client.Client, fields map[string]any) (client.Client, error) {
	if len(fields) == 0 {
		return base, nil
	}
	raw, err := json.Marshal(base)
	if err != nil {
		return client.Client{}, fmt.Errorf("encoding client: %w", err)
	}
	merged := map[string]any{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return client.Client{}, fmt.Errorf("decoding client: %w", err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	raw, err = json.Marshal(merged)
	if err != nil {
		return client.Client{}, fmt.Errorf("encoding fields: %w", err)
	}
	var out client.Client
	if err := json.Unmarshal(raw, &out); err != nil {
		return client.Client{}, &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("invalid client fields: %v", err)}
	}
	return out, nil
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
