package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `pronix-hub tracks mentoring clients of the PRONIX programme: their
activation calendar, deliverables, comments and a change log.

Core concepts:
- Client: one record keyed by id (ID_Cliente). Dates are ISO (YYYY-MM-DD) or the sentinels "N/A", "---" or empty.
- Next activation: derived as activation date + 15 days. It is recalculated on every save; values you send are ignored.
- Health (saude): bucket of the next specialist activation relative to today. Vermelho = overdue, Laranja = due within 2 days, Amarelo = within 7 days, Verde = later, Sem Data = no usable date.
- Change log: append-only history of edits, imports, exports and AI syncs, newest first.

Default workflow:
1) Orient: get_dashboard, then list_clients (filter with client_options values).
2) Inspect: get_client before editing.
3) Edit: save_client with only the fields to change; add_comment for notes.
4) Follow up: analyze_client sends an AI risk summary to the team webhook.
5) Bulk: import_spreadsheet replaces the whole base; export_spreadsheet returns an .xlsx.

Docs:
- pronix://docs/index
- pronix://docs/fields
- pronix://docs/spreadsheets
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "pronix://docs/index",
		Name:        "docs_index",
		Title:       "pronix-hub docs index",
		Description: "Entry point: tools, what to read when, and known limitations.",
		Content: `# pronix-hub: Agent Docs Index

## Quick start

1. ` + "`get_dashboard`" + ` for the portfolio picture (active, at risk, renewals).
2. ` + "`list_clients`" + ` with ` + "`saude: [\"Vermelho\"]`" + ` to find overdue activations.
3. ` + "`get_client`" + ` then ` + "`save_client`" + ` to record a new activation date.
4. ` + "`get_logs`" + ` with ` + "`client_id`" + ` to review what changed.

## Docs

- ` + "`pronix://docs/fields`" + ` - client fields and derived values.
- ` + "`pronix://docs/spreadsheets`" + ` - import aliases and export layout.

## Limitations

- Imports replace the entire base. There is no merge.
- ` + "`analyze_client`" + ` has no retry; a failed webhook delivery is not logged.
`,
	},
	{
		URI:         "pronix://docs/fields",
		Name:        "docs_fields",
		Title:       "Client fields",
		Description: "Field names accepted by create_client and save_client, and which ones are derived.",
		Content: `# Client fields

Use JSON names in ` + "`fields`" + `:

- Identification: ` + "`nomeEmpresa`, `responsavel`, `telefone`, `email`, `segmento`, `plano`, `status`, `dataInício`" + `
- Technical: ` + "`trilha`, `produto`, `tipoCliente`" + `
- Activations: ` + "`dataAtivacaoEspecialista`, `dataAtivacaoAnalista`, `ultimaReuniaoOver`, `proximaReuniaoPremium`" + `
- Management: ` + "`dataRenovacao`, `responsavelInterno`, `perfilCliente`, `observacoes`" + `
- Lists: ` + "`checklists`, `etiquetas`" + `

## Derived

- ` + "`proximaAtivacaoEspecialista`" + ` and ` + "`proximaAtivacaoAnalista`" + ` = activation date + 15 days.
- ` + "`ultimaAtualizacao`" + ` and ` + "`lastModifiedSource`" + ` are stamped on every save.
- Setting ` + "`status`" + ` to ` + "`Cancelado`" + ` stamps ` + "`dataCancelamento`" + ` with today.
`,
	},
	{
		URI:         "pronix://docs/spreadsheets",
		Name:        "docs_spreadsheets",
		Title:       "Spreadsheet import and export",
		Description: "Accepted formats, header aliases and the fixed export column set.",
		Content: `# Spreadsheets

## Import

- Formats: .xlsx, .xls and .csv (comma or semicolon separated). Send the bytes base64 encoded.
- The first sheet is read; the first row holds headers. Header matching ignores case and surrounding spaces.
- Common aliases: ` + "`ID_Cliente`" + ` for id, ` + "`Título`" + ` for nomeEmpresa, ` + "`Data Ativação - Especialista`" + ` or ` + "`Data Ativ. Especialista`" + ` for dataAtivacaoEspecialista.
- Missing ids become ` + "`PRX-<row+100>`" + `. Duplicate ids reject the whole file.
- A rejected file leaves the current base untouched.

## Export

The workbook has one sheet, ` + "`Base PRONIX`" + `, with a fixed column set in a fixed order. Re-importing an export reproduces those columns.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
