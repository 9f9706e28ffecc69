package mcp

// ListClientsParams filters the client list. Empty fields match everything.
type ListClientsParams struct {
	Query        string   `json:"query,omitempty" jsonschema:"case-insensitive substring of the company name"`
	Trilhas      []string `json:"trilhas,omitempty" jsonschema:"keep clients on any of these tracks"`
	Planos       []string `json:"planos,omitempty" jsonschema:"keep clients on any of these plans"`
	Saude        []string `json:"saude,omitempty" jsonschema:"activation health buckets: Vermelho, Laranja, Amarelo, Verde or Sem Data"`
	Overdelivery string   `json:"overdelivery,omitempty" jsonschema:"exact overdelivery meeting state, or Todos"`
}

type ClientIDParams struct {
	ID string `json:"id" jsonschema:"client identifier (ID_Cliente)"`
}

type CreateClientParams struct {
	Fields map[string]any `json:"fields" jsonschema:"client record fields using their JSON names, e.g. nomeEmpresa, plano, status"`
}

type SaveClientParams struct {
	ID     string         `json:"id" jsonschema:"client identifier"`
	Fields map[string]any `json:"fields" jsonschema:"fields to change using their JSON names; omitted fields keep their values"`
}

type AddCommentParams struct {
	ID     string `json:"id" jsonschema:"client identifier"`
	Text   string `json:"text" jsonschema:"comment text"`
	Author string `json:"author,omitempty" jsonschema:"comment author; defaults to the authenticated user"`
}

type ImportSpreadsheetParams struct {
	Filename      string `json:"filename" jsonschema:"uploaded file name; the extension selects the format (.xlsx, .xls or .csv)"`
	ContentBase64 string `json:"content_base64" jsonschema:"file contents, base64 encoded"`
}

type GetLogsParams struct {
	ClientID string `json:"client_id,omitempty" jsonschema:"only entries for this client"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum entries to return"`
	Offset   int    `json:"offset,omitempty" jsonschema:"entries to skip, newest first"`
}

type EmptyParams struct{}

// ExportResponse carries an exported workbook.
type ExportResponse struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	ContentBase64 string `json:"content_base64"`
}
