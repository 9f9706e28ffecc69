package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/domain/dashboard"
	"github.com/rpggio/pronix-hub/internal/notify"
	"github.com/rpggio/pronix-hub/internal/spreadsheet"
	"github.com/rpggio/pronix-hub/internal/testserver"
	"github.com/rpggio/pronix-hub/internal/transport"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, ts *testserver.TestServer, method, path string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func doJSON(t *testing.T, ts *testserver.TestServer, method, path string, payload any, wantStatus int, out any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	resp := do(t, ts, method, path, body, "application/json")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "body: %s", raw)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out))
	}
}

func upload(t *testing.T, ts *testserver.TestServer, filename string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return do(t, ts, http.MethodPost, "/api/import", &buf, mw.FormDataContentType())
}

func TestHTTPServer_Health(t *testing.T) {
	ts := testserver.New(t, "secret", "Carla Souza")

	resp, err := http.Get(ts.Server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_HealthReportsUnavailableStore(t *testing.T) {
	router := transport.NewServer(transport.Services{}, transport.Options{
		Ready: func(context.Context) error { return errors.New("connection refused") },
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHTTPServer_RequiresToken(t *testing.T) {
	ts := testserver.New(t, "secret", "Carla Souza")

	resp, err := http.Get(ts.Server.URL + "/api/clients")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPServer_ListAndFilter(t *testing.T) {
	ts := testserver.New(t, "secret", "Carla Souza")

	var rows []client.Row
	doJSON(t, ts, http.MethodGet, "/api/clients", nil, http.StatusOK, &rows)
	require.Len(t, rows, 1)
	require.Equal(t, "PRX-001", rows[0].ID)

	doJSON(t, ts, http.MethodGet, "/api/clients?saude=Verde,Amarelo", nil, http.StatusOK, &rows)
	require.Empty(t, rows)

	doJSON(t, ts, http.MethodGet, "/api/clients?q=EXEMPLO&trilha=Performance+Ads", nil, http.StatusOK, &rows)
	require.Len(t, rows, 1)

	doJSON(t, ts, http.MethodGet, "/api/clients?saude=Roxo", nil, http.StatusBadRequest, nil)

	var opts client.FilterOptions
	doJSON(t, ts, http.MethodGet, "/api/clients/options", nil, http.StatusOK, &opts)
	require.Equal(t, []string{"Performance Ads"}, opts.Trilhas)
}

func TestHTTPServer_ClientLifecycle(t *testing.T) {
	ts := testserver.New(t, "secret", "Carla Souza")

	var created client.Client
	doJSON(t, ts, http.MethodPost, "/api/clients", map[string]any{
		"id":                   "PRX-300",
		"nomeEmpresa":          "Padaria Sol",
		"dataAtivacaoAnalista": "2024-06-05",
	}, http.StatusCreated, &created)
	require.Equal(t, "2024-06-20", created.ProximaAtivacaoAnalista)

	doJSON(t, ts, http.MethodPost, "/api/clients", map[string]any{"id": "PRX-300"}, http.StatusConflict, nil)

	created.Status = client.StatusCancelado
	var saved client.Client
	doJSON(t, ts, http.MethodPut, "/api/clients/PRX-300", created, http.StatusOK, &saved)
	require.Equal(t, "2024-06-10", saved.DataCancelamento)

	var commented client.Client
	doJSON(t, ts, http.MethodPost, "/api/clients/PRX-300/comments", map[string]any{"text": "Cliente pediu pausa"}, http.StatusCreated, &commented)
	require.Equal(t, "Carla Souza", commented.Comentarios[0].Autor)

	doJSON(t, ts, http.MethodPost, "/api/clients/PRX-300/comments", map[string]any{"text": "  "}, http.StatusBadRequest, nil)

	resp := do(t, ts, http.MethodDelete, "/api/clients/PRX-300", nil, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	doJSON(t, ts, http.MethodGet, "/api/clients/PRX-300", nil, http.StatusNotFound, nil)

	var entries []audit.Entry
	doJSON(t, ts, http.MethodGet, "/api/logs?clientId=PRX-300", nil, http.StatusOK, &entries)
	fields := make([]string, 0, len(entries))
	for _, entry := range entries {
		require.Equal(t, "Carla Souza", entry.Usuario)
		fields = append(fields, entry.CampoAlterado)
	}
	require.Equal(t, []string{
		audit.FieldRemoved,
		audit.FieldComment,
		audit.FieldManualUpdate,
		audit.FieldStatus,
		audit.FieldCreated,
	}, fields)

	doJSON(t, ts, http.MethodGet, "/api/logs?clientId=PRX-300&limit=2&offset=1", nil, http.StatusOK, &entries)
	require.Len(t, entries, 2)
	require.Equal(t, audit.FieldComment, entries[0].CampoAlterado)

	doJSON(t, ts, http.MethodGet, "/api/logs?limit=-1", nil, http.StatusBadRequest, nil)
}

func TestHTTPServer_ImportExport(t *testing.T) {
	ts := testserver.New(t, "secret", "Carla Souza")

	csv := "ID_Cliente;Título;Status;Data Ativação - Especialista\n" +
		"PRX-010;Mercado Bom;Ativo;2024-06-11\n" +
		"PRX-011;Oficina Real;Pausado;N/A\n"
	resp := upload(t, ts, "base.csv", []byte(csv))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []client.Row
	doJSON(t, ts, http.MethodGet, "/api/clients", nil, http.StatusOK, &rows)
	require.Len(t, rows, 2)
	require.Equal(t, "2024-06-26", rows[0].ProximaAtivacaoEspecialista)

	resp = upload(t, ts, "base.xlsx", []byte("garbage"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	doJSON(t, ts, http.MethodGet, "/api/clients", nil, http.StatusOK, &rows)
	require.Len(t, rows, 2, "failed import must keep state")

	resp = do(t, ts, http.MethodGet, "/api/export", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, spreadsheet.ContentType, resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "PRONIX_BASE_HUB_2024-06-10.xlsx")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	imported, err := spreadsheet.Parse(data, "export.xlsx", testserver.Now)
	require.NoError(t, err)
	require.Len(t, imported, 2)
	require.Equal(t, "Mercado Bom", imported[0].NomeEmpresa)
}

func TestHTTPServer_ImportRequiresFile(t *testing.T) {
	ts := testserver.New(t, "secret", "Carla Souza")

	resp := do(t, ts, http.MethodPost, "/api/import", bytes.NewBufferString("{}"), "application/json")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_DashboardAndAnalyze(t *testing.T) {
	ts := testserver.New(t, "secret", "Carla Souza")

	var stats dashboard.Stats
	doJSON(t, ts, http.MethodGet, "/api/dashboard", nil, http.StatusOK, &stats)
	require.Equal(t, 1, stats.ActiveCount)

	var result notify.Result
	doJSON(t, ts, http.MethodPost, "/api/clients/PRX-001/analyze", nil, http.StatusOK, &result)
	require.True(t, result.Delivered)
	require.Equal(t, testserver.Insight, result.Insight)
	require.Len(t, ts.Webhook.Payloads(), 1)

	doJSON(t, ts, http.MethodPost, "/api/clients/NOPE/analyze", nil, http.StatusNotFound, nil)
}
