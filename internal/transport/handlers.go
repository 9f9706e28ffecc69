package transport

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/pronix-hub/internal/dates"
	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
)

// maxUploadBytes caps spreadsheet uploads.
const maxUploadBytes = 32 << 20

// CommentRequest is the body of POST /api/clients/{id}/comments.
type CommentRequest struct {
	Autor string `json:"autor"`
	Text  string `json:"text"`
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	rows, err := s.services.Clients.Rows(r.Context(), filter)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}

func (s *Server) handleClientOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.services.Clients.Options(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, opts)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var c client.Client
	if err := DecodeJSON(r.Body, &c); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	created, err := s.services.Clients.Create(r.Context(), c)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := s.services.Clients.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

func (s *Server) handleSaveClient(w http.ResponseWriter, r *http.Request) {
	var c client.Client
	if err := DecodeJSON(r.Body, &c); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	c.ID = chi.URLParam(r, "id")
	saved, err := s.services.Clients.Save(r.Context(), c)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Clients.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if err := DecodeJSON(r.Body, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	author := req.Autor
	if author == "" {
		author = audit.ActorFromContext(r.Context())
	}
	updated, err := s.services.Clients.AddComment(r.Context(), chi.URLParam(r, "id"), author, req.Text)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, updated)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.services.Analysis == nil {
		WriteError(w, http.StatusServiceUnavailable, CodeInternal, "analysis not configured")
		return
	}
	c, err := s.services.Clients.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, s.services.Analysis.Run(r.Context(), *c))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid multipart upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "failed to read upload")
		return
	}
	result, err := s.services.Workbooks.Import(r.Context(), data, header.Filename)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	file, err := s.services.Workbooks.Export(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Dashboard.Get(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := audit.ListOptions{ClientID: q.Get("clientId")}
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid limit")
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid offset")
		return
	}
	entries, err := s.services.Audit.List(r.Context(), opts)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

// parseFilter reads list filters. Multi-value filters accept repeated
// parameters as well as comma separated values.
func parseFilter(r *http.Request) (client.Filter, error) {
	q := r.URL.Query()
	filter := client.Filter{
		Search:       q.Get("q"),
		Trilhas:      multiParam(q["trilha"]),
		Planos:       multiParam(q["plano"]),
		Overdelivery: q.Get("overdelivery"),
	}
	for _, value := range multiParam(q["saude"]) {
		tier, ok := dates.ParseTier(value)
		if !ok {
			return client.Filter{}, fmt.Errorf("unknown saude value %q", value)
		}
		filter.Saude = append(filter.Saude, tier)
	}
	return filter, nil
}

func multiParam(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func intParam(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return n, nil
}
