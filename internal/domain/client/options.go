package client

import (
	"slices"
	"strings"
	"time"

	"github.com/rpggio/pronix-hub/internal/dates"
)

// OverdeliveryAll disables the overdelivery filter.
const OverdeliveryAll = "Todos"

// Filter selects clients for the list view. Empty fields match everything.
type Filter struct {
	Search       string
	Trilhas      []string
	Planos       []string
	Saude        []dates.Tier
	Overdelivery string
}

// Active reports whether any criterion is set.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" ||
		len(f.Trilhas) > 0 ||
		len(f.Planos) > 0 ||
		len(f.Saude) > 0 ||
		!f.overdeliveryAll()
}

func (f Filter) overdeliveryAll() bool {
	value := strings.TrimSpace(f.Overdelivery)
	return value == "" || strings.EqualFold(value, OverdeliveryAll)
}

// Matches reports whether c passes every criterion. Activation health is
// computed from the specialist's next activation relative to now.
func (f Filter) Matches(c Client, now time.Time) bool {
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		if !strings.Contains(strings.ToLower(c.NomeEmpresa), search) {
			return false
		}
	}
	if len(f.Trilhas) > 0 && !slices.Contains(f.Trilhas, c.Trilha) {
		return false
	}
	if len(f.Planos) > 0 && !slices.Contains(f.Planos, c.Plano) {
		return false
	}
	if len(f.Saude) > 0 && !slices.Contains(f.Saude, dates.Classify(c.ProximaAtivacaoEspecialista, now)) {
		return false
	}
	if !f.overdeliveryAll() && !strings.EqualFold(c.UltimaReuniaoOver, strings.TrimSpace(f.Overdelivery)) {
		return false
	}
	return true
}

// Apply returns the clients matching f in their original order.
func Apply(clients []Client, f Filter, now time.Time) []Client {
	if !f.Active() {
		return clients
	}
	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		if f.Matches(c, now) {
			out = append(out, c)
		}
	}
	return out
}

// FilterOptions lists the distinct values offered by the multi-select filters.
type FilterOptions struct {
	Trilhas      []string     `json:"trilhas"`
	Planos       []string     `json:"planos"`
	Saude        []dates.Tier `json:"saude"`
	Overdelivery []string     `json:"overdelivery"`
	Statuses     []Status     `json:"statuses"`
}

// Options collects distinct non-empty trilhas and planos in first-seen order,
// next to the fixed tiers, overdelivery values and known statuses.
func Options(clients []Client) FilterOptions {
	opts := FilterOptions{
		Trilhas:      []string{},
		Planos:       []string{},
		Saude:        dates.Tiers,
		Overdelivery: []string{OverRealizada, OverPendente},
		Statuses:     slices.Clone(Statuses),
	}
	for _, c := range clients {
		if c.Trilha != "" && !slices.Contains(opts.Trilhas, c.Trilha) {
			opts.Trilhas = append(opts.Trilhas, c.Trilha)
		}
		if c.Plano != "" && !slices.Contains(opts.Planos, c.Plano) {
			opts.Planos = append(opts.Planos, c.Plano)
		}
	}
	return opts
}

// Row is the list-view projection of a client with its activation health.
type Row struct {
	ID                          string     `json:"id"`
	NomeEmpresa                 string     `json:"nomeEmpresa"`
	Trilha                      string     `json:"trilha"`
	Plano                       string     `json:"plano"`
	Status                      Status     `json:"status"`
	UltimaReuniaoOver           string     `json:"ultimaReuniaoOver"`
	OverRealizada               bool       `json:"overRealizada"`
	ProximaAtivacaoEspecialista string     `json:"proximaAtivacaoEspecialista"`
	SaudeEspecialista           dates.Tier `json:"saudeEspecialista"`
	ProximaAtivacaoAnalista     string     `json:"proximaAtivacaoAnalista"`
	SaudeAnalista               dates.Tier `json:"saudeAnalista"`
}

// Summarize projects c into a list row.
func Summarize(c Client, now time.Time) Row {
	return Row{
		ID:                          c.ID,
		NomeEmpresa:                 c.NomeEmpresa,
		Trilha:                      c.Trilha,
		Plano:                       c.Plano,
		Status:                      c.Status,
		UltimaReuniaoOver:           c.UltimaReuniaoOver,
		OverRealizada:               strings.Contains(strings.ToLower(c.UltimaReuniaoOver), "realizada"),
		ProximaAtivacaoEspecialista: c.ProximaAtivacaoEspecialista,
		SaudeEspecialista:           dates.Classify(c.ProximaAtivacaoEspecialista, now),
		ProximaAtivacaoAnalista:     c.ProximaAtivacaoAnalista,
		SaudeAnalista:               dates.Classify(c.ProximaAtivacaoAnalista, now),
	}
}
