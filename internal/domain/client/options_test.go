package client_test

import (
	"testing"
	"time"

	"github.com/rpggio/pronix-hub/internal/dates"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/stretchr/testify/assert"
)

var filterNow = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

func filterFixture() []client.Client {
	return []client.Client{
		{ID: "1", NomeEmpresa: "Acme Ltda", Trilha: "Ads", Plano: "Performance", UltimaReuniaoOver: "Realizada", ProximaAtivacaoEspecialista: "2024-06-09"},
		{ID: "2", NomeEmpresa: "Beta", Trilha: "Social", Plano: "Scale", UltimaReuniaoOver: "Pendente", ProximaAtivacaoEspecialista: "2024-06-20"},
		{ID: "3", NomeEmpresa: "acme norte", Trilha: "Ads", Plano: "Scale", UltimaReuniaoOver: "Pendente", ProximaAtivacaoEspecialista: "N/A"},
		{ID: "4", NomeEmpresa: "Gama", Trilha: "", Plano: "", UltimaReuniaoOver: "Pendente", ProximaAtivacaoEspecialista: "2024-06-12"},
	}
}

func ids(clients []client.Client) []string {
	out := make([]string, 0, len(clients))
	for _, c := range clients {
		out = append(out, c.ID)
	}
	return out
}

func TestApply_NoFiltersReturnsEverythingInOrder(t *testing.T) {
	all := filterFixture()
	for _, f := range []client.Filter{{}, {Overdelivery: client.OverdeliveryAll}, {Overdelivery: "todos"}, {Overdelivery: " TODOS "}, {Search: "   "}} {
		assert.Equal(t, []string{"1", "2", "3", "4"}, ids(client.Apply(all, f, filterNow)))
	}
}

func TestApply_Criteria(t *testing.T) {
	tests := []struct {
		name   string
		filter client.Filter
		want   []string
	}{
		{name: "search is case insensitive", filter: client.Filter{Search: "ACME"}, want: []string{"1", "3"}},
		{name: "trilhas", filter: client.Filter{Trilhas: []string{"Ads"}}, want: []string{"1", "3"}},
		{name: "planos", filter: client.Filter{Planos: []string{"Scale", "Performance"}}, want: []string{"1", "2", "3"}},
		{name: "saude", filter: client.Filter{Saude: []dates.Tier{dates.TierOverdue, dates.TierNoDate}}, want: []string{"1", "3"}},
		{name: "overdelivery", filter: client.Filter{Overdelivery: "Realizada"}, want: []string{"1"}},
		{name: "overdelivery ignores case", filter: client.Filter{Overdelivery: "pendente"}, want: []string{"2", "3", "4"}},
		{name: "combined", filter: client.Filter{Trilhas: []string{"Ads"}, Planos: []string{"Scale"}}, want: []string{"3"}},
		{name: "no match", filter: client.Filter{Search: "zzz"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(client.Apply(filterFixture(), tt.filter, filterNow)))
		})
	}
}

func TestOptions_DistinctInFirstSeenOrder(t *testing.T) {
	opts := client.Options(filterFixture())
	assert.Equal(t, []string{"Ads", "Social"}, opts.Trilhas)
	assert.Equal(t, []string{"Performance", "Scale"}, opts.Planos)
	assert.Equal(t, dates.Tiers, opts.Saude)
	assert.Equal(t, []string{"Realizada", "Pendente"}, opts.Overdelivery)
	assert.Equal(t, client.Statuses, opts.Statuses)
}

func TestChecklistRatio(t *testing.T) {
	_, ok := client.Client{}.ChecklistRatio()
	assert.False(t, ok)

	ratio, ok := client.Client{Checklists: []client.ChecklistItem{{Completed: true}, {}, {}, {Completed: true}}}.ChecklistRatio()
	assert.True(t, ok)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}
