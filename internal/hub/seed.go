package hub

import (
	"time"

	"github.com/rpggio/pronix-hub/internal/dates"
	"github.com/rpggio/pronix-hub/internal/domain/client"
)

// SampleClients returns the demo client a fresh hub starts with. Upcoming
// dates are placed relative to now.
func SampleClients(now time.Time) []client.Client {
	future := func(days int) string {
		return now.UTC().AddDate(0, 0, days).Format(dates.ISOLayout)
	}
	return []client.Client{{
		ID:                          "PRX-001",
		NomeEmpresa:                 "Mentorado Exemplo 1",
		Responsavel:                 "Felipe Matos",
		Telefone:                    "(11) 91234-5678",
		Email:                       "felipe@mentorado.com.br",
		Segmento:                    "Varejo Online",
		Plano:                       "Performance",
		Status:                      client.StatusAtivo,
		DataInicio:                  "2024-01-10",
		Trilha:                      "Performance Ads",
		Produto:                     "Ads Manager Pro",
		TipoCliente:                 "Standard",
		UltimaReuniaoPerformance:    "2024-05-15",
		UltimaReuniaoPAP:            "2024-04-20",
		AtivacaoEspecialista:        "Ana Julia",
		AtivacaoAnalista:            "Lucas P.",
		DataAtivacaoTatico:          "2024-01-15",
		UltimoDirecionamento:        "Otimizar campanhas de Shopping",
		UltimaReuniaoOver:           client.OverRealizada,
		LinkCard:                    "https://trello.com/c/sample1",
		DataAtivacaoEspecialista:    "2024-01-20",
		ProximaAtivacaoEspecialista: "2024-02-04",
		DataAtivacaoAnalista:        "2024-01-21",
		ProximaAtivacaoAnalista:     "2024-02-05",
		ProximaAtivacaoTatico:       future(5),
		ProximoDirecionamento:       "Ajuste de ROAS target",
		ProximaReuniaoPremium:       future(12),
		PerfilCliente:               "Analítico",
		DataRenovacao:               future(250),
		ResponsavelInterno:          "Ricardo Silva",
		CardTrelloID:                "88k12",
		ListaTrello:                 "Gestão Ativa",
		Checklists:                  []client.ChecklistItem{},
		Comentarios:                 []client.Comment{},
		Observacoes:                 "Cliente satisfeito.",
		Etiquetas:                   []string{},
		UltimaAtualizacao:           client.Timestamp(now),
		LastModifiedSource:          client.SourcePlanilha,
	}}
}
