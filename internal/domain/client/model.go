package client

import (
	"slices"
	"time"
)

// Status is the lifecycle state of a client.
type Status string

const (
	StatusAtivo          Status = "Ativo"
	StatusCancelado      Status = "Cancelado"
	StatusPausado        Status = "Pausado"
	StatusPausaPagamento Status = "Pausa Pagamento"
	StatusCicloEncerrado Status = "Ciclo Encerrado"
	StatusPosOnboarding  Status = "Pós Onboarding"
	StatusKickOff        Status = "Kick Off"
)

// Statuses lists every known status.
var Statuses = []Status{
	StatusAtivo,
	StatusCancelado,
	StatusPausado,
	StatusPausaPagamento,
	StatusCicloEncerrado,
	StatusPosOnboarding,
	StatusKickOff,
}

// Source records where the last modification of a client came from.
type Source string

const (
	SourceHub      Source = "HUB"
	SourcePlanilha Source = "PLANILHA"
)

// Overdelivery states for the extra contractual meeting.
const (
	OverRealizada = "Realizada"
	OverPendente  = "Pendente"
)

// ChecklistStatus is the progress label of a checklist item.
type ChecklistStatus string

const (
	ChecklistPendente    ChecklistStatus = "Pendente"
	ChecklistEmAndamento ChecklistStatus = "Em Andamento"
	ChecklistConcluido   ChecklistStatus = "Concluído"
)

// ChecklistItem is a deliverable tracked for a client.
type ChecklistItem struct {
	ID                  string          `json:"id"`
	Titulo              string          `json:"titulo"`
	Completed           bool            `json:"completed"`
	PercentualConclusao int             `json:"percentualConclusao"`
	Status              ChecklistStatus `json:"status"`
}

// Comment is a free-text note attached to a client.
type Comment struct {
	ID        string `json:"id"`
	Autor     string `json:"autor"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// Client is a tracked mentoring client. Date fields hold ISO dates or the
// "N/A" / "---" / empty sentinels.
type Client struct {
	// Identification
	ID          string `json:"id"`
	NomeEmpresa string `json:"nomeEmpresa"`
	Responsavel string `json:"responsavel"`
	Telefone    string `json:"telefone"`
	Email       string `json:"email"`
	Segmento    string `json:"segmento"`
	Plano       string `json:"plano"`
	Status      Status `json:"status"`
	DataInicio  string `json:"dataInício"`

	// Technical data
	Trilha      string `json:"trilha"`
	Produto     string `json:"produto"`
	TipoCliente string `json:"tipoCliente"`

	// Meetings and activations
	UltimaReuniaoPerformance string `json:"ultimaReuniaoPerformance"`
	UltimaReuniaoPAP         string `json:"ultimaReuniaoPAP"`
	AtivacaoEspecialista     string `json:"ativacaoEspecialista"`
	AtivacaoAnalista         string `json:"ativacaoAnalista"`
	DataAtivacaoTatico       string `json:"dataAtivacaoTatico"`
	UltimoDirecionamento     string `json:"ultimoDirecionamento"`
	UltimaReuniaoOver        string `json:"ultimaReuniaoOver"`

	// Planning
	LinkCard                    string `json:"linkCard"`
	DataAtivacaoEspecialista    string `json:"dataAtivacaoEspecialista"`
	ProximaAtivacaoEspecialista string `json:"proximaAtivacaoEspecialista"`
	DataAtivacaoAnalista        string `json:"dataAtivacaoAnalista"`
	ProximaAtivacaoAnalista     string `json:"proximaAtivacaoAnalista"`
	ProximaAtivacaoTatico       string `json:"proximaAtivacaoTatico"`
	ProximoDirecionamento       string `json:"proximoDirecionamento"`
	ProximaReuniaoPremium       string `json:"proximaReuniaoPremium"`

	// Internal management
	PerfilCliente      string `json:"perfilCliente"`
	DataRenovacao      string `json:"dataRenovacao"`
	ResponsavelInterno string `json:"responsavelInterno"`
	CardTrelloID       string `json:"cardTrelloId"`
	ListaTrello        string `json:"listaTrello"`

	// Hub metadata
	Checklists         []ChecklistItem `json:"checklists"`
	Comentarios        []Comment       `json:"comentarios"`
	Observacoes        string          `json:"observacoes"`
	Etiquetas          []string        `json:"etiquetas"`
	UltimaAtualizacao  string          `json:"ultimaAtualizacao"`
	LastModifiedSource Source          `json:"lastModifiedSource"`
	DataCancelamento   string          `json:"dataCancelamento,omitempty"`
}

// Clone returns a deep copy so callers can mutate nested lists safely.
func (c Client) Clone() Client {
	out := c
	out.Checklists = slices.Clone(c.Checklists)
	out.Comentarios = slices.Clone(c.Comentarios)
	out.Etiquetas = slices.Clone(c.Etiquetas)
	return out
}

// ChecklistRatio returns the completed fraction of the checklist and whether
// the client has any checklist items at all.
func (c Client) ChecklistRatio() (float64, bool) {
	if len(c.Checklists) == 0 {
		return 0, false
	}
	return float64(c.CompletedChecklists()) / float64(len(c.Checklists)), true
}

// CompletedChecklists counts completed checklist items.
func (c Client) CompletedChecklists() int {
	completed := 0
	for _, item := range c.Checklists {
		if item.Completed {
			completed++
		}
	}
	return completed
}

// Timestamp formats t the way record timestamps are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
