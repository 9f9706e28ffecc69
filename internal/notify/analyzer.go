package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/pronix-hub/internal/domain/client"
)

// Fallback texts returned in place of a model answer.
const (
	FallbackEmpty = "Não foi possível gerar análise no momento."
	FallbackError = "Erro ao processar análise inteligente."
)

// Analyzer writes a short churn risk summary for a client.
type Analyzer struct {
	generator TextGenerator
	model     string
	logger    *slog.Logger
}

// NewAnalyzer creates an analyzer. An empty model selects DefaultModel. A nil
// generator makes every analysis return FallbackError.
func NewAnalyzer(generator TextGenerator, model string, logger *slog.Logger) *Analyzer {
	if model == "" {
		model = DefaultModel
	}
	return &Analyzer{generator: generator, model: model, logger: logger}
}

// Analyze never fails; problems are reported through the fallback texts.
func (a *Analyzer) Analyze(ctx context.Context, c client.Client) string {
	if a.generator == nil {
		a.warn("no text generator configured", c.ID, nil)
		return FallbackError
	}
	text, err := a.generator.Generate(ctx, a.model, Prompt(c))
	if err != nil {
		a.warn("risk analysis failed", c.ID, err)
		return FallbackError
	}
	if strings.TrimSpace(text) == "" {
		return FallbackEmpty
	}
	return text
}

func (a *Analyzer) warn(msg, clientID string, err error) {
	if a.logger == nil {
		return
	}
	if err != nil {
		a.logger.Warn(msg, "client_id", clientID, "model", a.model, "error", err)
		return
	}
	a.logger.Warn(msg, "client_id", clientID)
}

// Prompt renders the analysis request for c.
func Prompt(c client.Client) string {
	var b strings.Builder
	b.WriteString("Analise a saúde deste cliente da agência PRONIX:\n")
	fmt.Fprintf(&b, "Empresa: %s\n", c.NomeEmpresa)
	fmt.Fprintf(&b, "Status: %s\n", c.Status)
	fmt.Fprintf(&b, "Última Atualização: %s\n", c.UltimaAtualizacao)
	fmt.Fprintf(&b, "Checklist: %d/%d concluídos.\n", c.CompletedChecklists(), len(c.Checklists))
	fmt.Fprintf(&b, "Observações: %s\n", c.Observacoes)
	fmt.Fprintf(&b, "Próxima Reunião: %s\n\n", c.ProximaReuniaoPremium)
	b.WriteString("Forneça um breve resumo (máximo 3 frases) sobre o risco de churn e uma recomendação de ação imediata.")
	return b.String()
}
