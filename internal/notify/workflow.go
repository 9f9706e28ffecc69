package notify

import (
	"context"
	"log/slog"

	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
)

// PriorityNormal is the priority attached to analysis notifications.
const PriorityNormal = "Normal"

// ExternalLogger records that a client was pushed out of the hub.
type ExternalLogger interface {
	RecordExternal(ctx context.Context, clientID, clientName, action string) (*audit.Entry, error)
}

// Result is the outcome of one analysis run.
type Result struct {
	ClientID  string `json:"clientId"`
	Insight   string `json:"insight"`
	Delivered bool   `json:"delivered"`
}

// Workflow analyzes a client, forwards the summary to the webhook and logs the
// delivery.
type Workflow struct {
	analyzer *Analyzer
	sender   Sender
	audit    ExternalLogger
	logger   *slog.Logger
}

// NewWorkflow wires the analysis pipeline.
func NewWorkflow(analyzer *Analyzer, sender Sender, auditLog ExternalLogger, logger *slog.Logger) *Workflow {
	return &Workflow{analyzer: analyzer, sender: sender, audit: auditLog, logger: logger}
}

// Run analyzes c and posts the insight. The log entry is only written when
// the webhook accepted the request.
func (w *Workflow) Run(ctx context.Context, c client.Client) Result {
	insight := w.analyzer.Analyze(ctx, c)
	res := Result{ClientID: c.ID, Insight: insight}

	if w.sender == nil {
		return res
	}
	res.Delivered = w.sender.Send(ctx, Payload{
		Titulo:     c.NomeEmpresa,
		Descricao:  insight,
		Prioridade: PriorityNormal,
	})
	if !res.Delivered || w.audit == nil {
		return res
	}
	if _, err := w.audit.RecordExternal(ctx, c.ID, c.NomeEmpresa, audit.FieldAISync); err != nil && w.logger != nil {
		w.logger.Warn("failed to record external sync", "client_id", c.ID, "error", err)
	}
	return res
}
