package audit

// Well-known values used by hub operations.
const (
	DefaultActor = "Admin Pronix"
	NotAvailable = "N/A"

	FieldManualUpdate = "Atualização Manual"
	FieldCreated      = "Cadastro Manual"
	FieldStatus       = "Status"
	FieldRemoved      = "Remoção"
	FieldComment      = "Comentário"
	FieldWorkbook     = "Base Excel"
	FieldAISync       = "Sincronização IA"
)

// Entry is an immutable record of one change in the hub.
type Entry struct {
	ID            string `json:"id"`
	ClientID      string `json:"clientId"`
	ClientName    string `json:"clientName"`
	CampoAlterado string `json:"campoAlterado"`
	ValorAntigo   string `json:"valorAntigo"`
	ValorNovo     string `json:"valorNovo"`
	Usuario       string `json:"usuario"`
	Timestamp     string `json:"timestamp"`
}
