// Package dashboard aggregates portfolio figures from the client list.
package dashboard

// RenewalWindowDays is how far ahead a renewal counts as near.
const RenewalWindowDays = 30

// Stats holds every figure shown on the dashboard.
type Stats struct {
	ActiveCount   int           `json:"activeCount"`
	InRisk        int           `json:"inRisk"`
	NearRenewals  int           `json:"nearRenewals"`
	CanceledMonth int           `json:"canceledMonth"`
	AvgChecklist  int           `json:"avgChecklist"`
	Performance   []Performance `json:"performance"`
	AtRisk        []AtRisk      `json:"atRisk"`
}

// Performance is the checklist completion of one internal owner.
type Performance struct {
	Name        string `json:"name"`
	Performance int    `json:"performance"`
	Clientes    int    `json:"clientes"`
}

// AtRisk is an active client whose premium meeting date has passed.
type AtRisk struct {
	ID                    string `json:"id"`
	NomeEmpresa           string `json:"nomeEmpresa"`
	ProximaReuniaoPremium string `json:"proximaReuniaoPremium"`
}
