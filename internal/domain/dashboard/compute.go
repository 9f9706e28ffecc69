package dashboard

import (
	"math"
	"slices"
	"time"

	"github.com/rpggio/pronix-hub/internal/dates"
	"github.com/rpggio/pronix-hub/internal/domain/client"
)

// Compute derives the dashboard figures for clients as of now.
func Compute(clients []client.Client, now time.Time) Stats {
	stats := Stats{
		Performance: []Performance{},
		AtRisk:      []AtRisk{},
	}

	var checklistSum float64
	for _, c := range clients {
		if c.Status == client.StatusAtivo {
			stats.ActiveCount++
			if ratio, ok := c.ChecklistRatio(); ok {
				checklistSum += ratio
			}
			if dates.Overdue(c.ProximaReuniaoPremium, now) {
				stats.InRisk++
				stats.AtRisk = append(stats.AtRisk, AtRisk{
					ID:                    c.ID,
					NomeEmpresa:           c.NomeEmpresa,
					ProximaReuniaoPremium: c.ProximaReuniaoPremium,
				})
			}
		}
		if diff, ok := dates.DaysUntil(c.DataRenovacao, now); ok && diff >= 0 && diff <= RenewalWindowDays {
			stats.NearRenewals++
		}
		if c.Status == client.StatusCancelado && dates.SameMonth(c.DataCancelamento, now) {
			stats.CanceledMonth++
		}
	}
	if stats.ActiveCount > 0 {
		stats.AvgChecklist = percent(checklistSum / float64(stats.ActiveCount))
	}
	stats.Performance = performanceByOwner(clients)
	return stats
}

type ownerTally struct {
	total int
	sum   float64
	count int
}

// performanceByOwner groups clients by responsavelInterno in first-seen order
// and sorts the groups by performance, highest first.
func performanceByOwner(clients []client.Client) []Performance {
	order := []string{}
	tallies := map[string]*ownerTally{}
	for _, c := range clients {
		tally, ok := tallies[c.ResponsavelInterno]
		if !ok {
			tally = &ownerTally{}
			tallies[c.ResponsavelInterno] = tally
			order = append(order, c.ResponsavelInterno)
		}
		tally.total++
		if ratio, ok := c.ChecklistRatio(); ok {
			tally.sum += ratio * 100
			tally.count++
		}
	}

	out := make([]Performance, 0, len(order))
	for _, name := range order {
		tally := tallies[name]
		perf := 0
		if tally.count > 0 {
			perf = int(math.Round(tally.sum / float64(tally.count)))
		}
		out = append(out, Performance{Name: name, Performance: perf, Clientes: tally.total})
	}
	slices.SortStableFunc(out, func(a, b Performance) int { return b.Performance - a.Performance })
	return out
}

func percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}
