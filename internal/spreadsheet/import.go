package spreadsheet

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rpggio/pronix-hub/internal/dates"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/xuri/excelize/v2"
)

// Serial numbers outside this range are left as typed. It covers 1954..2119.
const (
	minDateSerial = 20000
	maxDateSerial = 80000
)

// Parse reads a spreadsheet file and converts its rows to clients.
func Parse(data []byte, filename string, now time.Time) ([]client.Client, error) {
	rows, err := ReadRows(data, filename)
	if err != nil {
		return nil, err
	}
	return Import(rows, now)
}

// Import converts rows, whose first row holds the headers, into clients.
// Blank rows are skipped. Identifiers must be unique across the file.
func Import(rows [][]string, now time.Time) ([]client.Client, error) {
	if len(rows) == 0 || blankRow(rows[0]) {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformed)
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		key := normalizeHeader(header)
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	stamp := client.Timestamp(now)
	clients := make([]client.Client, 0, len(rows)-1)
	taken := make(map[string]struct{}, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		c := importRow(row, index)
		if c.ID != "" {
			if _, dup := taken[c.ID]; dup {
				return nil, fmt.Errorf("%w: %w %q", ErrMalformed, client.ErrDuplicateID, c.ID)
			}
			taken[c.ID] = struct{}{}
		}

		c.UltimaAtualizacao = stamp
		c.LastModifiedSource = client.SourcePlanilha
		client.Derive(&c)
		client.Normalize(&c)
		clients = append(clients, c)
	}

	// Rows without an identifier get PRX-<position+100>, skipping numbers
	// the file already uses.
	next := 0
	for i := range clients {
		if clients[i].ID != "" {
			continue
		}
		next = max(next, i+100)
		id := fmt.Sprintf("PRX-%d", next)
		for {
			if _, used := taken[id]; !used {
				break
			}
			next++
			id = fmt.Sprintf("PRX-%d", next)
		}
		taken[id] = struct{}{}
		clients[i].ID = id
		next++
	}
	return clients, nil
}

func importRow(row []string, index map[string]int) client.Client {
	c := client.Client{Status: client.StatusAtivo}
	for _, f := range fields {
		value := lookup(row, index, f.headers)
		if value != "" && f.date {
			value = normalizeDate(value)
		}
		if value == "" {
			value = f.fallback
		}
		if value == "" {
			continue
		}
		f.set(&c, value)
	}
	return c
}

func lookup(row []string, index map[string]int, headers []string) string {
	for _, header := range headers {
		idx, ok := index[normalizeHeader(header)]
		if !ok {
			continue
		}
		if value := cellValue(row, idx); value != "" {
			return value
		}
	}
	return ""
}

// normalizeDate turns Excel serial numbers into ISO dates.
func normalizeDate(value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial < minDateSerial || serial > maxDateSerial {
		return value
	}
	parsed, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return parsed.Format(dates.ISOLayout)
}
