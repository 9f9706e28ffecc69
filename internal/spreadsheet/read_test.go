package spreadsheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows_CSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfTítulo,Trilha\nAcme,\"Performance, Ads\"\n")

	rows, err := ReadRows(data, "base.CSV")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Título", "Trilha"}, {"Acme", "Performance, Ads"}}, rows)
}

func TestReadRows_SemicolonCSV(t *testing.T) {
	data := []byte("Título;Trilha;Observações\nAcme;Ads;ok, feito\nBeta;Ads\n")

	rows, err := ReadRows(data, "base.csv")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Acme", "Ads", "ok, feito"}, rows[1])
	assert.Equal(t, []string{"Beta", "Ads"}, rows[2])
}

func TestReadRows_InvalidWorkbook(t *testing.T) {
	_, err := ReadRows([]byte("definitely not a zip"), "base.xlsx")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadRows_InvalidLegacyWorkbook(t *testing.T) {
	_, err := ReadRows([]byte("not an ole2 file"), "base.xls")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadRows_LegacyWorkbook(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "base.xls"))
	require.NoError(t, err)

	rows, err := ReadRows(data, "base.xls")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"ID_Cliente", "Título", "Trilha", "Data Ativação - Especialista"}, rows[0])
	assert.Equal(t, []string{"PRX-7", "Acme", "Ads", "45311"}, rows[1])
	assert.Nil(t, rows[2], "rows without cells read as blank")
	assert.Equal(t, []string{"", "Beta", "Performance"}, rows[3], "rows without a ROW record")
}

func TestParse_LegacyWorkbook(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "base.xls"))
	require.NoError(t, err)

	clients, err := Parse(data, "BASE.XLS", importNow)
	require.NoError(t, err)
	require.Len(t, clients, 2)

	assert.Equal(t, "PRX-7", clients[0].ID)
	assert.Equal(t, "Acme", clients[0].NomeEmpresa)
	assert.Equal(t, "Ads", clients[0].Trilha)
	assert.Equal(t, "2024-01-20", clients[0].DataAtivacaoEspecialista)
	assert.Equal(t, "2024-02-04", clients[0].ProximaAtivacaoEspecialista)

	assert.Equal(t, "PRX-101", clients[1].ID)
	assert.Equal(t, "Beta", clients[1].NomeEmpresa)
	assert.Equal(t, "Performance", clients[1].Trilha)
}

func TestParse_CSV(t *testing.T) {
	clients, err := Parse([]byte("ID_Cliente;Título\nPRX-9;Acme\n"), "base.csv", importNow)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "PRX-9", clients[0].ID)
	assert.Equal(t, "Acme", clients[0].NomeEmpresa)
}

func TestParse_MissingIDAfterExplicitOne(t *testing.T) {
	clients, err := Parse([]byte("ID_Cliente;Título\nPRX-101;Acme\n;Beta\n"), "base.csv", importNow)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "PRX-101", clients[0].ID)
	assert.Equal(t, "PRX-102", clients[1].ID)
	assert.Equal(t, "Beta", clients[1].NomeEmpresa)
}
