package spreadsheet

import "github.com/rpggio/pronix-hub/internal/domain/client"

// field binds a client attribute to the headers it is imported from.
type field struct {
	headers  []string
	fallback string
	date     bool
	set      func(*client.Client, string)
}

// fields lists every imported attribute. Headers are tried in order and the
// first non-empty cell wins.
var fields = []field{
	{headers: []string{"ID_Cliente", "_ComputedKey", "id"}, set: func(c *client.Client, v string) { c.ID = v }},
	{headers: []string{"Título", "Titulo"}, fallback: "Sem Nome", set: func(c *client.Client, v string) { c.NomeEmpresa = v }},
	{headers: []string{"Responsável", "Contato"}, set: func(c *client.Client, v string) { c.Responsavel = v }},
	{headers: []string{"Telefone"}, set: func(c *client.Client, v string) { c.Telefone = v }},
	{headers: []string{"Email"}, set: func(c *client.Client, v string) { c.Email = v }},
	{headers: []string{"Segmento"}, set: func(c *client.Client, v string) { c.Segmento = v }},
	{headers: []string{"Plano", "Produto"}, set: func(c *client.Client, v string) { c.Plano = v }},
	{headers: []string{"Status"}, set: func(c *client.Client, v string) { c.Status = importStatus(v) }},
	{headers: []string{"Data_Início", "Data Início"}, date: true, set: func(c *client.Client, v string) { c.DataInicio = v }},

	{headers: []string{"Trilha"}, set: func(c *client.Client, v string) { c.Trilha = v }},
	{headers: []string{"Produto"}, set: func(c *client.Client, v string) { c.Produto = v }},
	{headers: []string{"Tipo de Cliente"}, set: func(c *client.Client, v string) { c.TipoCliente = v }},

	{headers: []string{"Ultima Reunião Performance"}, fallback: "N/A", date: true, set: func(c *client.Client, v string) { c.UltimaReuniaoPerformance = v }},
	{headers: []string{"Ultima Reunião PAP"}, fallback: "N/A", date: true, set: func(c *client.Client, v string) { c.UltimaReuniaoPAP = v }},
	{headers: []string{"Ativação - Especialista"}, set: func(c *client.Client, v string) { c.AtivacaoEspecialista = v }},
	{headers: []string{"Ativação - Analista"}, set: func(c *client.Client, v string) { c.AtivacaoAnalista = v }},
	{headers: []string{"Data Ativação Tático"}, date: true, set: func(c *client.Client, v string) { c.DataAtivacaoTatico = v }},
	{headers: []string{"Último Direcionamento"}, set: func(c *client.Client, v string) { c.UltimoDirecionamento = v }},
	{headers: []string{"Ultima reunião Over"}, fallback: client.OverPendente, set: func(c *client.Client, v string) { c.UltimaReuniaoOver = v }},

	{headers: []string{"Link do Card"}, set: func(c *client.Client, v string) { c.LinkCard = v }},
	{headers: []string{"Data Ativação - Especialista", "Data Ativ. Especialista"}, date: true, set: func(c *client.Client, v string) { c.DataAtivacaoEspecialista = v }},
	{headers: []string{"Data Ativação - Analista", "Data Ativ. Analista"}, date: true, set: func(c *client.Client, v string) { c.DataAtivacaoAnalista = v }},
	{headers: []string{"Proxima Ativação Tático"}, date: true, set: func(c *client.Client, v string) { c.ProximaAtivacaoTatico = v }},
	{headers: []string{"Proximo direcionamento"}, set: func(c *client.Client, v string) { c.ProximoDirecionamento = v }},
	{headers: []string{"Proxima reunião (Premium Anual)"}, fallback: "N/A", date: true, set: func(c *client.Client, v string) { c.ProximaReuniaoPremium = v }},

	{headers: []string{"Observações"}, set: func(c *client.Client, v string) { c.Observacoes = v }},

	{headers: []string{"Perfil"}, set: func(c *client.Client, v string) { c.PerfilCliente = v }},
	{headers: []string{"Data_Renovacao"}, date: true, set: func(c *client.Client, v string) { c.DataRenovacao = v }},
	{headers: []string{"Responsável_Interno", "Assessor"}, set: func(c *client.Client, v string) { c.ResponsavelInterno = v }},
	{headers: []string{"Card_Trello_ID"}, set: func(c *client.Client, v string) { c.CardTrelloID = v }},
	{headers: []string{"Lista_Trello"}, set: func(c *client.Client, v string) { c.ListaTrello = v }},
}

// column is one exported column.
type column struct {
	header string
	get    func(client.Client) string
}

// exportColumns is the fixed, ordered export layout.
var exportColumns = []column{
	{"Título", func(c client.Client) string { return c.NomeEmpresa }},
	{"Trilha", func(c client.Client) string { return c.Trilha }},
	{"Produto", func(c client.Client) string { return c.Produto }},
	{"Tipo de Cliente", func(c client.Client) string { return c.TipoCliente }},
	{"Ultima Reunião Performance", func(c client.Client) string { return c.UltimaReuniaoPerformance }},
	{"Ultima Reunião PAP", func(c client.Client) string { return c.UltimaReuniaoPAP }},
	{"Ativação - Especialista", func(c client.Client) string { return c.AtivacaoEspecialista }},
	{"Data Ativação Tático", func(c client.Client) string { return c.DataAtivacaoTatico }},
	{"Último Direcionamento", func(c client.Client) string { return c.UltimoDirecionamento }},
	{"Ultima reunião Over", func(c client.Client) string { return c.UltimaReuniaoOver }},
	{"Link do Card", func(c client.Client) string { return c.LinkCard }},
	{"Data Ativação - Especialista", func(c client.Client) string { return c.DataAtivacaoEspecialista }},
	{"Proxima Ativação Tático", func(c client.Client) string { return c.ProximaAtivacaoTatico }},
	{"Proximo direcionamento", func(c client.Client) string { return c.ProximoDirecionamento }},
	{"Proxima reunião (Premium Anual)", func(c client.Client) string { return c.ProximaReuniaoPremium }},
	{"Observações", func(c client.Client) string { return c.Observacoes }},
}

// ExportHeaders returns the export column headers in order.
func ExportHeaders() []string {
	out := make([]string, len(exportColumns))
	for i, col := range exportColumns {
		out[i] = col.header
	}
	return out
}

func importStatus(value string) client.Status {
	if status, ok := client.ParseStatus(value); ok {
		return status
	}
	return client.Status(value)
}
