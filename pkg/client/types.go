// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"net/url"
	"strings"
)

// Client type wire values.
const (
	KindIndividual   = "fisica"
	KindOrganization = "juridica"
)

// TaxID is the taxpayer identifier of a client. It is either an
// [Individual] (CPF) or an [Organization] (CNPJ), never both.
type TaxID interface {
	// Kind returns the wire value of the client type.
	Kind() string

	// Value returns the identifier as typed by the user.
	Value() string

	isTaxID()
}

// Individual is a natural person identified by CPF.
type Individual struct {
	CPF string
}

// Kind returns "fisica".
func (Individual) Kind() string { return KindIndividual }

// Value returns the CPF.
func (i Individual) Value() string { return i.CPF }

func (Individual) isTaxID() {}

// Organization is a legal entity identified by CNPJ.
type Organization struct {
	CNPJ string
}

// Kind returns "juridica".
func (Organization) Kind() string { return KindOrganization }

// Value returns the CNPJ.
func (o Organization) Value() string { return o.CNPJ }

func (Organization) isTaxID() {}

// NewTaxID builds the variant named by kind. Unknown kinds return nil.
func NewTaxID(kind, value string) TaxID {
	switch kind {
	case KindIndividual:
		return Individual{CPF: value}
	case KindOrganization:
		return Organization{CNPJ: value}
	}
	return nil
}

// Customer is a client of the firm.
type Customer struct {
	ID           int     `json:"id_cliente"`
	Nome         string  `json:"nome"`
	Email        string  `json:"email,omitempty"`
	Telefone     string  `json:"telefone,omitempty"`
	Endereco     string  `json:"endereco,omitempty"`
	DataCadastro string  `json:"data_cadastro,omitempty"`
	CPF          *string `json:"cpf,omitempty"`
	CNPJ         *string `json:"cnpj,omitempty"`
}

// TaxID infers the client type from whichever identifier is populated.
// CPF wins when both are set; nil is returned when neither is.
func (c Customer) TaxID() TaxID {
	if c.CPF != nil && *c.CPF != "" {
		return Individual{CPF: *c.CPF}
	}
	if c.CNPJ != nil && *c.CNPJ != "" {
		return Organization{CNPJ: *c.CNPJ}
	}
	return nil
}

// IsSummary reports whether c came from the collection endpoint, which only
// returns id and name.
func (c Customer) IsSummary() bool {
	return c.Email == "" && c.Telefone == "" && c.Endereco == "" && c.TaxID() == nil
}

// ClientInput is the editable part of a client as sent on create and update.
type ClientInput struct {
	Nome     string
	Email    string
	Telefone string
	Endereco string
	TaxID    TaxID

	// OriginalKind is the client type when the record was loaded. The API
	// uses it on update to move the identifier between person tables.
	OriginalKind string
}

// query encodes the input as the query string the clients endpoint expects.
func (in ClientInput) query() url.Values {
	q := url.Values{}
	q.Set("nome", in.Nome)
	q.Set("email", in.Email)
	q.Set("telefone", in.Telefone)
	q.Set("endereco", in.Endereco)
	if in.TaxID != nil {
		q.Set("tipoCliente", in.TaxID.Kind())
		switch id := in.TaxID.(type) {
		case Individual:
			q.Set("cpf", id.CPF)
		case Organization:
			q.Set("cnpj", id.CNPJ)
		}
	}
	return q
}

// Case is a legal case with the display fields the API joins in.
type Case struct {
	ID             int     `json:"id_caso"`
	Descricao      *string `json:"descricao"`
	NumeroProcesso *string `json:"numero_processo"`
	DataAbertura   string  `json:"data_abertura"`
	DataFechamento *string `json:"data_fechamento"`

	IDCliente    int     `json:"id_cliente"`
	ClienteNome  string  `json:"cliente_nome"`
	ClienteEmail *string `json:"cliente_email"`

	IDAdvogado   int    `json:"id_advogado"`
	AdvogadoNome string `json:"advogado_nome"`
	AdvogadoOAB  string `json:"advogado_oab"`

	IDStatus        int    `json:"id_status"`
	StatusDescricao string `json:"status_descricao"`

	IDVaraJudicial *int    `json:"id_vara_judicial"`
	NomeVara       *string `json:"nome_vara"`

	IDCategoriaCaso    *int    `json:"id_categoria_caso"`
	CategoriaDescricao *string `json:"categoria_descricao"`
}

// CaseInput is the JSON body of case create and update requests.
// Optional fields are sent as explicit nulls.
type CaseInput struct {
	IDCliente       int     `json:"id_cliente"`
	IDAdvogado      int     `json:"id_advogado"`
	IDStatus        int     `json:"id_status"`
	IDVaraJudicial  *int    `json:"id_vara_judicial"`
	IDCategoriaCaso *int    `json:"id_categoria_caso"`
	Descricao       *string `json:"descricao"`
	NumeroProcesso  *string `json:"numero_processo"`
	DataAbertura    string  `json:"data_abertura"`
	DataFechamento  *string `json:"data_fechamento"`
}

// Document is the metadata of a stored file. The binary is only reachable
// through [DocumentsClient.Download].
type Document struct {
	ID          int    `json:"id_documento"`
	IDCaso      int    `json:"id_caso"`
	Descricao   string `json:"descricao"`
	DataEnvio   string `json:"data_envio"`
	NomeArquivo string `json:"nome_arquivo"`
}

// DocumentInput is the JSON body of document create and update requests.
//
// ArquivoBase64 is required on create. On update a nil value omits the
// field so the stored file is kept.
type DocumentInput struct {
	IDCaso        int     `json:"id_caso"`
	Descricao     string  `json:"descricao"`
	DataEnvio     string  `json:"data_envio"`
	NomeArquivo   string  `json:"nome_arquivo"`
	ArquivoBase64 *string `json:"arquivo_base64,omitempty"`
}

// LookupItem is an identifier and label pair used to fill a dropdown.
type LookupItem struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
	OAB  string `json:"oab,omitempty"`
}

// Label returns the text shown in a dropdown. Counsel entries carry the
// bar registration number.
func (l LookupItem) Label() string {
	if l.OAB != "" {
		return l.Nome + " (OAB " + l.OAB + ")"
	}
	return l.Nome
}

// Model is an LLM available to the assistant endpoint.
type Model struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

// Question asks a model about the text of one stored document.
type Question struct {
	FileName string `json:"file_name"`
	Question string `json:"question"`
	Model    string `json:"model"`
}

// Answer is the assistant response.
type Answer struct {
	Response string `json:"llm_response"`
	Message  string `json:"message,omitempty"`
}

// Result is the body of administrative actions.
type Result struct {
	Message string `json:"message"`
}

// DocsPerClientCase counts documents per client and process number.
type DocsPerClientCase struct {
	ClienteNome     string  `json:"cliente_nome"`
	NumeroProcesso  *string `json:"numero_processo"`
	TotalDocumentos int64   `json:"total_documentos"`
}

// CasesPerCounselStatus counts cases per counsel and status.
type CasesPerCounselStatus struct {
	AdvogadoNome    string `json:"advogado_nome"`
	StatusDescricao string `json:"status_descricao"`
	TotalCasos      int64  `json:"total_casos"`
}

// HearingsPerClientCounsel counts hearings per client and counsel.
type HearingsPerClientCounsel struct {
	ClienteNome     string `json:"cliente_nome"`
	AdvogadoNome    string `json:"advogado_nome"`
	TotalAudiencias int64  `json:"total_audiencias"`
}

// Reports holds the aggregated datasets of the reporting dashboard.
type Reports struct {
	DocsPerClientCase        []DocsPerClientCase        `json:"report_data_docs_clientes_casos"`
	CasesPerCounselStatus    []CasesPerCounselStatus    `json:"report_data_casos_advogado_status"`
	HearingsPerClientCounsel []HearingsPerClientCounsel `json:"report_data_audiencias_cliente_advogado"`
}

// Optional returns nil for blank strings and a pointer to the trimmed value
// otherwise. Form fields use it to send explicit nulls.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
