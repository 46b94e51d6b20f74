// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"strconv"

	"github.com/lawia/lawia-web/pkg/client"
)

// CaseSearchFields are the values the case list filter looks at.
var CaseSearchFields = []FieldFunc[client.Case]{
	func(c client.Case) string { return client.Deref(c.NumeroProcesso) },
	func(c client.Case) string { return c.ClienteNome },
	func(c client.Case) string { return c.AdvogadoNome },
	func(c client.Case) string { return c.StatusDescricao },
	func(c client.Case) string { return client.Deref(c.Descricao) },
}

// CaseID returns the identifier of c.
func CaseID(c client.Case) int { return c.ID }

// Case lookup names.
const (
	LookupClients    = "clients"
	LookupCounsel    = "counsel"
	LookupStatus     = "status"
	LookupCourts     = "courts"
	LookupCategories = "categories"
	LookupCases      = "cases"
)

var caseSchema = []Field{
	{Name: "id_cliente", Label: "field.cliente", Kind: KindSelect, Required: true, Lookup: LookupClients},
	{Name: "id_advogado", Label: "field.advogado", Kind: KindSelect, Required: true, Lookup: LookupCounsel},
	{Name: "id_status", Label: "field.status", Kind: KindSelect, Required: true, Lookup: LookupStatus},
	{Name: "numero_processo", Label: "field.numero_processo", Kind: KindText},
	{Name: "descricao", Label: "field.descricao", Kind: KindTextarea},
	{Name: "data_abertura", Label: "field.data_abertura", Kind: KindDate, Required: true},
	{Name: "data_fechamento", Label: "field.data_fechamento", Kind: KindDate},
	{Name: "id_vara_judicial", Label: "field.vara", Kind: KindSelect, Lookup: LookupCourts},
	{Name: "id_categoria_caso", Label: "field.categoria", Kind: KindSelect, Lookup: LookupCategories},
}

// NewCaseForm builds the case create/edit controller.
func NewCaseForm(api *client.Client) *Form[client.Case] {
	return &Form[client.Case]{
		Base:   "/casos",
		Schema: caseSchema,
		Lookups: []Lookup{
			{Name: LookupClients, Load: api.Lookups.Clients},
			{Name: LookupCounsel, Load: api.Lookups.Counsel},
			{Name: LookupStatus, Load: api.Lookups.Status},
			{Name: LookupCourts, Load: api.Lookups.Courts},
			{Name: LookupCategories, Load: api.Lookups.Categories},
		},
		Defaults: Draft{},
		Messages: entityMessages("cases"),
		Get:      api.Cases.Get,
		ToDraft:  CaseToDraft,
		Check: func(_ Mode, sub Submission) *ValidationError {
			_, verr := CaseInputFromDraft(sub.Draft)
			return verr
		},
		Create: func(ctx context.Context, sub Submission) (int, error) {
			in, verr := CaseInputFromDraft(sub.Draft)
			if verr != nil {
				return 0, verr
			}
			return api.Cases.Create(ctx, in)
		},
		Update: func(ctx context.Context, id int, sub Submission) error {
			in, verr := CaseInputFromDraft(sub.Draft)
			if verr != nil {
				return verr
			}
			return api.Cases.Update(ctx, id, in)
		},
	}
}

// CaseToDraft converts a case to form values: foreign keys become decimal
// strings and dates are cut to YYYY-MM-DD.
func CaseToDraft(c client.Case) Draft {
	return Draft{
		"id_cliente":        strconv.Itoa(c.IDCliente),
		"id_advogado":       strconv.Itoa(c.IDAdvogado),
		"id_status":         strconv.Itoa(c.IDStatus),
		"numero_processo":   client.Deref(c.NumeroProcesso),
		"descricao":         client.Deref(c.Descricao),
		"data_abertura":     DateOnly(c.DataAbertura),
		"data_fechamento":   DateOnly(client.Deref(c.DataFechamento)),
		"id_vara_judicial":  optionalItoa(c.IDVaraJudicial),
		"id_categoria_caso": optionalItoa(c.IDCategoriaCaso),
	}
}

// CaseInputFromDraft maps form values to the JSON body. Blank optional
// values become nulls.
func CaseInputFromDraft(d Draft) (client.CaseInput, *ValidationError) {
	var bad []string
	required := func(name string) int {
		n, err := strconv.Atoi(d.Get(name))
		if err != nil {
			bad = append(bad, name)
		}
		return n
	}
	optional := func(name string) *int {
		s := d.Get(name)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			bad = append(bad, name)
			return nil
		}
		return &n
	}

	in := client.CaseInput{
		IDCliente:       required("id_cliente"),
		IDAdvogado:      required("id_advogado"),
		IDStatus:        required("id_status"),
		IDVaraJudicial:  optional("id_vara_judicial"),
		IDCategoriaCaso: optional("id_categoria_caso"),
		Descricao:       client.Optional(d["descricao"]),
		NumeroProcesso:  client.Optional(d["numero_processo"]),
		DataAbertura:    d.Get("data_abertura"),
		DataFechamento:  client.Optional(d["data_fechamento"]),
	}
	if len(bad) > 0 {
		return in, invalid("cases.required", bad...)
	}
	return in, nil
}

func optionalItoa(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
