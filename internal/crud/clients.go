// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lawia/lawia-web/pkg/client"
)

// ClientSearchFields are the values the client list filter looks at.
var ClientSearchFields = []FieldFunc[client.Customer]{
	func(c client.Customer) string { return c.Nome },
	func(c client.Customer) string { return c.Email },
	func(c client.Customer) string { return c.Telefone },
	func(c client.Customer) string { return client.Deref(c.CPF) },
	func(c client.Customer) string { return client.Deref(c.CNPJ) },
}

// ClientID returns the identifier of c.
func ClientID(c client.Customer) int { return c.ID }

// Client form field names.
const (
	fieldKind         = "tipoCliente"
	fieldOriginalKind = "originalTipoCliente"
)

var clientSchema = []Field{
	{Name: "nome", Label: "field.nome", Kind: KindText, Required: true},
	{Name: "email", Label: "field.email", Kind: KindEmail, Required: true},
	{Name: "telefone", Label: "field.telefone", Kind: KindTel, Required: true},
	{Name: "endereco", Label: "field.endereco", Kind: KindText, Required: true},
	{Name: fieldKind, Label: "field.tipo_cliente", Kind: KindRadio, Options: []Option{
		{Value: client.KindIndividual, Label: "field.fisica"},
		{Value: client.KindOrganization, Label: "field.juridica"},
	}},
	{Name: "cpf", Label: "field.cpf", Kind: KindText, ShowWhen: &Condition{Field: fieldKind, Equals: client.KindIndividual}},
	{Name: "cnpj", Label: "field.cnpj", Kind: KindText, ShowWhen: &Condition{Field: fieldKind, Equals: client.KindOrganization}},
	{Name: fieldOriginalKind, Kind: KindHidden},
}

// NewClientForm builds the client create/edit controller.
func NewClientForm(api *client.Client) *Form[client.Customer] {
	return &Form[client.Customer]{
		Base:     "/clientes",
		Schema:   clientSchema,
		Defaults: Draft{fieldKind: client.KindIndividual},
		Messages: entityMessages("clients"),
		Get:      api.Clients.Get,
		ToDraft:  ClientToDraft,
		Check:    checkClient,
		Create: func(ctx context.Context, sub Submission) (int, error) {
			return api.Clients.Create(ctx, ClientInputFromDraft(sub.Draft))
		},
		Update: func(ctx context.Context, id int, sub Submission) error {
			return api.Clients.Update(ctx, id, ClientInputFromDraft(sub.Draft))
		},
	}
}

// ClientToDraft converts a client to form values. The inferred client type
// is also kept as the original type for the update request.
func ClientToDraft(c client.Customer) Draft {
	kind := client.KindIndividual
	if id := c.TaxID(); id != nil {
		kind = id.Kind()
	}
	return Draft{
		"nome":            c.Nome,
		"email":           c.Email,
		"telefone":        c.Telefone,
		"endereco":        c.Endereco,
		fieldKind:         kind,
		"cpf":             client.Deref(c.CPF),
		"cnpj":            client.Deref(c.CNPJ),
		fieldOriginalKind: kind,
	}
}

// ClientInputFromDraft maps form values to the wire input. Only the
// identifier of the selected type is carried.
func ClientInputFromDraft(d Draft) client.ClientInput {
	kind := d.Get(fieldKind)
	if kind == "" {
		kind = client.KindIndividual
	}
	value := d.Get("cpf")
	if kind == client.KindOrganization {
		value = d.Get("cnpj")
	}
	return client.ClientInput{
		Nome:         d.Get("nome"),
		Email:        d.Get("email"),
		Telefone:     d.Get("telefone"),
		Endereco:     d.Get("endereco"),
		TaxID:        client.NewTaxID(kind, value),
		OriginalKind: d.Get(fieldOriginalKind),
	}
}

func checkClient(_ Mode, sub Submission) *ValidationError {
	switch sub.Draft.Get(fieldKind) {
	case client.KindOrganization:
		if sub.Draft.Get("cnpj") == "" {
			return invalid("clients.cnpj_required", "cnpj")
		}
	default:
		if sub.Draft.Get("cpf") == "" {
			return invalid("clients.cpf_required", "cpf")
		}
	}
	return nil
}

// HydrateClients replaces summary entries with full records fetched
// concurrently, at most limit at a time. Entries that fail to load keep
// their summary; the number of failures is returned.
func HydrateClients(ctx context.Context, get func(context.Context, int) (*client.Customer, error), list []client.Customer, limit int) ([]client.Customer, int) {
	out := make([]client.Customer, len(list))
	copy(out, list)

	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed int
	)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range out {
		if !out[i].IsSummary() {
			continue
		}
		i := i
		g.Go(func() error {
			full, err := get(ctx, out[i].ID)
			if err != nil || full == nil {
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			out[i] = *full
			return nil
		})
	}
	g.Wait()
	return out, failed
}

// entityMessages derives the message keys of an entity from its prefix.
func entityMessages(prefix string) Messages {
	return Messages{
		Required:      prefix + ".required",
		Created:       prefix + ".created",
		Updated:       prefix + ".updated",
		CreateFailed:  prefix + ".create_failed",
		UpdateFailed:  prefix + ".update_failed",
		CreateNetwork: prefix + ".create_network",
		UpdateNetwork: prefix + ".update_network",
		LoadFailed:    prefix + ".load_failed",
		NotFound:      prefix + ".not_found",
		Title:         prefix + ".new",
		EditTitle:     prefix + ".edit_title",
	}
}
