// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// LookupClient provides the read-only collections that feed the case form
// dropdowns.
//
// Access this client through [Client.Lookups]:
//
//	counsel, err := c.Lookups.Counsel(ctx)
type LookupClient struct {
	c *Client
}

// Lookup endpoint paths.
const (
	StatusPath     = "/api/status"
	CounselPath    = "/api/advogados"
	CourtsPath     = "/api/varas_judiciais"
	CategoriesPath = "/api/categorias_caso"
)

// Status returns the case statuses.
func (l *LookupClient) Status(ctx context.Context) ([]LookupItem, error) {
	return l.list(ctx, StatusPath, "status")
}

// Counsel returns the firm's lawyers with their OAB numbers.
func (l *LookupClient) Counsel(ctx context.Context) ([]LookupItem, error) {
	return l.list(ctx, CounselPath, "counsel")
}

// Courts returns the courts a case can be filed in.
func (l *LookupClient) Courts(ctx context.Context) ([]LookupItem, error) {
	return l.list(ctx, CourtsPath, "courts")
}

// Categories returns the case categories.
func (l *LookupClient) Categories(ctx context.Context) ([]LookupItem, error) {
	return l.list(ctx, CategoriesPath, "categories")
}

// Clients returns the clients as lookup items.
func (l *LookupClient) Clients(ctx context.Context) ([]LookupItem, error) {
	clients, err := l.c.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]LookupItem, 0, len(clients))
	for _, cl := range clients {
		items = append(items, LookupItem{ID: cl.ID, Nome: cl.Nome})
	}
	return items, nil
}

// Cases returns the cases as lookup items labelled by process number, or
// by client name when the case has none.
func (l *LookupClient) Cases(ctx context.Context) ([]LookupItem, error) {
	cases, err := l.c.Cases.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]LookupItem, 0, len(cases))
	for _, cs := range cases {
		label := fmt.Sprintf("#%d %s", cs.ID, cs.ClienteNome)
		if n := Deref(cs.NumeroProcesso); n != "" {
			label = fmt.Sprintf("#%d %s (%s)", cs.ID, cs.ClienteNome, n)
		}
		items = append(items, LookupItem{ID: cs.ID, Nome: label})
	}
	return items, nil
}

func (l *LookupClient) list(ctx context.Context, path, what string) ([]LookupItem, error) {
	data, err := l.c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var items []LookupItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", what, err)
	}

	return items, nil
}
