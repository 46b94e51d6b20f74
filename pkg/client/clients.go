// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ClientsClient provides access to the firm's clients.
//
// The clients endpoint is a legacy one: create and update send every field
// as a query parameter instead of a JSON body.
//
// Access this client through [Client.Clients]:
//
//	clients, err := c.Clients.List(ctx)
type ClientsClient struct {
	c *Client
}

const clientsPath = "/api/clientes"

// List returns all clients ordered by name.
//
// The API returns summaries (id and name only); use [ClientsClient.Get] for
// the full record.
func (s *ClientsClient) List(ctx context.Context) ([]Customer, error) {
	data, err := s.c.get(ctx, clientsPath, nil)
	if err != nil {
		return nil, err
	}

	var clients []Customer
	if err := json.Unmarshal(data, &clients); err != nil {
		return nil, fmt.Errorf("failed to parse clients: %w", err)
	}

	return clients, nil
}

// Get returns one client by id.
//
// Returns an error matching [ErrNotFound] when no client has that id.
func (s *ClientsClient) Get(ctx context.Context, id int) (*Customer, error) {
	data, err := s.c.get(ctx, clientsPath, idQuery(id))
	if err != nil {
		return nil, err
	}
	if isEmptyRecord(data) {
		return nil, ErrNotFound
	}

	var cl Customer
	if err := json.Unmarshal(data, &cl); err != nil {
		return nil, fmt.Errorf("failed to parse client: %w", err)
	}
	if cl.ID == 0 {
		return nil, ErrNotFound
	}

	return &cl, nil
}

// Create registers a new client and returns its id, or zero when the API
// does not report it.
func (s *ClientsClient) Create(ctx context.Context, in ClientInput) (int, error) {
	data, err := s.c.send(ctx, http.MethodPost, clientsPath, in.query())
	if err != nil {
		return 0, err
	}
	return createdID(data, "id_cliente"), nil
}

// Update replaces the editable fields of client id.
func (s *ClientsClient) Update(ctx context.Context, id int, in ClientInput) error {
	q := in.query()
	q.Set("id", fmt.Sprint(id))
	if in.OriginalKind != "" {
		q.Set("originalTipoCliente", in.OriginalKind)
	}
	_, err := s.c.send(ctx, http.MethodPut, clientsPath, q)
	return err
}

// Delete removes client id.
func (s *ClientsClient) Delete(ctx context.Context, id int) error {
	_, err := s.c.send(ctx, http.MethodDelete, clientsPath, idQuery(id))
	return err
}
