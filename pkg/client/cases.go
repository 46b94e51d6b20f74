// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CasesClient provides access to legal cases.
//
// Access this client through [Client.Cases]:
//
//	cases, err := c.Cases.List(ctx)
type CasesClient struct {
	c *Client
}

const casesPath = "/api/casos"

// List returns all cases, newest opening date first.
func (s *CasesClient) List(ctx context.Context) ([]Case, error) {
	data, err := s.c.get(ctx, casesPath, nil)
	if err != nil {
		return nil, err
	}

	var cases []Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse cases: %w", err)
	}

	return cases, nil
}

// Get returns one case by id.
func (s *CasesClient) Get(ctx context.Context, id int) (*Case, error) {
	data, err := s.c.get(ctx, casesPath, idQuery(id))
	if err != nil {
		return nil, err
	}
	if isEmptyRecord(data) {
		return nil, ErrNotFound
	}

	var cs Case
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("failed to parse case: %w", err)
	}
	if cs.ID == 0 {
		return nil, ErrNotFound
	}

	return &cs, nil
}

// Create opens a new case and returns its id, or zero when the API does
// not report it.
func (s *CasesClient) Create(ctx context.Context, in CaseInput) (int, error) {
	data, err := s.c.sendJSON(ctx, http.MethodPost, casesPath, in)
	if err != nil {
		return 0, err
	}
	return createdID(data, "id_caso"), nil
}

// Update replaces case id with in.
func (s *CasesClient) Update(ctx context.Context, id int, in CaseInput) error {
	body := struct {
		ID int `json:"id_caso"`
		CaseInput
	}{ID: id, CaseInput: in}
	_, err := s.c.sendJSON(ctx, http.MethodPut, casesPath, body)
	return err
}

// Delete removes case id together with everything that hangs off it
// (progress entries, hearings, documents, tasks).
func (s *CasesClient) Delete(ctx context.Context, id int) error {
	_, err := s.c.send(ctx, http.MethodDelete, casesPath, idQuery(id))
	return err
}
