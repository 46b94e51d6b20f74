// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Action is an administrative database action.
type Action string

// Administrative actions.
const (
	// ActionClean drops every table.
	ActionClean Action = "clean"

	// ActionInit creates the schema.
	ActionInit Action = "init"

	// ActionPopulate inserts sample data.
	ActionPopulate Action = "populate"
)

// Actions lists the administrative actions in the order the settings page
// shows them.
var Actions = []Action{ActionClean, ActionInit, ActionPopulate}

// ParseAction returns the action named s.
func ParseAction(s string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// Endpoint returns the HTTP method and path that perform the action.
func (a Action) Endpoint() (method, path string) {
	switch a {
	case ActionClean:
		return http.MethodDelete, "/api/clean"
	case ActionInit:
		return http.MethodPost, "/api/init"
	case ActionPopulate:
		return http.MethodPut, "/api/populate_db"
	}
	return "", ""
}

// AdminClient provides the development database lifecycle actions.
//
// These endpoints are destructive. They exist for local development and
// demos.
//
// Access this client through [Client.Admin]:
//
//	res, err := c.Admin.Init(ctx)
type AdminClient struct {
	c *Client
}

// Run performs action.
func (a *AdminClient) Run(ctx context.Context, action Action) (*Result, error) {
	method, path := action.Endpoint()
	if method == "" {
		return nil, fmt.Errorf("unknown action %q", action)
	}

	data, err := a.c.send(ctx, method, path, nil)
	if err != nil {
		return nil, err
	}

	var res Result
	if len(data) > 0 {
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("failed to parse %s result: %w", action, err)
		}
	}

	return &res, nil
}

// Init creates the database schema.
func (a *AdminClient) Init(ctx context.Context) (*Result, error) {
	return a.Run(ctx, ActionInit)
}

// Clean drops every table.
func (a *AdminClient) Clean(ctx context.Context) (*Result, error) {
	return a.Run(ctx, ActionClean)
}

// Populate inserts the sample data set.
func (a *AdminClient) Populate(ctx context.Context) (*Result, error) {
	return a.Run(ctx, ActionPopulate)
}
