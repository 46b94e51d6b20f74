// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AssistantClient provides access to the local LLM through /api/ollama.
//
// Access this client through [Client.Assistant]:
//
//	models, err := c.Assistant.Models(ctx)
//	answer, err := c.Assistant.Ask(ctx, client.Question{...})
type AssistantClient struct {
	c *Client
}

const assistantPath = "/api/ollama"

// Models returns the models installed on the inference server.
func (a *AssistantClient) Models(ctx context.Context) ([]Model, error) {
	data, err := a.c.get(ctx, assistantPath, nil)
	if err != nil {
		return nil, err
	}

	var models []Model
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, fmt.Errorf("failed to parse models: %w", err)
	}

	return models, nil
}

// Ask sends a question about one stored document to a model.
//
// The call blocks until the model finishes generating.
func (a *AssistantClient) Ask(ctx context.Context, q Question) (*Answer, error) {
	data, err := a.c.sendJSON(ctx, http.MethodPost, assistantPath, q)
	if err != nil {
		return nil, err
	}

	var answer Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, fmt.Errorf("failed to parse answer: %w", err)
	}

	return &answer, nil
}
