// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ReportClient provides the aggregated datasets of the reporting dashboard.
type ReportClient struct {
	c    *Client
	path string
}

// Get returns all report datasets. Missing datasets decode as empty.
func (r *ReportClient) Get(ctx context.Context) (*Reports, error) {
	data, err := r.c.get(ctx, r.path, nil)
	if err != nil {
		return nil, err
	}

	var reports Reports
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("failed to parse reports: %w", err)
	}

	return &reports, nil
}

// HealthClient probes the backend.
type HealthClient struct {
	c    *Client
	path string
}

// Check returns the status line of the health endpoint ("200 OK").
//
// Any HTTP answer counts as a result; only transport failures are errors.
func (h *HealthClient) Check(ctx context.Context) (string, error) {
	resp, err := h.c.raw(ctx, http.MethodGet, h.path, nil)
	if err != nil {
		return "", err
	}
	resp.Body.Close()

	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)), nil
}
