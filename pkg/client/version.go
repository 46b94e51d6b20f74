// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

// Version is the client library version reported in the User-Agent header.
const Version = "0.4.0"

// DefaultUserAgent is sent when no [WithUserAgent] option is given.
const DefaultUserAgent = "lawia-web/" + Version

// Endpoint paths that vary between backend deployments.
const (
	// DefaultReportsPath serves the three aggregated report datasets.
	DefaultReportsPath = "/api/relatorios"

	// DefaultHealthPath answers with a bare status when the API is up.
	DefaultHealthPath = "/api/health_check"
)
