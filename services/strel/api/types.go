// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package api exposes the monitor over HTTP with gin.
package api

import (
	"github.com/AleutianAI/strel/services/strel/scenario"
)

// ServiceVersion is the API version reported by the health endpoint.
const ServiceVersion = "0.1.0"

// HealthResponse is returned by GET /v1/strel/health.
type HealthResponse struct {
	// Status is always "healthy" when the process serves requests.
	Status string `json:"status"`

	// Version is ServiceVersion.
	Version string `json:"version"`
}

// EvaluateResponse is returned by POST /v1/strel/evaluate.
type EvaluateResponse struct {
	// RunID identifies this evaluation in logs and traces.
	RunID string `json:"run_id"`

	// ElapsedMs is the wall time spent evaluating.
	ElapsedMs float64 `json:"elapsed_ms"`

	// Report holds one result per trace.
	Report *scenario.Report `json:"report"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine readable code.
	Code string `json:"code"`
}
