// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/AleutianAI/strel/services/strel/config"
	"github.com/AleutianAI/strel/services/strel/monitor"
	"github.com/AleutianAI/strel/services/strel/scenario"
	"github.com/AleutianAI/strel/services/strel/signal"
	"github.com/AleutianAI/strel/services/strel/space"
	"github.com/AleutianAI/strel/services/strel/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Handlers contains the HTTP handlers of the API.
type Handlers struct {
	cfg     *config.Config
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewHandlers creates handlers for cfg. metrics may be nil.
func NewHandlers(cfg *config.Config, metrics *telemetry.Metrics) *Handlers {
	return &Handlers{cfg: cfg, metrics: metrics, logger: slog.Default()}
}

// WithLogger replaces the default slog logger.
func (h *Handlers) WithLogger(logger *slog.Logger) *Handlers {
	h.logger = logger
	return h
}

// HandleHealth handles GET /v1/strel/health.
//
// Response:
//
//	200 OK: HealthResponse
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleEvaluate handles POST /v1/strel/evaluate.
//
// Description:
//
//	Parses a scenario document from the JSON body, evaluates its formula
//	on every trace and returns the report. Each call gets a run ID that is
//	logged, echoed in X-Run-ID and attached to the request span.
//
// Request Body:
//
//	scenario.Document
//
// Response:
//
//	200 OK: EvaluateResponse
//	400 Bad Request: Malformed or structurally invalid document
//	413 Request Entity Too Large: Body over server.max_body_bytes
//	422 Unprocessable Entity: Well formed document that cannot be evaluated
//	500 Internal Server Error: Evaluation failure
func (h *Handlers) HandleEvaluate(c *gin.Context) {
	runID := uuid.NewString()
	c.Header("X-Run-ID", runID)
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("strel.run_id", runID))
	logger := h.logger.With(
		"run_id", runID,
		"handler", "HandleEvaluate",
		"trace_id", telemetry.TraceID(ctx),
		"span_id", telemetry.SpanID(ctx))

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Server.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, logger, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", err)
			return
		}
		h.fail(c, logger, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	doc, err := scenario.Parse(body)
	if err != nil {
		h.fail(c, logger, http.StatusBadRequest, "INVALID_DOCUMENT", err)
		return
	}

	telemetry.AddSpanEvent(span, "scenario.parsed",
		attribute.Int("strel.traces", len(doc.Traces)),
		attribute.Int("strel.locations", doc.Locations))
	logger.Info("Evaluating scenario",
		"name", doc.Name,
		"semantics", doc.SemanticsName(),
		"traces", len(doc.Traces),
		"locations", doc.Locations)

	start := time.Now()
	report, err := scenario.Run(ctx, doc, scenario.RunOptions{
		Concurrency: h.cfg.Engine.BatchConcurrency,
		Tolerance:   h.cfg.Engine.RobustnessTolerance,
		Metrics:     h.metrics,
		Logger:      logger,
	})
	if err != nil {
		status, code := classify(err)
		h.fail(c, logger, status, code, err)
		return
	}

	elapsed := time.Since(start)
	logger.Info("Scenario evaluated", "elapsed", elapsed)
	c.JSON(http.StatusOK, EvaluateResponse{
		RunID:     runID,
		ElapsedMs: float64(elapsed.Microseconds()) / 1000,
		Report:    report,
	})
}

func (h *Handlers) fail(c *gin.Context, logger *slog.Logger, status int, code string, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "code", code, "error", err)
	} else {
		logger.Warn("Request rejected", "code", code, "error", err)
	}
	if h.metrics != nil {
		h.metrics.ErrorsTotal.Add(c.Request.Context(), 1, metric.WithAttributes(
			attribute.String("component", "api"),
			attribute.String("code", code),
		))
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// classify maps evaluation errors to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, scenario.ErrInvalidDocument),
		errors.Is(err, scenario.ErrArity),
		errors.Is(err, scenario.ErrUnknownDistance),
		errors.Is(err, scenario.ErrMissingVariable),
		errors.Is(err, scenario.ErrLocationCount),
		errors.Is(err, scenario.ErrNonFinite),
		errors.Is(err, signal.ErrInvalidInterval),
		errors.Is(err, signal.ErrNonMonotoneTime),
		errors.Is(err, space.ErrNodeOutOfRange),
		errors.Is(err, space.ErrNonMonotoneTime):
		return http.StatusUnprocessableEntity, "INVALID_SCENARIO"
	case errors.Is(err, monitor.ErrLocationMismatch),
		errors.Is(err, space.ErrLocationMismatch),
		errors.Is(err, signal.ErrLocationMismatch):
		return http.StatusUnprocessableEntity, "LOCATION_MISMATCH"
	default:
		return http.StatusInternalServerError, "EVALUATION_FAILED"
	}
}
