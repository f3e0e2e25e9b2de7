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
	"github.com/AleutianAI/strel/services/strel/config"
	"github.com/AleutianAI/strel/services/strel/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RegisterRoutes registers the /v1/strel endpoints on rg.
//
// Endpoints:
//
//	GET  /v1/strel/health   - Liveness
//	POST /v1/strel/evaluate - Evaluate a scenario document
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	strel := rg.Group("/strel")
	strel.GET("/health", h.HandleHealth)
	strel.POST("/evaluate",
		RateLimit(h.cfg.Server.RateLimit, h.cfg.Server.Burst),
		h.HandleEvaluate)
}

// NewRouter builds the gin engine with recovery, tracing and, when metrics
// is not nil, request metrics.
func NewRouter(service string, cfg *config.Config, metrics *telemetry.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(service))
	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	RegisterRoutes(router.Group("/v1"), NewHandlers(cfg, metrics))
	return router
}
