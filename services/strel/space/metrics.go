// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package space

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("strel.space")

var (
	distanceBuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "strel_space_distance_builds_total",
		Help: "Distance structures built",
	})

	distanceRelaxations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "strel_space_distance_relaxations",
		Help:    "Worklist entries processed per distance structure build",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	fixpointRounds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "strel_space_fixpoint_rounds",
		Help:    "Worklist entries (reach) or layers (escape) processed per evaluation",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"operator"})

	topologySwitches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "strel_space_topology_switches_total",
		Help: "Topology breakpoints crossed while evaluating spatial operators",
	}, []string{"operator"})
)
