// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package temporal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	windowEvents = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "strel_temporal_window_events",
		Help:    "Events swept by one sliding-window evaluation",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"operator"})

	windowDequeLength = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "strel_temporal_window_deque_length",
		Help:    "Longest candidate deque held during one sliding-window evaluation",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"operator"})
)
