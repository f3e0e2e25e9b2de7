// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AleutianAI/strel/pkg/logging"
	"github.com/AleutianAI/strel/pkg/ux"
	"github.com/AleutianAI/strel/services/strel/scenario"
	"github.com/AleutianAI/strel/services/strel/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const watchDebounce = 200 * time.Millisecond

func newEvalCmd(a *app) *cobra.Command {
	var asJSON, watch bool
	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate the formula of a scenario file on every trace",
		Long: `Evaluate reads a YAML or JSON scenario (locations, topology, distances,
traces and a formula) and prints the output signal of every location.

With --watch the file is re-evaluated whenever it changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if !watch {
				return a.evaluate(ctx, out, args[0], asJSON)
			}

			p := ux.NewPrinter(out)
			rerun := func() {
				if err := a.evaluate(ctx, out, args[0], asJSON); err != nil {
					p.Error(err.Error())
				}
			}
			rerun()
			p.Muted(fmt.Sprintf("watching %s, press Ctrl-C to stop", args[0]))
			return watchFile(ctx, args[0], watchDebounce, rerun)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-evaluate when the file changes")
	return cmd
}

func (a *app) evaluate(ctx context.Context, w io.Writer, path string, asJSON bool) error {
	ctx, span := telemetry.StartSpan(ctx, "strel.cli", "cli.eval",
		trace.WithAttributes(attribute.String("strel.path", path)))
	defer span.End()
	logger := a.logger.WithTrace(ctx).With("path", path)

	report, err := a.run(ctx, path, logger)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.SetSpanOK(span)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	renderReport(ux.NewPrinter(w), report)
	return nil
}

func (a *app) run(ctx context.Context, path string, logger *logging.Logger) (*scenario.Report, error) {
	doc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	telemetry.AddSpanEvent(trace.SpanFromContext(ctx), "scenario.loaded",
		attribute.Int("strel.traces", len(doc.Traces)),
		attribute.Int("strel.locations", doc.Locations))

	start := time.Now()
	report, err := scenario.Run(ctx, doc, scenario.RunOptions{
		Concurrency: a.cfg.Engine.BatchConcurrency,
		Tolerance:   a.cfg.Engine.RobustnessTolerance,
		Logger:      logger.Slog(),
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("scenario evaluated", "elapsed", time.Since(start))
	return report, nil
}
