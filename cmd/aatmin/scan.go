// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/aatmin/internal/aat"
	"github.com/pdiddy/aatmin/internal/history"
	"github.com/pdiddy/aatmin/internal/logging"
	"github.com/pdiddy/aatmin/pkg/types"
)

// runScan finds the minimum L1 AAT in path and writes the report line to w.
// When history is enabled the result is recorded; a recording failure is
// logged and does not fail the command.
func runScan(ctx context.Context, cfg types.Config, path string, w io.Writer) error {
	log := logging.Get(ctx)

	sum, err := aat.FindMinimum(path)
	if err != nil {
		return err
	}

	log.Infow("scan complete",
		"path", path,
		"lines", sum.Lines,
		"matches", sum.Matches,
	)
	if sum.Found {
		log.Infow("minimum located",
			"value", sum.Value,
			"line", sum.Line,
			"run", sum.Run,
			"settings", sum.Settings,
		)
	}

	if _, err := fmt.Fprintln(w, aat.Report(sum)); err != nil {
		return err
	}

	if cfg.History.Enabled {
		if err := record(ctx, cfg.History, path, sum); err != nil {
			log.Warnw("history not recorded", "error", err)
		}
	}
	return nil
}

func record(ctx context.Context, cfg types.HistoryConfig, path string, sum aat.Summary) error {
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Record(ctx, path, sum)
	if err != nil {
		return err
	}
	logging.Get(ctx).Debugw("history recorded", "id", id, "db", cfg.Path)
	return nil
}
