// Package sync drives one synchronization run per source: it obtains the
// work list and freshness map from the gateway, walks the client + parser +
// filter pipeline across all work items, and accumulates a per-source
// report of everything persisted
package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ratesync/fetch"
	"ratesync/source"
	"ratesync/storage"
	"ratesync/storage/types"
)

// dateLayout is the layout used for dates in report headers and logs
const dateLayout = "2006-01-02"

// Fetcher fetches a single feed document
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Orchestrator runs source synchronizations against a persistence gateway
type Orchestrator struct {
	gateway storage.Gateway
	fetcher Fetcher
	logger  *slog.Logger
}

// New creates a new Orchestrator instance
func New(gateway storage.Gateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gateway: gateway,
		fetcher: fetch.NewClient(fetch.DefaultTimeout),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Synchronize fetches, filters and persists the rates of a single source
// within the given date window, returning the accumulated report.
// Per-item failures are logged and counted, never fatal; only failure to
// obtain the initial work or freshness lists aborts the run
func (o *Orchestrator) Synchronize(
	ctx context.Context,
	src source.Source,
	window types.DateWindow,
) (*Report, error) {
	logger := o.logger.With("source", src.Name())

	items, err := o.gateway.ListWorkItems(ctx, src.ID(), window)
	if err != nil {
		return nil, fmt.Errorf("unable to list work items: %w", err)
	}

	freshness, err := o.gateway.ListFreshness(ctx, src.ID(), window)
	if err != nil {
		return nil, fmt.Errorf("unable to list currency freshness: %w", err)
	}

	logger.Info(
		"starting source synchronization",
		"work_items", len(items),
		"tracked_currencies", len(freshness),
	)

	report := &Report{
		Source: src.Name(),
	}

	var body strings.Builder

	fmt.Fprintf(&body, "Downloaded exchange rates from %s:\n\n", src.Name())

	for _, item := range items {
		itemLogger := logger.With(
			"date", item.Date.Format(dateLayout),
			"url", item.URL,
		)

		data, err := o.fetcher.Fetch(ctx, item.URL)
		if err != nil {
			// Single attempt per URL. The date stays newer than the
			// last-known one, so the item is retried on the next run
			itemLogger.Error("unable to fetch feed document", "err", err)

			report.Failed++

			continue
		}

		observations, err := src.Parse(data, item.Date)
		if err != nil {
			itemLogger.Error("unable to parse feed document", "err", err)

			report.Failed++

			continue
		}

		var section strings.Builder

		for i := range observations {
			obs := &observations[i]

			if !IsNew(obs, freshness) {
				continue
			}

			rate := &types.Rate{
				SourceID:     src.ID(),
				CurrencyCode: obs.CurrencyCode,
				Date:         obs.Date,
				Nominal:      obs.Nominal,
				Value:        obs.Value,
			}

			if err := o.gateway.PersistRate(ctx, rate); err != nil {
				itemLogger.Error(
					"unable to persist rate",
					"currency", obs.CurrencyCode,
					"err", err,
				)

				report.Failed++

				continue
			}

			itemLogger.Info(
				"saved exchange rate",
				"currency", obs.CurrencyCode,
				"display_code", obs.DisplayCode,
				"value", obs.Value,
				"nominal", obs.Nominal,
			)

			fmt.Fprintf(&section, "%s: %s/%d\n", obs.DisplayCode, obs.RawValue, obs.Nominal)
		}

		if section.Len() > 0 {
			fmt.Fprintf(
				&body,
				"***** Exchange rates on date %s *****\n%s\n",
				item.Date.Format(dateLayout),
				section.String(),
			)

			report.HasChanges = true
		}
	}

	report.Body = body.String()

	logger.Info(
		"source synchronization complete",
		"has_changes", report.HasChanges,
		"failed_items", report.Failed,
	)

	return report, nil
}
