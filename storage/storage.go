package storage

import (
	"context"

	"ratesync/storage/types"
)

// Gateway is an abstraction over the durable exchange rate store
type Gateway interface {
	// ListWorkItems returns the (date, URL) pairs that should be fetched
	// for the given source within the date window
	ListWorkItems(ctx context.Context, sourceID int, window types.DateWindow) ([]types.WorkItem, error)

	// ListFreshness returns the per-currency last-persisted dates for the
	// given source. Every tracked currency is present in the result
	ListFreshness(ctx context.Context, sourceID int, window types.DateWindow) (types.Freshness, error)

	// PersistRate saves the given exchange rate record
	PersistRate(ctx context.Context, rate *types.Rate) error
}
