package mock

import (
	"context"

	"ratesync/storage/types"
)

type (
	ListWorkItemsDelegate func(context.Context, int, types.DateWindow) ([]types.WorkItem, error)
	ListFreshnessDelegate func(context.Context, int, types.DateWindow) (types.Freshness, error)
	PersistRateDelegate   func(context.Context, *types.Rate) error
)

type Gateway struct {
	ListWorkItemsFn ListWorkItemsDelegate
	ListFreshnessFn ListFreshnessDelegate
	PersistRateFn   PersistRateDelegate
}

func (m *Gateway) ListWorkItems(
	ctx context.Context,
	sourceID int,
	window types.DateWindow,
) ([]types.WorkItem, error) {
	if m.ListWorkItemsFn != nil {
		return m.ListWorkItemsFn(ctx, sourceID, window)
	}

	return nil, nil
}

func (m *Gateway) ListFreshness(
	ctx context.Context,
	sourceID int,
	window types.DateWindow,
) (types.Freshness, error) {
	if m.ListFreshnessFn != nil {
		return m.ListFreshnessFn(ctx, sourceID, window)
	}

	return nil, nil
}

func (m *Gateway) PersistRate(ctx context.Context, rate *types.Rate) error {
	if m.PersistRateFn != nil {
		return m.PersistRateFn(ctx, rate)
	}

	return nil
}
