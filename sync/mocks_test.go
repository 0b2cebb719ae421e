package sync

import (
	"context"
	"time"

	"ratesync/storage/types"
)

type (
	nameDelegate  func() string
	idDelegate    func() int
	parseDelegate func([]byte, time.Time) ([]types.Observation, error)
)

type mockSource struct {
	nameFn  nameDelegate
	idFn    idDelegate
	parseFn parseDelegate
}

func (m *mockSource) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockSource) ID() int {
	if m.idFn != nil {
		return m.idFn()
	}

	return 0
}

func (m *mockSource) Parse(data []byte, requestDate time.Time) ([]types.Observation, error) {
	if m.parseFn != nil {
		return m.parseFn(data, requestDate)
	}

	return nil, nil
}

type fetchDelegate func(context.Context, string) ([]byte, error)

type mockFetcher struct {
	fetchFn fetchDelegate
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, url)
	}

	return nil, nil
}
