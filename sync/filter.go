package sync

import (
	"time"

	"ratesync/storage/types"
)

// IsNew reports whether the observation should be persisted: its currency
// must be present in the freshness map, and its date must be strictly
// after the last-known persisted date. Equal or older dates are dropped,
// which keeps re-runs idempotent. Currencies absent from the map are not
// tracked for this source and are dropped silently
func IsNew(obs *types.Observation, freshness types.Freshness) bool {
	last, ok := freshness[obs.CurrencyCode]
	if !ok {
		return false
	}

	return midnight(obs.Date).After(midnight(last))
}

// midnight truncates the time value to its UTC calendar date
func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
