package types

import "time"

// WorkItem is a single remote document to fetch: the date the rates are
// requested for, and the fully rendered feed URL for that date.
type WorkItem struct {
	Date time.Time `json:"date"`
	URL  string    `json:"url"`
}

// DateWindow bounds a synchronization run.
// When EnforceMin is false, the gateway returns the full available
// history for the source instead of bounding by Min.
type DateWindow struct {
	Min        time.Time `json:"min"`
	Max        time.Time `json:"max"`
	EnforceMin bool      `json:"enforce_min"`
}

// Freshness maps a source-native currency code to the most recent
// date already persisted for that currency
type Freshness map[string]time.Time

// Observation is a single per-currency rate observation decoded from a
// feed document. RawValue keeps the feed's locale-formatted text for
// report lines, Value is the normalized decimal.
type Observation struct {
	Date         time.Time `json:"date"`
	CurrencyCode string    `json:"currency_code"`
	DisplayCode  string    `json:"display_code"`
	RawValue     string    `json:"raw_value"`
	Nominal      int       `json:"nominal"`
	Value        float64   `json:"value"`
}

// Rate is the durable exchange rate record handed to the gateway
type Rate struct {
	Date         time.Time `json:"date"`
	CurrencyCode string    `json:"currency_code"`
	SourceID     int       `json:"source_id"`
	Nominal      int       `json:"nominal"`
	Value        float64   `json:"value"`
}
