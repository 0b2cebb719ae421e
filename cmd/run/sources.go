package run

import (
	"ratesync/config"
	"ratesync/source"
	"ratesync/source/cbr"
	"ratesync/source/nbu"
)

// defaultSources returns the feed sources in fixed report order
func defaultSources(cfg *config.Config) []source.Source {
	return []source.Source{
		cbr.NewSource(cfg.Sources.CBRID),
		nbu.NewSource(cfg.Sources.NBUID),
	}
}
