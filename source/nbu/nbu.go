// Package nbu implements the National Bank of Ukraine daily rates feed.
//
// Every entry quotes the rate per single unit, so the nominal is
// implicitly 1 for all records.
package nbu

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"ratesync/source"
	"ratesync/storage/types"
)

type exchange struct {
	XMLName    xml.Name   `xml:"exchange"`
	Currencies []currency `xml:"currency"`
}

type currency struct {
	R030 string `xml:"r030"`
	Rate string `xml:"rate"`
	CC   string `xml:"cc"`
}

// Source is the NBU feed variant
type Source struct {
	id int
}

// NewSource creates a new NBU feed source with the given gateway ID
func NewSource(id int) *Source {
	return &Source{
		id: id,
	}
}

func (s *Source) Name() string {
	return "NBU"
}

func (s *Source) ID() int {
	return s.id
}

func (s *Source) Parse(data []byte, requestDate time.Time) ([]types.Observation, error) {
	var doc exchange

	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", source.ErrMalformedDocument, err)
	}

	observations := make([]types.Observation, 0, len(doc.Currencies))

	for _, c := range doc.Currencies {
		code := strings.TrimSpace(c.R030)
		if code == "" {
			return nil, fmt.Errorf("%w: currency entry without r030 code", source.ErrMalformedDocument)
		}

		value, err := source.ParseLocaleDecimal(c.Rate)
		if err != nil {
			return nil, err
		}

		observations = append(observations, types.Observation{
			CurrencyCode: code,
			DisplayCode:  strings.TrimSpace(c.CC),
			Date:         requestDate,
			Nominal:      1,
			Value:        value,
			RawValue:     strings.TrimSpace(c.Rate),
		})
	}

	return observations, nil
}
