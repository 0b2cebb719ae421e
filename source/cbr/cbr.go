// Package cbr implements the Central Bank of Russia daily rates feed.
//
// The document root carries a Date attribute with the document's nominal
// date in day.month.year format. Observations are only emitted when the
// requested date matches the declared one, guarding against the feed
// answering with data for a different date than asked.
package cbr

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ratesync/source"
	"ratesync/storage/types"
)

// DateLayout is the date layout used by the CBR feed
const DateLayout = "02.01.2006"

type valCurs struct {
	XMLName xml.Name `xml:"ValCurs"`
	Date    string   `xml:"Date,attr"`
	Valutes []valute `xml:"Valute"`
}

type valute struct {
	ID       string `xml:"ID,attr"`
	Nominal  string `xml:"Nominal"`
	Value    string `xml:"Value"`
	CharCode string `xml:"CharCode"`
}

// Source is the CBR feed variant
type Source struct {
	id int
}

// NewSource creates a new CBR feed source with the given gateway ID
func NewSource(id int) *Source {
	return &Source{
		id: id,
	}
}

func (s *Source) Name() string {
	return "CBR"
}

func (s *Source) ID() int {
	return s.id
}

func (s *Source) Parse(data []byte, requestDate time.Time) ([]types.Observation, error) {
	var doc valCurs

	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", source.ErrMalformedDocument, err)
	}

	docDate, err := time.Parse(DateLayout, strings.TrimSpace(doc.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid document date %q", source.ErrMalformedDocument, doc.Date)
	}

	// The feed answers with the nearest published document when asked for
	// a date it has no data for. Nothing is emitted in that case
	if !sameDate(docDate, requestDate) {
		return nil, nil
	}

	observations := make([]types.Observation, 0, len(doc.Valutes))

	for _, v := range doc.Valutes {
		if v.ID == "" {
			return nil, fmt.Errorf("%w: currency entry without ID", source.ErrMalformedDocument)
		}

		nominal, err := strconv.Atoi(strings.TrimSpace(v.Nominal))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid nominal %q", source.ErrMalformedDocument, v.Nominal)
		}

		value, err := source.ParseLocaleDecimal(v.Value)
		if err != nil {
			return nil, err
		}

		observations = append(observations, types.Observation{
			CurrencyCode: v.ID,
			DisplayCode:  strings.TrimSpace(v.CharCode),
			Date:         requestDate,
			Nominal:      nominal,
			Value:        value,
			RawValue:     strings.TrimSpace(v.Value),
		})
	}

	return observations, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
