// Package source defines the feed variants the synchronizer can consume.
//
// Each variant owns one externally-fixed XML schema and decodes it into the
// common observation type, so everything downstream of parsing stays
// source-agnostic.
package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ratesync/storage/types"
)

// ErrMalformedDocument is returned when a feed document is not well-formed
// XML of the shape the source variant expects
var ErrMalformedDocument = errors.New("malformed feed document")

// Source is a single remote feed variant
type Source interface {
	// Name returns the human-readable name of the source
	Name() string

	// ID returns the gateway identifier of the source
	ID() int

	// Parse decodes one feed document into rate observations.
	// requestDate is the date the document was fetched for
	Parse(data []byte, requestDate time.Time) ([]types.Observation, error)
}

// ParseLocaleDecimal parses locale-formatted decimal text, normalizing a
// comma decimal separator to a period: "1,2345" -> 1.2345
func ParseLocaleDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty decimal value", ErrMalformedDocument)
	}

	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unable to parse decimal %q", ErrMalformedDocument, s)
	}

	return f, nil
}
