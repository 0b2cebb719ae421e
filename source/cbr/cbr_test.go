package cbr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratesync/source"
)

const testDocument = `
<ValCurs Date="10.01.2024" name="Foreign Currency Market">
	<Valute ID="840">
		<NumCode>840</NumCode>
		<CharCode>USD</CharCode>
		<Nominal>1</Nominal>
		<Name>US Dollar</Name>
		<Value>90,5000</Value>
	</Valute>
	<Valute ID="392">
		<NumCode>392</NumCode>
		<CharCode>JPY</CharCode>
		<Nominal>100</Nominal>
		<Name>Yen</Name>
		<Value>62,1234</Value>
	</Valute>
</ValCurs>`

func TestCBR_Parse(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		var (
			src         = NewSource(2)
			requestDate = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
		)

		observations, err := src.Parse([]byte(testDocument), requestDate)
		require.NoError(t, err)
		require.Len(t, observations, 2)

		usd := observations[0]

		assert.Equal(t, "840", usd.CurrencyCode)
		assert.Equal(t, "USD", usd.DisplayCode)
		assert.Equal(t, requestDate, usd.Date)
		assert.Equal(t, 1, usd.Nominal)
		assert.InDelta(t, 90.5, usd.Value, 0.00001)
		assert.Equal(t, "90,5000", usd.RawValue)

		jpy := observations[1]

		assert.Equal(t, "392", jpy.CurrencyCode)
		assert.Equal(t, 100, jpy.Nominal)
		assert.InDelta(t, 62.1234, jpy.Value, 0.00001)
	})

	t.Run("document date mismatch", func(t *testing.T) {
		t.Parallel()

		// The document declares 10.01.2024, but the fetch was made
		// for the 11th. Nothing may be emitted
		var (
			src         = NewSource(2)
			requestDate = time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)
		)

		observations, err := src.Parse([]byte(testDocument), requestDate)

		require.NoError(t, err)
		assert.Empty(t, observations)
	})

	t.Run("malformed XML", func(t *testing.T) {
		t.Parallel()

		src := NewSource(2)

		_, err := src.Parse([]byte("<ValCurs"), time.Now())

		assert.ErrorIs(t, err, source.ErrMalformedDocument)
	})

	t.Run("invalid document date", func(t *testing.T) {
		t.Parallel()

		src := NewSource(2)

		_, err := src.Parse(
			[]byte(`<ValCurs Date="not-a-date"></ValCurs>`),
			time.Now(),
		)

		assert.ErrorIs(t, err, source.ErrMalformedDocument)
	})

	t.Run("invalid nominal", func(t *testing.T) {
		t.Parallel()

		var (
			src = NewSource(2)
			doc = `
			<ValCurs Date="10.01.2024">
				<Valute ID="840">
					<CharCode>USD</CharCode>
					<Nominal>one</Nominal>
					<Value>90,5000</Value>
				</Valute>
			</ValCurs>`

			requestDate = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
		)

		_, err := src.Parse([]byte(doc), requestDate)

		assert.ErrorIs(t, err, source.ErrMalformedDocument)
	})

	t.Run("missing entry ID", func(t *testing.T) {
		t.Parallel()

		var (
			src = NewSource(2)
			doc = `
			<ValCurs Date="10.01.2024">
				<Valute>
					<CharCode>USD</CharCode>
					<Nominal>1</Nominal>
					<Value>90,5000</Value>
				</Valute>
			</ValCurs>`

			requestDate = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
		)

		_, err := src.Parse([]byte(doc), requestDate)

		assert.ErrorIs(t, err, source.ErrMalformedDocument)
	})
}
