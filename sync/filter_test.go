package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ratesync/storage/types"
)

func TestFilter_IsNew(t *testing.T) {
	t.Parallel()

	var (
		jan9  = time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC)
		jan10 = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
		jan11 = time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)

		freshness = types.Freshness{
			"840": jan10,
		}
	)

	testTable := []struct {
		name string
		obs  types.Observation
		kept bool
	}{
		{
			name: "unknown currency dropped",
			obs:  types.Observation{CurrencyCode: "978", Date: jan11},
			kept: false,
		},
		{
			name: "older date dropped",
			obs:  types.Observation{CurrencyCode: "840", Date: jan9},
			kept: false,
		},
		{
			name: "equal date dropped",
			obs:  types.Observation{CurrencyCode: "840", Date: jan10},
			kept: false,
		},
		{
			name: "newer date kept",
			obs:  types.Observation{CurrencyCode: "840", Date: jan11},
			kept: true,
		},
		{
			name: "newer date with time-of-day kept",
			obs: types.Observation{
				CurrencyCode: "840",
				Date:         jan11.Add(time.Hour * 15),
			},
			kept: true,
		},
		{
			name: "same calendar date with time-of-day dropped",
			obs: types.Observation{
				CurrencyCode: "840",
				Date:         jan10.Add(time.Hour * 15),
			},
			kept: false,
		},
	}

	for _, testCase := range testTable {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.kept, IsNew(&testCase.obs, freshness))
		})
	}
}
