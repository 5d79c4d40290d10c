package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitPriceScenario(t *testing.T) {
	// 100 RMB at 7.8 RMB per client unit, quantity 10.
	offer := Offer{UnitPriceRMB: 100, ExchangeRate: 7.8}

	unit, err := UnitPrice(offer)
	require.NoError(t, err)
	assert.Equal(t, "12.82", unit.Round(2).String())

	total, err := LineTotal(offer, 10)
	require.NoError(t, err)
	assert.Equal(t, "128.21", total.Round(2).String())
}

func TestUnitPriceRoundTrip(t *testing.T) {
	offers := []Offer{
		{UnitPriceRMB: 100, ExchangeRate: 7.8},
		{UnitPriceRMB: 0.37, ExchangeRate: 7.12},
		{UnitPriceRMB: 12999.99, ExchangeRate: 1.0846},
	}
	for _, o := range offers {
		unit, err := UnitPrice(o)
		require.NoError(t, err)
		back, _ := unit.Mul(decimal.NewFromFloat(o.ExchangeRate)).Float64()
		assert.InDelta(t, o.UnitPriceRMB, back, 1e-9)
	}
}

func TestUnitPriceRejectsBadRate(t *testing.T) {
	for _, rate := range []float64{0, -1, -0.01} {
		_, err := UnitPrice(Offer{UnitPriceRMB: 10, ExchangeRate: rate})
		assert.ErrorIs(t, err, ErrExchangeRate)

		_, err = LineTotal(Offer{UnitPriceRMB: 10, ExchangeRate: rate}, 2)
		assert.ErrorIs(t, err, ErrExchangeRate)
	}
}

func TestAggregateTotalCountsOnlyVisibleOffers(t *testing.T) {
	lines := []Line{
		{Quantity: 10, Offers: []Offer{
			{UnitPriceRMB: 100, ExchangeRate: 7.8, Visible: true},
			{UnitPriceRMB: 9999, ExchangeRate: 7.8, Visible: false},
		}},
		{Quantity: 2, Offers: []Offer{
			{UnitPriceRMB: 39, ExchangeRate: 7.8, Visible: true},
		}},
	}

	total, err := AggregateTotal(lines)
	require.NoError(t, err)
	// 100/7.8*10 + 39/7.8*2 = 128.2051... + 10
	assert.Equal(t, "138.21", total.Round(2).String())
}

func TestAggregateTotalEmpty(t *testing.T) {
	total, err := AggregateTotal(nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestNormalizeDimensions(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10x20x30", "10 x 20 x 30 cm"},
		{"10x20x30cm", "10 x 20 x 30 cm"},
		{"5,5 * 3mm", "5,5 x 3 mm"},
		{"1,2 X 0,8 m", "1,2 x 0,8 m"},
		{"10.5x20", "10,5 x 20 cm"},
		{"50cm", "50 cm"},
		{"", ""},
		{"sur demande", "sur demande"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeDimensions(c.in), "input %q", c.in)
	}
}

func TestNormalizeDimensionsIdempotent(t *testing.T) {
	inputs := []string{"10x20x30", "5,5 * 3mm", "1,2 X 0,8 m", "10 x 20 x 30 cm"}
	for _, in := range inputs {
		once := NormalizeDimensions(in)
		assert.Equal(t, once, NormalizeDimensions(once), "input %q", in)
	}
}
