package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_SingleLine(t *testing.T) {
	perLine, agg, err := Compute([]Line{{Quantity: 2, Price: 100, Tax: 21}})
	require.NoError(t, err)
	require.Len(t, perLine, 1)

	assert.Equal(t, 200.0, perLine[0].Subtotal)
	assert.Equal(t, 42.0, perLine[0].TaxAmount)
	assert.Equal(t, 242.0, perLine[0].Total)

	assert.Equal(t, 200.0, agg.Subtotal)
	assert.Equal(t, 42.0, agg.TaxAmount)
	assert.Equal(t, 242.0, agg.Total)
}

func TestCompute_AggregateIsSumOfLines(t *testing.T) {
	lines := []Line{
		{Quantity: 3, Price: 19.99, Tax: 21},
		{Quantity: 1, Price: 0.05, Tax: 10},
		{Quantity: 7, Price: 12.34, Tax: 0},
		{Quantity: 2.5, Price: 8, Tax: 4.5},
	}

	perLine, agg, err := Compute(lines)
	require.NoError(t, err)

	var subtotal, taxAmount, total float64
	for _, lt := range perLine {
		assert.Equal(t, Round(lt.Subtotal+lt.TaxAmount), lt.Total)
		subtotal = Round(subtotal + lt.Subtotal)
		taxAmount = Round(taxAmount + lt.TaxAmount)
		total = Round(total + lt.Total)
	}

	assert.Equal(t, subtotal, agg.Subtotal)
	assert.Equal(t, taxAmount, agg.TaxAmount)
	assert.Equal(t, total, agg.Total)
}

func TestCompute_ZeroPriceLineAllowed(t *testing.T) {
	perLine, agg, err := Compute([]Line{{Quantity: 1, Price: 0, Tax: 21}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, perLine[0].Total)
	assert.Equal(t, 0.0, agg.Total)
}

func TestCompute_InvalidLines(t *testing.T) {
	cases := []struct {
		name  string
		line  Line
		field string
	}{
		{"zero quantity", Line{Quantity: 0, Price: 10, Tax: 0}, "quantity"},
		{"negative quantity", Line{Quantity: -1, Price: 10, Tax: 0}, "quantity"},
		{"negative price", Line{Quantity: 1, Price: -0.01, Tax: 0}, "price"},
		{"negative tax", Line{Quantity: 1, Price: 10, Tax: -1}, "tax"},
		{"tax above 100", Line{Quantity: 1, Price: 10, Tax: 100.5}, "tax"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Compute([]Line{{Quantity: 1, Price: 1, Tax: 1}, tc.line})
			require.Error(t, err)

			var lineErr *LineError
			require.ErrorAs(t, err, &lineErr)
			assert.Equal(t, 1, lineErr.Index)
			assert.Equal(t, tc.field, lineErr.Field)
		})
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.1, Round(0.1))
	assert.Equal(t, 2.68, Round(2.675000001))
	assert.Equal(t, 59.97, Round(3*19.99))
	assert.Equal(t, -1.01, Round(-1.005))
}
