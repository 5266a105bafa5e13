// Package calc computes line and document totals for financial documents.
//
// Every function here is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
package calc

import (
	"fmt"
	"math"
)

// Line is the caller-supplied input for a single document line.
type Line struct {
	Quantity float64
	Price    float64
	Tax      float64 // percentage in [0,100]
}

// LineTotals holds the derived monetary fields for a single line.
type LineTotals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// Totals holds the document aggregates, the element-wise sum of its lines.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// LineError reports an invalid line input by position.
type LineError struct {
	Index int
	Field string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("invalid_line: line %d has invalid %s", e.Index, e.Field)
}

// Validate checks a single line's numeric constraints.
func Validate(index int, line Line) error {
	if line.Quantity <= 0 {
		return &LineError{Index: index, Field: "quantity"}
	}
	if line.Price < 0 {
		return &LineError{Index: index, Field: "price"}
	}
	if line.Tax < 0 || line.Tax > 100 {
		return &LineError{Index: index, Field: "tax"}
	}
	return nil
}

// Compute validates every line and returns per-line totals plus the
// document aggregate. The aggregate is the sum of the already-rounded
// line fields, never re-derived from a blended tax rate, so the document
// total always equals the sum of its line totals exactly.
func Compute(lines []Line) ([]LineTotals, Totals, error) {
	for i, line := range lines {
		if err := Validate(i, line); err != nil {
			return nil, Totals{}, err
		}
	}

	perLine := make([]LineTotals, 0, len(lines))
	var agg Totals
	for _, line := range lines {
		subtotal := Round(line.Quantity * line.Price)
		taxAmount := Round(subtotal * line.Tax / 100)
		totals := LineTotals{
			Subtotal:  subtotal,
			TaxAmount: taxAmount,
			Total:     Round(subtotal + taxAmount),
		}
		perLine = append(perLine, totals)

		agg.Subtotal = Round(agg.Subtotal + totals.Subtotal)
		agg.TaxAmount = Round(agg.TaxAmount + totals.TaxAmount)
		agg.Total = Round(agg.Total + totals.Total)
	}

	return perLine, agg, nil
}

// Round rounds a monetary amount to 2 decimals, half away from zero.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}
