package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBalanced(t *testing.T) {
	tests := []struct {
		name       string
		lines      []JournalLine
		difference float64
	}{
		{
			name: "exact balance",
			lines: []JournalLine{
				{Debit: 100},
				{Credit: 100},
			},
		},
		{
			name: "split credits",
			lines: []JournalLine{
				{Debit: 121},
				{Credit: 100},
				{Credit: 21},
			},
		},
		{
			name: "float accumulation stays within tolerance",
			lines: []JournalLine{
				{Debit: 0.1}, {Debit: 0.1}, {Debit: 0.1},
				{Credit: 0.3},
			},
		},
		{
			name: "debits exceed credits",
			lines: []JournalLine{
				{Debit: 100},
				{Credit: 99},
			},
			difference: 1,
		},
		{
			name: "credits exceed debits",
			lines: []JournalLine{
				{Debit: 50},
				{Credit: 50.5},
			},
			difference: -0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBalanced(tt.lines)
			if tt.difference == 0 {
				assert.NoError(t, err)
				return
			}

			var unbalanced *UnbalancedError
			require.ErrorAs(t, err, &unbalanced)
			assert.Equal(t, tt.difference, unbalanced.Difference)
		})
	}
}

func TestValidateBalanced_ToleranceBoundary(t *testing.T) {
	assert.NoError(t, ValidateBalanced([]JournalLine{
		{Debit: 100.01},
		{Credit: 100},
	}))
	assert.Error(t, ValidateBalanced([]JournalLine{
		{Debit: 100.02},
		{Credit: 100},
	}))
}
