// Package domain contains persistence models for manual accounting entries.
package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
)

// BalanceTolerance is the currency-unit epsilon under which the sum of
// floating-point line amounts is still considered balanced.
const BalanceTolerance = 0.01

// Account is one chart-of-accounts entry, scoped to a company.
type Account struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;uniqueIndex:ux_accounts_company_code,priority:1" json:"company_id"`
	Code      string       `gorm:"type:text;not null;uniqueIndex:ux_accounts_company_code,priority:2" json:"code"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }

// JournalEntry is a double-entry accounting record whose debit and
// credit lines must balance before it is allowed to exist.
type JournalEntry struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID `gorm:"not null;index" json:"company_id"`
	Date        time.Time    `gorm:"not null" json:"date"`
	Reference   string       `gorm:"type:text" json:"reference,omitempty"`
	Description string       `gorm:"type:text;not null" json:"description"`
	TotalDebit  float64      `gorm:"not null;default:0" json:"total_debit"`
	TotalCredit float64      `gorm:"not null;default:0" json:"total_credit"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Lines []JournalLine `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// TableName sets the database table name.
func (JournalEntry) TableName() string { return "journal_entries" }

// JournalLine is one posting of a journal entry. Debit and credit are
// both non-negative; in practice one of them is zero.
type JournalLine struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	EntryID     snowflake.ID `gorm:"not null;index" json:"entry_id"`
	AccountID   snowflake.ID `gorm:"not null;index" json:"account_id"`
	Position    int          `gorm:"not null;default:0" json:"position"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Debit       float64      `gorm:"not null;default:0" json:"debit"`
	Credit      float64      `gorm:"not null;default:0" json:"credit"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (JournalLine) TableName() string { return "journal_lines" }

// UnbalancedError reports a journal entry whose debits and credits
// differ by more than the tolerance. Difference is signed:
// positive means debits exceed credits.
type UnbalancedError struct {
	Difference float64
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("unbalanced_entry: debits and credits differ by %.2f", e.Difference)
}

// ValidateBalanced checks sum(debit) == sum(credit) across all lines,
// within BalanceTolerance. It has no side effects.
func ValidateBalanced(lines []JournalLine) error {
	var totalDebit, totalCredit float64
	for _, line := range lines {
		totalDebit += line.Debit
		totalCredit += line.Credit
	}

	difference := math.Round((totalDebit-totalCredit)*100) / 100
	if math.Abs(difference) > BalanceTolerance {
		return &UnbalancedError{Difference: difference}
	}
	return nil
}
