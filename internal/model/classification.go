package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the unit of work supplied by the text-extraction
// collaborator: an identifier plus the raw bank-statement description.
// Amount and date travel along for reporting but play no part in matching.
type Transaction struct {
	Date        time.Time       `json:"date"`
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Classification is the outcome of matching one description against a rule
// set. It is created per classification call, immutable, and consumed
// immediately by the journal/report pipeline. AccountCode and RuleName are
// empty when no rule matched; that is the normal fallback outcome, not an
// error, and callers must treat it as "needs human review".
type Classification struct {
	ClassifiedAt time.Time `json:"classified_at"`
	Description  string    `json:"description"`
	AccountCode  string    `json:"account_code,omitempty"`
	RuleName     string    `json:"rule_name,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	Confidence   float64   `json:"confidence"`
	IsFallback   bool      `json:"is_fallback"`
}

// Matched reports whether a rule resolved this classification to an account.
func (c Classification) Matched() bool {
	return !c.IsFallback && c.AccountCode != ""
}
