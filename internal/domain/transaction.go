package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Opaque gateway identifiers. Distinct types keep quote, transfer and
// recipient ids from being assigned across kinds.
type (
	QuoteID     string
	TransferID  string
	RecipientID string
)

// Transaction correlates a complaint with the gateway identifiers issued
// for it. Exactly one exists per complaint, written in the same database
// transaction as the complaint itself, and the row is immutable once
// stored; fund and cancel act on the gateway's copy.
type Transaction struct {
	ID              string
	ComplaintID     string
	QuoteID         QuoteID
	TransferID      TransferID
	TargetAccountID RecipientID
	Amount          decimal.Decimal
	CreatedAt       time.Time
}
