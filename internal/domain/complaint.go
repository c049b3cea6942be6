package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending  ComplaintStatus = "PENDING"
	ComplaintStatusApproved ComplaintStatus = "APPROVED"
	ComplaintStatusRejected ComplaintStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transition.
func (s ComplaintStatus) Terminal() bool {
	return s == ComplaintStatusApproved || s == ComplaintStatusRejected
}

// Complaint is the aggregate for reimbursement claims.
type Complaint struct {
	ID           string
	ComplainerID string
	Title        string
	Description  string
	Amount       decimal.Decimal
	PhotoURL     string
	Status       ComplaintStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
