package models

import "time"

// Record is a user-owned financial record. Amounts are stored as numeric
// strings and validated/parsed at the service boundary; Secondary is nil
// when the record has no repayment/current-value figure.
type Record struct {
	ID        string
	UserID    string
	Kind      string
	Title     string
	Category  string
	Amount    string
	Secondary *string
	Date      string
	Period    string
	LoanType  string
	Contact   string
	DueDate   string
	CreatedAt time.Time
}
