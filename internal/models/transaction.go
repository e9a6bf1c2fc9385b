package models

import (
	"time"
)

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusComplete TransactionStatus = "COMPLETE"
	StatusFailed   TransactionStatus = "FAILED"
)

// PaymentType distinguishes payments from refunds.
type PaymentType string

const (
	PaymentTypePayment PaymentType = "PAYMENT"
	PaymentTypeRefund  PaymentType = "REFUND"
)

// Transaction records a single vend attempt against a disco. It is created
// PENDING when a meter is validated, annotated with the bank reference by the
// vend call, and reaches COMPLETE exactly once via the completion call.
type Transaction struct {
	BaseModel

	Amount               string            `json:"amount" gorm:"not null"`
	Status               TransactionStatus `json:"status" gorm:"not null;size:20;index"`
	Provider             string            `json:"provider" gorm:"not null;size:20"`
	PaymentType          PaymentType       `json:"payment_type" gorm:"not null;size:20"`
	TransactionTimestamp time.Time         `json:"transaction_timestamp"`
	Disco                string            `json:"disco" gorm:"size:50"`
	Superagent           string            `json:"superagent" gorm:"size:50"`

	// BankRefID is the idempotency key supplied by the payment channel.
	// Nullable until a vend request attaches it, unique once set.
	BankRefID   *string `json:"bank_ref_id" gorm:"uniqueIndex;size:100"`
	BankComment string  `json:"bank_comment" gorm:"size:255"`
}

// TableName specifies the table name
func (Transaction) TableName() string {
	return "transactions"
}
