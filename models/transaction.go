package models

import "time"

// TransactionType categorizes a ledger entry.
type TransactionType string

const (
	TxnDeposit        TransactionType = "deposit"
	TxnPayment        TransactionType = "payment"
	TxnRefund         TransactionType = "refund"
	TxnFine           TransactionType = "fine"
	TxnDueClearance   TransactionType = "due_clearance"
	TxnWalletCredit   TransactionType = "wallet_credit"
	TxnWalletDebit    TransactionType = "wallet_debit"
	TxnGlobalTransfer TransactionType = "global_transfer"
	TxnSystem         TransactionType = "system"
)

// TransactionStatus of a ledger entry. The only permitted mutation after
// creation is pending to completed or failed.
type TransactionStatus string

const (
	TxnPending   TransactionStatus = "pending"
	TxnCompleted TransactionStatus = "completed"
	TxnFailed    TransactionStatus = "failed"
)

// Transaction is an immutable audit record of a monetary event.
type Transaction struct {
	ID          string            `bson:"id" json:"id"`
	UserID      string            `bson:"user_id,omitempty" json:"userId,omitempty"`
	BookingID   string            `bson:"booking_id,omitempty" json:"bookingId,omitempty"`
	Amount      float64           `bson:"amount" json:"amount"`
	Type        TransactionType   `bson:"type" json:"type"`
	Status      TransactionStatus `bson:"status" json:"status"`
	Description string            `bson:"description,omitempty" json:"description,omitempty"`
	// Waived marks a due clearance written off by an admin rather than
	// collected toward the operator's aggregate balance.
	Waived    bool      `bson:"waived,omitempty" json:"waived,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
