package domain

import "time"

// Credit transaction types. "initial" and "purchased" add to the balance,
// "used" subtracts from it. The balance is always derived by summing records,
// never stored.
const (
	CreditInitial   = "initial"
	CreditPurchased = "purchased"
	CreditUsed      = "used"
)

// CreditRecord is one append-only entry in the credit ledger.
type CreditRecord struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	WorkspaceID     string    `json:"workspace_id,omitempty" db:"workspace_id"`
	CreditAmount    int       `json:"credit_amount" db:"credit_amount"` // Always positive
	TransactionType string    `json:"transaction_type" db:"transaction_type"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// UsageRecord is an append-only audit entry written alongside every debit.
type UsageRecord struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	WorkspaceID     string    `json:"workspace_id" db:"workspace_id"`
	APIType         string    `json:"api_type" db:"api_type"`
	UsageAmount     int       `json:"usage_amount" db:"usage_amount"`
	CreditsConsumed int       `json:"credits_consumed" db:"credits_consumed"`
	OperationType   string    `json:"operation_type" db:"operation_type"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// GrantCreditsRequest is the request body for adding credits to a ledger.
type GrantCreditsRequest struct {
	UserID          string `json:"userId"`
	WorkspaceID     string `json:"workspaceId,omitempty"`
	Amount          int    `json:"amount"`
	TransactionType string `json:"transactionType"` // "initial" or "purchased"
}

// BalanceResponse is returned by the balance endpoint.
type BalanceResponse struct {
	UserID  string `json:"userId"`
	Balance int    `json:"balance"`
}
