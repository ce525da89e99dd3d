package remote

import (
	"github.com/shopspring/decimal"

	"github.com/dvloznov/ledger-sync/internal/domain"
)

// TransactionRequest is the payload for creating a transaction or replacing
// one wholesale. The amount travels as an exact base-10 string.
type TransactionRequest struct {
	AccountID       int              `json:"accountId"`
	CategoryID      int              `json:"categoryId"`
	Amount          decimal.Decimal  `json:"amount"`
	TransactionDate domain.Timestamp `json:"transactionDate"`
	Comment         *string          `json:"comment,omitempty"`
}

// TransactionRecord is the flat create response: it carries account and
// category ids, not the embedded objects, so the caller must resolve them
// before materializing a domain.Transaction.
type TransactionRecord struct {
	ID              int              `json:"id"`
	AccountID       int              `json:"accountId"`
	CategoryID      int              `json:"categoryId"`
	Amount          decimal.Decimal  `json:"amount"`
	TransactionDate domain.Timestamp `json:"transactionDate"`
	Comment         *string          `json:"comment,omitempty"`
	CreatedAt       domain.Timestamp `json:"createdAt"`
	UpdatedAt       domain.Timestamp `json:"updatedAt"`
}
