package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Transaction is the central entity of the ledger. It is an immutable value:
// updates replace a transaction wholesale, never patch individual fields.
// The id is assigned by the remote ledger; any store holds at most one
// transaction per id.
type Transaction struct {
	ID       int      `json:"id"`
	Account  Account  `json:"account"`  // snapshot, not a live reference
	Category Category `json:"category"` // snapshot

	Amount          decimal.Decimal `json:"amount"` // non-negative magnitude; direction comes from the category
	TransactionDate Timestamp       `json:"transactionDate"`
	Comment         *string         `json:"comment,omitempty"`

	CreatedAt Timestamp `json:"createdAt"` // server-assigned
	UpdatedAt Timestamp `json:"updatedAt"` // server-assigned
}

// UnmarshalJSON implements json.Unmarshaler. An absent or empty comment field
// decodes to nil so the optional round-trips as absent, never as "".
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Comment != nil && *p.Comment == "" {
		p.Comment = nil
	}
	*t = Transaction(p)
	return nil
}

// Equal reports field-for-field equality, comparing the amount and timestamps
// by value rather than representation.
func (t Transaction) Equal(other Transaction) bool {
	if t.ID != other.ID ||
		t.Account.ID != other.Account.ID ||
		t.Account.Name != other.Account.Name ||
		t.Account.Currency != other.Account.Currency ||
		!t.Account.Balance.Equal(other.Account.Balance) ||
		t.Category != other.Category {
		return false
	}
	if !t.Amount.Equal(other.Amount) ||
		!t.TransactionDate.Equal(other.TransactionDate) ||
		!t.CreatedAt.Equal(other.CreatedAt) ||
		!t.UpdatedAt.Equal(other.UpdatedAt) {
		return false
	}
	if (t.Comment == nil) != (other.Comment == nil) {
		return false
	}
	return t.Comment == nil || *t.Comment == *other.Comment
}
