package domain

import (
	"github.com/shopspring/decimal"
)

// Account is a balance-bearing entity. A Transaction embeds the account as a
// snapshot taken when the transaction was fetched or created; a later balance
// change does not retroactively update transactions referencing it.
type Account struct {
	ID       int             `json:"id"`
	UserID   *int            `json:"userId,omitempty"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"` // exact base-10 string on the wire
	Currency string          `json:"currency"`

	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}
