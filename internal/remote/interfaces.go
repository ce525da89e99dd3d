package remote

import (
	"context"
	"time"

	"github.com/dvloznov/ledger-sync/internal/domain"
)

// LedgerService is the remote ledger surface the rest of the module consumes.
// Two implementations exist: Client (HTTP-backed) and Fixture (in-memory),
// selected by dependency injection.
type LedgerService interface {
	// TransactionsByPeriod returns all transactions of accountID whose
	// transactionDate falls in [start, end]. Boundaries are encoded date-only
	// on the wire; callers normalize them to start/end of day beforehand.
	TransactionsByPeriod(ctx context.Context, accountID int, start, end time.Time) ([]domain.Transaction, error)

	// CreateTransaction submits a new transaction. The remote assigns the id
	// and returns a flat record with unresolved foreign ids.
	CreateTransaction(ctx context.Context, req TransactionRequest) (TransactionRecord, error)

	// UpdateTransaction replaces the transaction with the given id and
	// returns the fully materialized result.
	UpdateTransaction(ctx context.Context, id int, req TransactionRequest) (domain.Transaction, error)

	// DeleteTransaction removes the transaction with the given id.
	DeleteTransaction(ctx context.Context, id int) error

	// Accounts lists all accounts of the credential's user.
	Accounts(ctx context.Context) ([]domain.Account, error)

	// AccountByID resolves a single account.
	AccountByID(ctx context.Context, id int) (domain.Account, error)

	// Categories lists all categories.
	Categories(ctx context.Context) ([]domain.Category, error)

	// CategoryByID resolves a single category.
	CategoryByID(ctx context.Context, id int) (domain.Category, error)
}
