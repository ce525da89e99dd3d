package ledgersync

import (
	"context"
	"time"

	"github.com/dvloznov/ledger-sync/internal/domain"
	"github.com/dvloznov/ledger-sync/internal/remote"
)

// TransactionAPI is the slice of the remote ledger the sync service queries
// and mutates. remote.LedgerService satisfies it; tests supply mocks.
type TransactionAPI interface {
	TransactionsByPeriod(ctx context.Context, accountID int, start, end time.Time) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, req remote.TransactionRequest) (remote.TransactionRecord, error)
	UpdateTransaction(ctx context.Context, id int, req remote.TransactionRequest) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id int) error
}

// ReferenceAPI resolves account and category ids into full objects when a
// create response carries only foreign ids. remote.LedgerService satisfies it.
type ReferenceAPI interface {
	AccountByID(ctx context.Context, id int) (domain.Account, error)
	CategoryByID(ctx context.Context, id int) (domain.Category, error)
}
