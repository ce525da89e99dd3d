package remote

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dvloznov/ledger-sync/internal/domain"
)

// Fixture is the in-memory implementation of LedgerService. It mimics the
// real backend's route semantics (server-assigned ids and timestamps, 404 on
// unknown ids, inclusive period filtering) without any network, and is safe
// for concurrent use.
type Fixture struct {
	mu           sync.RWMutex
	accounts     map[int]domain.Account
	categories   map[int]domain.Category
	transactions map[int]domain.Transaction
	nextID       int
}

// NewFixture creates a Fixture seeded with the given reference data.
func NewFixture(accounts []domain.Account, categories []domain.Category) *Fixture {
	f := &Fixture{
		accounts:     make(map[int]domain.Account, len(accounts)),
		categories:   make(map[int]domain.Category, len(categories)),
		transactions: make(map[int]domain.Transaction),
		nextID:       1,
	}
	for _, a := range accounts {
		f.accounts[a.ID] = a
	}
	for _, c := range categories {
		f.categories[c.ID] = c
	}
	return f
}

// SeedTransaction inserts a pre-built transaction, bumping the id sequence
// past it so later creates never collide.
func (f *Fixture) SeedTransaction(tx domain.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transactions[tx.ID] = tx
	if tx.ID >= f.nextID {
		f.nextID = tx.ID + 1
	}
}

// TransactionsByPeriod implements LedgerService.
func (f *Fixture) TransactionsByPeriod(ctx context.Context, accountID int, start, end time.Time) ([]domain.Transaction, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var result []domain.Transaction
	for _, tx := range f.transactions {
		if tx.Account.ID != accountID {
			continue
		}
		when := tx.TransactionDate.Time
		if when.Before(start) || when.After(end) {
			continue
		}
		result = append(result, tx)
	}
	return result, nil
}

// CreateTransaction implements LedgerService. The fixture assigns the id and
// the server timestamps.
func (f *Fixture) CreateTransaction(ctx context.Context, req TransactionRequest) (TransactionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[req.AccountID]
	if !ok {
		return TransactionRecord{}, &StatusError{Status: http.StatusNotFound, Message: "account not found"}
	}
	category, ok := f.categories[req.CategoryID]
	if !ok {
		return TransactionRecord{}, &StatusError{Status: http.StatusNotFound, Message: "category not found"}
	}

	now := domain.NewTimestamp(time.Now())
	id := f.nextID
	f.nextID++

	f.transactions[id] = domain.Transaction{
		ID:              id,
		Account:         account,
		Category:        category,
		Amount:          req.Amount,
		TransactionDate: req.TransactionDate,
		Comment:         req.Comment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return TransactionRecord{
		ID:              id,
		AccountID:       account.ID,
		CategoryID:      category.ID,
		Amount:          req.Amount,
		TransactionDate: req.TransactionDate,
		Comment:         req.Comment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// UpdateTransaction implements LedgerService.
func (f *Fixture) UpdateTransaction(ctx context.Context, id int, req TransactionRequest) (domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.transactions[id]
	if !ok {
		return domain.Transaction{}, &StatusError{Status: http.StatusNotFound, Message: "transaction not found"}
	}
	account, ok := f.accounts[req.AccountID]
	if !ok {
		return domain.Transaction{}, &StatusError{Status: http.StatusNotFound, Message: "account not found"}
	}
	category, ok := f.categories[req.CategoryID]
	if !ok {
		return domain.Transaction{}, &StatusError{Status: http.StatusNotFound, Message: "category not found"}
	}

	updated := domain.Transaction{
		ID:              id,
		Account:         account,
		Category:        category,
		Amount:          req.Amount,
		TransactionDate: req.TransactionDate,
		Comment:         req.Comment,
		CreatedAt:       existing.CreatedAt,
		UpdatedAt:       domain.NewTimestamp(time.Now()),
	}
	f.transactions[id] = updated
	return updated, nil
}

// DeleteTransaction implements LedgerService.
func (f *Fixture) DeleteTransaction(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.transactions[id]; !ok {
		return &StatusError{Status: http.StatusNotFound, Message: "transaction not found"}
	}
	delete(f.transactions, id)
	return nil
}

// Accounts implements LedgerService.
func (f *Fixture) Accounts(ctx context.Context) ([]domain.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// AccountByID implements LedgerService.
func (f *Fixture) AccountByID(ctx context.Context, id int) (domain.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	account, ok := f.accounts[id]
	if !ok {
		return domain.Account{}, &StatusError{Status: http.StatusNotFound, Message: "account not found"}
	}
	return account, nil
}

// Categories implements LedgerService.
func (f *Fixture) Categories(ctx context.Context) ([]domain.Category, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	categories := make([]domain.Category, 0, len(f.categories))
	for _, c := range f.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

// CategoryByID implements LedgerService.
func (f *Fixture) CategoryByID(ctx context.Context, id int) (domain.Category, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	category, ok := f.categories[id]
	if !ok {
		return domain.Category{}, &StatusError{Status: http.StatusNotFound, Message: "category not found"}
	}
	return category, nil
}

// Ensure both implementations satisfy the interface.
var (
	_ LedgerService = (*Client)(nil)
	_ LedgerService = (*Fixture)(nil)
)
