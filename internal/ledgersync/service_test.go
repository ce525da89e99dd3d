package ledgersync

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/ledger-sync/internal/domain"
	"github.com/dvloznov/ledger-sync/internal/remote"
	"github.com/dvloznov/ledger-sync/internal/store"
)

// mockLedger is a canned TransactionAPI for driving the service.
type mockLedger struct {
	fetchResult  []domain.Transaction
	fetchErr     error
	createRecord remote.TransactionRecord
	createErr    error
	updateResult domain.Transaction
	updateErr    error
	deleteErr    error
}

func (m *mockLedger) TransactionsByPeriod(ctx context.Context, accountID int, start, end time.Time) ([]domain.Transaction, error) {
	return m.fetchResult, m.fetchErr
}

func (m *mockLedger) CreateTransaction(ctx context.Context, req remote.TransactionRequest) (remote.TransactionRecord, error) {
	return m.createRecord, m.createErr
}

func (m *mockLedger) UpdateTransaction(ctx context.Context, id int, req remote.TransactionRequest) (domain.Transaction, error) {
	return m.updateResult, m.updateErr
}

func (m *mockLedger) DeleteTransaction(ctx context.Context, id int) error {
	return m.deleteErr
}

// mockRefs is a canned ReferenceAPI.
type mockRefs struct {
	account     domain.Account
	accountErr  error
	category    domain.Category
	categoryErr error
}

func (m *mockRefs) AccountByID(ctx context.Context, id int) (domain.Account, error) {
	return m.account, m.accountErr
}

func (m *mockRefs) CategoryByID(ctx context.Context, id int) (domain.Category, error) {
	return m.category, m.categoryErr
}

func testDate(t *testing.T) domain.Timestamp {
	t.Helper()
	ts, err := domain.ParseTimestamp("2025-06-14T12:34:56.000Z")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return ts
}

func testAccount() domain.Account {
	return domain.Account{ID: 1, Name: "Checking", Balance: decimal.RequireFromString("100.00"), Currency: "USD"}
}

func testCategory() domain.Category {
	return domain.Category{ID: 2, Name: "Groceries", Emoji: '🛒', IsIncome: false}
}

func testTransaction(t *testing.T, id int) domain.Transaction {
	t.Helper()
	return domain.Transaction{
		ID:              id,
		Account:         testAccount(),
		Category:        testCategory(),
		Amount:          decimal.RequireFromString("50.00"),
		TransactionDate: testDate(t),
		CreatedAt:       testDate(t),
		UpdatedAt:       testDate(t),
	}
}

func newTestService(t *testing.T, ledger TransactionAPI, refs ReferenceAPI) (*Service, *store.TransactionStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.json")
	cache := store.NewTransactionStore()
	return NewService(ledger, refs, cache, path), cache, path
}

func TestCreateAddsToStoreOnRemoteSuccess(t *testing.T) {
	ledger := &mockLedger{
		createRecord: remote.TransactionRecord{
			ID:              101,
			AccountID:       1,
			CategoryID:      2,
			Amount:          decimal.RequireFromString("50.00"),
			TransactionDate: testDate(t),
			CreatedAt:       testDate(t),
			UpdatedAt:       testDate(t),
		},
	}
	refs := &mockRefs{account: testAccount(), category: testCategory()}
	svc, cache, _ := newTestService(t, ledger, refs)

	tx, err := svc.Create(context.Background(), remote.TransactionRequest{AccountID: 1, CategoryID: 2})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if tx.ID != 101 {
		t.Errorf("expected server-assigned id 101, got %d", tx.ID)
	}
	if tx.Account.Name != "Checking" || tx.Category.Name != "Groceries" {
		t.Errorf("expected resolved references, got %+v", tx)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached transaction, got %d", cache.Len())
	}
	if _, ok := cache.Get(101); !ok {
		t.Error("expected id 101 in the store")
	}
}

func TestCreateRemoteFailureLeavesStoreEmpty(t *testing.T) {
	ledger := &mockLedger{createErr: remote.ErrUnavailable}
	svc, cache, _ := newTestService(t, ledger, &mockRefs{})

	_, err := svc.Create(context.Background(), remote.TransactionRequest{AccountID: 1, CategoryID: 2})
	if !errors.Is(err, remote.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}

	if cache.Len() != 0 {
		t.Errorf("failed create must not touch the store, got %d entries", cache.Len())
	}
}

func TestCreateResolutionFailureLeavesStoreEmpty(t *testing.T) {
	ledger := &mockLedger{
		createRecord: remote.TransactionRecord{ID: 101, AccountID: 1, CategoryID: 2},
	}
	refs := &mockRefs{accountErr: remote.ErrNotFound}
	svc, cache, _ := newTestService(t, ledger, refs)

	_, err := svc.Create(context.Background(), remote.TransactionRequest{AccountID: 1, CategoryID: 2})
	if !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("unresolved create must not touch the store, got %d entries", cache.Len())
	}
}

func TestFetchReplacesEntireStore(t *testing.T) {
	ledger := &mockLedger{
		fetchResult: []domain.Transaction{
			testTransaction(t, 2),
			testTransaction(t, 3),
			testTransaction(t, 4),
		},
	}
	svc, cache, path := newTestService(t, ledger, &mockRefs{})

	for _, id := range []int{1, 2, 3} {
		cache.Add(testTransaction(t, id))
	}

	result, err := svc.Fetch(context.Background(), 1, time.Now().AddDate(0, 0, -1), time.Now())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(result) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(result))
	}
	if _, ok := cache.Get(1); ok {
		t.Error("id 1 must be gone after the full mirror even though it was never deleted")
	}
	for _, id := range []int{2, 3, 4} {
		if _, ok := cache.Get(id); !ok {
			t.Errorf("id %d missing after fetch", id)
		}
	}

	// The fetch persisted a snapshot a fresh store can read back.
	restored := store.NewTransactionStore()
	if err := restored.Load(path); err != nil {
		t.Fatalf("Load snapshot failed: %v", err)
	}
	if restored.Len() != 3 {
		t.Errorf("expected snapshot with 3 transactions, got %d", restored.Len())
	}
}

func TestFetchFailureLeavesStoreUntouched(t *testing.T) {
	ledger := &mockLedger{fetchErr: remote.ErrUnavailable}
	svc, cache, _ := newTestService(t, ledger, &mockRefs{})

	cache.Add(testTransaction(t, 1))

	_, err := svc.Fetch(context.Background(), 1, time.Now().AddDate(0, 0, -1), time.Now())
	if !errors.Is(err, remote.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}

	// The cached view stays serveable as the offline fallback.
	cached := svc.Cached()
	if len(cached) != 1 || cached[0].ID != 1 {
		t.Errorf("expected cached fallback with id 1, got %+v", cached)
	}
}

func TestUpdateUpsertsLocalEntry(t *testing.T) {
	updated := testTransaction(t, 5)
	comment := "after update"
	updated.Comment = &comment

	ledger := &mockLedger{updateResult: updated}
	svc, cache, _ := newTestService(t, ledger, &mockRefs{})

	cache.Add(testTransaction(t, 5))

	got, err := svc.Update(context.Background(), 5, remote.TransactionRequest{AccountID: 1, CategoryID: 2})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Comment == nil || *got.Comment != "after update" {
		t.Errorf("expected the remote's returned value, got %+v", got.Comment)
	}

	if cache.Len() != 1 {
		t.Fatalf("upsert must keep exactly one entry, got %d", cache.Len())
	}
	stored, _ := cache.Get(5)
	if stored.Comment == nil || *stored.Comment != "after update" {
		t.Error("store must hold the replaced entry, not the original")
	}
}

func TestUpdateFailureLeavesStoreUnchanged(t *testing.T) {
	ledger := &mockLedger{updateErr: &remote.StatusError{Status: 500, Message: "boom"}}
	svc, cache, _ := newTestService(t, ledger, &mockRefs{})

	original := testTransaction(t, 5)
	cache.Add(original)

	_, err := svc.Update(context.Background(), 5, remote.TransactionRequest{})
	var statusErr *remote.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got: %v", err)
	}

	stored, ok := cache.Get(5)
	if !ok || !stored.Equal(original) {
		t.Error("failed update must leave the local entry unchanged")
	}
}

func TestDeleteFailureKeepsLocalEntry(t *testing.T) {
	ledger := &mockLedger{deleteErr: remote.ErrUnavailable}
	svc, cache, _ := newTestService(t, ledger, &mockRefs{})

	cache.Add(testTransaction(t, 5))

	err := svc.Delete(context.Background(), 5)
	if !errors.Is(err, remote.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}
	if _, ok := cache.Get(5); !ok {
		t.Error("id 5 must stay present locally: it may still exist remotely")
	}
}

func TestDeleteRemovesLocalEntryOnSuccess(t *testing.T) {
	ledger := &mockLedger{}
	svc, cache, _ := newTestService(t, ledger, &mockRefs{})

	cache.Add(testTransaction(t, 5))

	if err := svc.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", cache.Len())
	}
}

func TestPersistenceFailureDoesNotFailMutation(t *testing.T) {
	ledger := &mockLedger{
		createRecord: remote.TransactionRecord{ID: 101, AccountID: 1, CategoryID: 2,
			Amount: decimal.RequireFromString("50.00"), TransactionDate: testDate(t),
			CreatedAt: testDate(t), UpdatedAt: testDate(t)},
	}
	refs := &mockRefs{account: testAccount(), category: testCategory()}

	// A snapshot path inside a directory that does not exist makes every
	// save fail while the remote mutation succeeds.
	cache := store.NewTransactionStore()
	svc := NewService(ledger, refs, cache, filepath.Join(t.TempDir(), "missing", "transactions.json"))

	tx, err := svc.Create(context.Background(), remote.TransactionRequest{AccountID: 1, CategoryID: 2})
	if err != nil {
		t.Fatalf("Create must not fail on a stale snapshot, got: %v", err)
	}
	if tx.ID != 101 {
		t.Errorf("expected id 101, got %d", tx.ID)
	}
	if cache.Len() != 1 {
		t.Errorf("in-memory mutation must survive the failed save, got %d entries", cache.Len())
	}
}

func TestRestoreReadsLastSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.json")

	seed := store.NewTransactionStore()
	seed.Add(testTransaction(t, 7))
	if err := seed.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	svc := NewService(&mockLedger{}, &mockRefs{}, store.NewTransactionStore(), path)
	if err := svc.Restore(context.Background()); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	cached := svc.Cached()
	if len(cached) != 1 || cached[0].ID != 7 {
		t.Errorf("expected restored transaction 7, got %+v", cached)
	}
}
