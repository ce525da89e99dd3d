package store

import (
	"sync"

	"github.com/dvloznov/ledger-sync/internal/domain"
)

// TransactionStore holds a deduplicated, identity-indexed collection of
// transactions in memory and mirrors it to an on-disk snapshot on demand.
// It is safe for concurrent use. The invariant is at most one transaction
// per id at any time.
type TransactionStore struct {
	mu    sync.RWMutex
	byID  map[int]domain.Transaction
	order []int // insertion order, keeps reads deterministic
}

// NewTransactionStore creates an empty store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		byID: make(map[int]domain.Transaction),
	}
}

// Add inserts tx unless a transaction with the same id already exists. On a
// duplicate id the existing entry is left unchanged and Add reports false;
// callers wanting upsert semantics Remove then Add.
func (s *TransactionStore) Add(tx domain.Transaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[tx.ID]; exists {
		return false
	}
	s.byID[tx.ID] = tx
	s.order = append(s.order, tx.ID)
	return true
}

// Remove deletes the entry with the given id. Removing an absent id is a
// no-op.
func (s *TransactionStore) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[id]; !exists {
		return
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// ReplaceAll discards the current collection and installs transactions
// wholesale. The input is trusted as authoritative; should it carry duplicate
// ids anyway, the first occurrence wins so the dedup invariant holds.
func (s *TransactionStore) ReplaceAll(transactions []domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[int]domain.Transaction, len(transactions))
	s.order = s.order[:0]
	for _, tx := range transactions {
		if _, exists := s.byID[tx.ID]; exists {
			continue
		}
		s.byID[tx.ID] = tx
		s.order = append(s.order, tx.ID)
	}
}

// Get returns the transaction with the given id, if present.
func (s *TransactionStore) Get(id int) (domain.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.byID[id]
	return tx, ok
}

// All returns a copy of the collection in insertion order. Callers may not
// mutate the store through the returned slice.
func (s *TransactionStore) All() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := make([]domain.Transaction, 0, len(s.order))
	for _, id := range s.order {
		transactions = append(transactions, s.byID[id])
	}
	return transactions
}

// Len returns the number of transactions held.
func (s *TransactionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byID)
}
