package ledgersync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/ledger-sync/internal/domain"
	"github.com/dvloznov/ledger-sync/internal/logger"
	"github.com/dvloznov/ledger-sync/internal/remote"
	"github.com/dvloznov/ledger-sync/internal/store"
)

// Service is the single point through which callers read and mutate
// transactions. The remote ledger is the durability authority; the local
// store is a read cache plus an offline-view fallback. Every mutating path
// is remote-first, local-second: the cache never shows a state the remote
// has rejected.
//
// Service owns no persistent state of its own. A mutex serializes every
// mutate+persist sequence, so concurrent calls on one instance are safe;
// ordering between a mutation and a concurrently in-flight Fetch is still
// whatever the remote reports last.
type Service struct {
	mu           sync.Mutex
	ledger       TransactionAPI
	refs         ReferenceAPI
	cache        *store.TransactionStore
	snapshotPath string
}

// NewService wires a Service from its collaborators. snapshotPath is the
// single snapshot file this instance owns.
func NewService(ledger TransactionAPI, refs ReferenceAPI, cache *store.TransactionStore, snapshotPath string) *Service {
	return &Service{
		ledger:       ledger,
		refs:         refs,
		cache:        cache,
		snapshotPath: snapshotPath,
	}
}

// Fetch queries the remote for all transactions of accountID whose date falls
// in [start, end] and replaces the entire local store with the result — a
// full mirror, not an incremental merge. Boundaries are taken as given;
// callers normalize them to start/end of day first. On remote failure the
// local store is untouched and callers may serve Cached instead.
func (s *Service) Fetch(ctx context.Context, accountID int, start, end time.Time) ([]domain.Transaction, error) {
	log := logger.FromContext(ctx)

	fetched, err := s.ledger.TransactionsByPeriod(ctx, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.ReplaceAll(fetched)
	s.persist(log)

	log.Info().
		Int("account_id", accountID).
		Time("start", start).
		Time("end", end).
		Int("count", s.cache.Len()).
		Msg("Replaced local transaction mirror")

	return s.cache.All(), nil
}

// Create submits req to the remote, and only on success resolves the returned
// account and category ids, materializes the transaction, adds it to the
// local store and persists. Any failure leaves the local store unchanged; a
// resolution failure after a successful remote write is reconciled by the
// next full Fetch.
func (s *Service) Create(ctx context.Context, req remote.TransactionRequest) (domain.Transaction, error) {
	log := logger.FromContext(ctx)

	record, err := s.ledger.CreateTransaction(ctx, req)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	tx, err := s.materialize(ctx, record)
	if err != nil {
		return domain.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The server-assigned id is new, so Add cannot collide.
	s.cache.Add(tx)
	s.persist(log)

	log.Info().
		Int("transaction_id", tx.ID).
		Int("account_id", tx.Account.ID).
		Str("amount", tx.Amount.String()).
		Msg("Created transaction")

	return tx, nil
}

// Update submits a full replacement to the remote; on success the returned
// transaction upserts the local entry (remove then add) and the snapshot is
// persisted. On failure the local store is unchanged.
func (s *Service) Update(ctx context.Context, id int, req remote.TransactionRequest) (domain.Transaction, error) {
	log := logger.FromContext(ctx)

	tx, err := s.ledger.UpdateTransaction(ctx, id, req)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(id)
	s.cache.Add(tx)
	s.persist(log)

	log.Info().
		Int("transaction_id", id).
		Str("amount", tx.Amount.String()).
		Msg("Updated transaction")

	return tx, nil
}

// Delete removes the transaction remotely first; only on success is the local
// entry removed and the snapshot persisted. On failure the local entry is
// kept, since it may still exist remotely.
func (s *Service) Delete(ctx context.Context, id int) error {
	log := logger.FromContext(ctx)

	if err := s.ledger.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(id)
	s.persist(log)

	log.Info().Int("transaction_id", id).Msg("Deleted transaction")
	return nil
}

// Cached returns a copy of the current in-memory view without touching the
// remote. This is the offline fallback when Fetch fails.
func (s *Service) Cached() []domain.Transaction {
	return s.cache.All()
}

// Restore replaces the in-memory view with the last persisted snapshot.
// Intended for startup and for offline reads before any successful Fetch.
func (s *Service) Restore(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Load(s.snapshotPath); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	log.Info().
		Str("path", s.snapshotPath).
		Int("count", s.cache.Len()).
		Msg("Restored transactions from snapshot")
	return nil
}

// materialize resolves the foreign ids of a flat create response into full
// account and category objects.
func (s *Service) materialize(ctx context.Context, record remote.TransactionRecord) (domain.Transaction, error) {
	account, err := s.refs.AccountByID(ctx, record.AccountID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("resolve account %d: %w", record.AccountID, err)
	}
	category, err := s.refs.CategoryByID(ctx, record.CategoryID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("resolve category %d: %w", record.CategoryID, err)
	}

	return domain.Transaction{
		ID:              record.ID,
		Account:         account,
		Category:        category,
		Amount:          record.Amount,
		TransactionDate: record.TransactionDate,
		Comment:         record.Comment,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}, nil
}

// persist writes the snapshot. A failed write is reported but never rolls
// back the remote change or the in-memory state; the snapshot stays stale
// until the next successful save. Callers hold s.mu.
func (s *Service) persist(log zerolog.Logger) {
	if err := s.cache.Save(s.snapshotPath); err != nil {
		log.Warn().
			Err(err).
			Str("path", s.snapshotPath).
			Msg("Snapshot write failed, in-memory state kept")
	}
}
