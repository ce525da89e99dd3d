package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dvloznov/ledger-sync/internal/domain"
)

// ErrCorruptSnapshot marks a snapshot file whose container format is not a
// JSON array. Individually malformed records inside a valid array are
// skipped, not reported.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Save serializes the full collection to path as a single atomic write:
// the snapshot is written to a temporary file in the same directory and
// renamed over the destination, so a crash never leaves a partial file.
// A failed save leaves both the in-memory state and any previous snapshot
// untouched.
func (s *TransactionStore) Save(path string) error {
	data, err := json.MarshalIndent(s.All(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load replaces the in-memory collection with the snapshot at path. A missing
// file yields an empty collection, not an error. Records that fail to parse
// are skipped individually; duplicate ids keep the first occurrence. Only an
// unreadable file or a broken container aborts the load, leaving the
// in-memory state untouched.
func (s *TransactionStore) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.ReplaceAll(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("%w: %s", ErrCorruptSnapshot, err)
	}

	transactions := make([]domain.Transaction, 0, len(records))
	for _, record := range records {
		var tx domain.Transaction
		if err := json.Unmarshal(record, &tx); err != nil {
			continue
		}
		transactions = append(transactions, tx)
	}

	s.ReplaceAll(transactions)
	return nil
}
