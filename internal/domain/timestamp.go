package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the canonical text encoding for every timestamp the
// module writes: RFC 3339 UTC with millisecond precision. The ledger backend
// emits both fractional and whole-second variants, so decoding accepts either.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is a point in time carried on the ledger wire format and in the
// local snapshot file.
type Timestamp struct {
	time.Time
}

// NewTimestamp builds a Timestamp from t, truncated to the millisecond
// precision the canonical encoding preserves.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Millisecond)}
}

// ParseTimestamp parses an RFC 3339 string with or without fractional seconds.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return NewTimestamp(t), nil
}

// String returns the canonical encoding.
func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

// Equal reports whether two timestamps denote the same instant.
func (t Timestamp) Equal(other Timestamp) bool {
	return t.Time.Equal(other.Time)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// StartOfDay returns midnight of t's day in t's location. Callers normalize
// fetch range boundaries with this before handing them to the sync service.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
