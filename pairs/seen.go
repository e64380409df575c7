package pairs

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// Seen remembers pair keys. Add reports whether key was new.
type Seen interface {
	Add(ctx context.Context, key string) (bool, error)
}

// Key identifies a cleaned pair by its content
func Key(p Pair) string {
	h := sha1.New()
	h.Write([]byte(p.Buggy))
	h.Write([]byte{0})
	h.Write([]byte(p.Fixed))
	return hex.EncodeToString(h.Sum(nil))
}

// MemorySeen is a Seen that lasts for one run
type MemorySeen struct {
	keys map[string]struct{}
}

// NewMemorySeen returns an empty MemorySeen
func NewMemorySeen() *MemorySeen {
	return &MemorySeen{keys: make(map[string]struct{})}
}

// Add implements Seen
func (m *MemorySeen) Add(_ context.Context, key string) (bool, error) {
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = struct{}{}
	return true, nil
}

// Len is the number of keys held
func (m *MemorySeen) Len() int {
	return len(m.keys)
}

// SQLSeen is a Seen backed by the seen_pairs table, so duplicates are also
// dropped across runs
type SQLSeen struct {
	db *sql.DB
}

// NewSQLSeen returns a SQLSeen over a migrated database
func NewSQLSeen(db *sql.DB) *SQLSeen {
	return &SQLSeen{db: db}
}

// Add implements Seen
func (s *SQLSeen) Add(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO seen_pairs (key) VALUES (?)`, key)
	if err != nil {
		return false, errors.Wrap(err, "failed to record pair key")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read rows affected")
	}
	return n == 1, nil
}
