// Package eventlog persists a capped audit trail of broadcast events in a
// local BoltDB file. It is a diagnostics aid only: the push path never
// reads from it and it is not a replay buffer.
package eventlog

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Entry is one recorded broadcast.
type Entry struct {
	Seq     uint64          `json:"seq"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

// Store wraps BoltDB to persist the broadcast audit trail.
type Store struct {
	db         *bolt.DB
	bucket     []byte
	maxEntries int
}

// Open initializes the BoltDB file and ensures the bucket exists.
// maxEntries caps the log; older entries are pruned as new ones arrive.
func Open(path string, maxEntries int) (*Store, error) {
	if maxEntries <= 0 {
		maxEntries = 10_000
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	bucket := []byte("events")
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:         db,
		bucket:     bucket,
		maxEntries: maxEntries,
	}, nil
}

// Append records a broadcast under a monotonically increasing sequence
// key and prunes the oldest entries past the cap.
func (s *Store) Append(event string, payload []byte) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		entry := Entry{
			Seq:     seq,
			Event:   event,
			Payload: append(json.RawMessage(nil), payload...),
			At:      time.Now().UTC(),
		}
		value, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if err := b.Put(seqKey(seq), value); err != nil {
			return err
		}

		// Prune from the oldest end while over the cap. KeyN is the
		// committed count, so the fresh put counts as one more.
		count := b.Stats().KeyN + 1
		c := b.Cursor()
		for count > s.maxEntries {
			k, _ := c.First()
			if k == nil {
				break
			}
			if err := b.Delete(k); err != nil {
				return err
			}
			count--
		}
		return nil
	})
}

// Record satisfies the hub's recorder seam.
func (s *Store) Record(event string, payload []byte) {
	_ = s.Append(event, payload)
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// Size returns the number of recorded entries.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
