// Package activationlog persists a rotating record of each invocation's
// ranked output. The engine itself is unaware of this log; cmd/skillrank
// plays the role of the hosting wrapper, writing one entry per invocation
// after the engine has already produced its result.
package activationlog

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketActivations = "activations"

// maxEntries bounds the log at roughly 10k entries, rotating out the
// oldest once the bound is exceeded.
const maxEntries = 10000

// Entry is one logged invocation.
type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	PromptHash  string    `json:"prompt_hash"`
	Mode        string    `json:"mode"`
	TopElements []string  `json:"top_elements"`
}

// Log wraps a bbolt database dedicated to activation history.
type Log struct {
	db *bolt.DB
}

// Open creates or opens the activation log at path, ensuring its bucket
// exists. An empty path disables logging; callers should check for a nil
// *Log before calling Append.
func Open(path string) (*Log, error) {
	if path == "" {
		return nil, nil
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open activation log: %w", err)
	}
	l := &Log{db: db}
	if err := l.ensureBucket(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Log) ensureBucket() error {
	return l.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketActivations))
		return err
	})
}

// Close releases the underlying database handle. Safe to call on a nil
// *Log (logging disabled).
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	return l.db.Close()
}

// Append writes one entry, auto-assigning a monotonically increasing key so
// iteration order matches insertion order, then rotates out the oldest
// entries past maxEntries. Safe to call on a nil *Log (no-op).
func (l *Log) Append(e Entry) error {
	if l == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal activation entry: %w", err)
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketActivations))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(seqKey(seq), data); err != nil {
			return err
		}
		return rotate(b)
	})
}

// rotate counts keys with a cursor rather than Bucket.Stats, which only
// sees committed pages and so misses entries put in the same transaction.
func rotate(b *bolt.Bucket) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for i := 0; i < len(keys)-maxEntries; i++ {
		if err := b.Delete(keys[i]); err != nil {
			return err
		}
	}
	return nil
}

func seqKey(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}
