package session

import (
	"fmt"

	"go.etcd.io/bbolt"
)

var boltBucket = []byte("farmaplex_session")

// Bolt is a Storage backend over a local bbolt file. Suited to a single
// workstation: the session survives process restarts without any external
// service.
type Bolt struct {
	db *bbolt.DB
}

// NewBolt wraps an already-open bbolt database.
func NewBolt(db *bbolt.DB) *Bolt {
	return &Bolt{db: db}
}

// OpenBolt opens (or creates) a bbolt database at path and returns a
// backend over it. The caller owns the returned Bolt and must Close it.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return NewBolt(db), nil
}

// Close closes the underlying database.
func (s *Bolt) Close() error {
	return s.db.Close()
}

// Get returns the value for key.
func (s *Bolt) Get(key string) (string, bool, error) {
	var (
		val   string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(boltBucket)
		if b == nil {
			return nil
		}
		if data := b.Get([]byte(key)); data != nil {
			val = string(data)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return val, found, nil
}

// SetAll writes every pair in one transaction.
func (s *Bolt) SetAll(pairs map[string]string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		for k, v := range pairs {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// DeleteAll removes the given keys in one transaction.
func (s *Bolt) DeleteAll(keys ...string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(boltBucket)
		if b == nil {
			return nil
		}
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
