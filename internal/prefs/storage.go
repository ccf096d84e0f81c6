package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var ErrClosed = errors.New("prefs: storage closed")

// Storage is a durable string key-value medium.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

var bPrefs = []byte("prefs") // key -> raw value

type BoltStorage struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path    string // e.g. ".animedex/prefs.db"
	Timeout time.Duration
}

func OpenBolt(opt OpenOptions) (*BoltStorage, error) {
	if opt.Path == "" {
		return nil, errors.New("prefs: missing path")
	}
	if opt.Timeout <= 0 {
		opt.Timeout = time.Second
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{Timeout: opt.Timeout})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bPrefs)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) Get(key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, ErrClosed
	}
	var (
		val string
		ok  bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bPrefs)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			// v 只在事务内有效
			val, ok = string(v), true
		}
		return nil
	})
	return val, ok, err
}

func (s *BoltStorage) Set(key, value string) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bPrefs)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
}

func (s *BoltStorage) Delete(key string) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bPrefs)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

func (s *BoltStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// MemoryStorage keeps values in a map. Setting Fail makes writes error,
// which stands in for a full or unavailable medium.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
	Fail bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

var errUnavailable = errors.New("prefs: storage unavailable")

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errUnavailable
	}
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errUnavailable
	}
	delete(m.data, key)
	return nil
}
