package bboltstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/hypergopher/inkwell"
)

const (
	bboltFile     = "inkwell.db"
	bucketStorage = "storage"
)

// BBoltStore implements inkwell.KVStore on a bbolt database file in a data directory.
type BBoltStore struct {
	boltIndex *bbolt.DB
	dataDir   string // dataDir is the directory where the bbolt file is stored.
	logger    *slog.Logger
}

// New creates a new BBoltStore. Call Init before use.
func New(dataDir string, logger *slog.Logger) *BBoltStore {
	if logger == nil {
		logger = defaultLogger()
	}

	return &BBoltStore{
		dataDir: dataDir,
		logger:  logger,
	}
}

// Path returns the path of the bbolt file
func (bbs *BBoltStore) Path() string {
	return filepath.Join(bbs.dataDir, bboltFile)
}

// Init opens the bbolt file, creating it and its bucket if necessary.
func (bbs *BBoltStore) Init() error {
	if err := os.MkdirAll(bbs.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	boltIndex, err := bbs.initBolt()
	if err != nil {
		return fmt.Errorf("failed to initialize bbolt: %w", err)
	}
	bbs.boltIndex = boltIndex

	return nil
}

// Get returns a copy of the value stored under key, or an error wrapping inkwell.ErrKeyNotFound.
func (bbs *BBoltStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := bbs.boltIndex.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketStorage))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		stored := b.Get([]byte(key))
		if stored == nil {
			return inkwell.ErrKeyNotFound
		}

		// The slice is only valid for the life of the transaction
		value = append([]byte(nil), stored...)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error getting %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key in the storage bucket.
func (bbs *BBoltStore) Set(_ context.Context, key string, value []byte) error {
	err := bbs.boltIndex.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketStorage))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		return b.Put([]byte(key), value)
	})

	if err != nil {
		return fmt.Errorf("failed to put %s in bucket: %w", key, err)
	}

	bbs.logger.Debug("stored value", slog.String("key", key), slog.Int("bytes", len(value)))
	return nil
}

// Delete removes key from the storage bucket. A missing key is not an error.
func (bbs *BBoltStore) Delete(_ context.Context, key string) error {
	err := bbs.boltIndex.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketStorage))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		return b.Delete([]byte(key))
	})

	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close closes the bbolt file if it is open.
func (bbs *BBoltStore) Close() error {
	if bbs.boltIndex != nil {
		return bbs.boltIndex.Close()
	}
	return nil
}

func (bbs *BBoltStore) initBolt() (*bbolt.DB, error) {
	boltIndex, err := bbolt.Open(bbs.Path(), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt index: %w", err)
	}

	err = boltIndex.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketStorage)); err != nil {
			return fmt.Errorf("failed to create storage bucket: %w", err)
		}
		return nil
	})

	if err != nil {
		_ = boltIndex.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return boltIndex, nil
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelDebug,
		}))
}
