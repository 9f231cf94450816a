package cache

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

// Badger is a disk-backed TTL cache. Expiry uses badger's native entry TTL
// so expired values never come back from Get.
type Badger struct {
	db     *badger.DB
	logger *common.Logger
}

// NewBadger opens (or creates) a badger store at path.
func NewBadger(path string, logger *common.Logger) (*Badger, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("Badger cache opened")
	return &Badger{db: db, logger: logger}, nil
}

// Get returns the value for key if present and unexpired.
func (b *Badger) Get(key string) ([]byte, bool) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			b.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return nil, false
	}
	return value, true
}

// Put stores value under key for ttl. A non-positive ttl stores nothing.
func (b *Badger) Put(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

// Clear removes all entries.
func (b *Badger) Clear() error {
	return b.db.DropAll()
}

// Close closes the underlying store.
func (b *Badger) Close() error {
	return b.db.Close()
}

// Ensure Badger implements Cache
var _ interfaces.Cache = (*Badger)(nil)
