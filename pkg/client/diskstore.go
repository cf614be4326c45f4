package client

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/store"
	"github.com/syndtr/goleveldb/leveldb"
)

// DiskStoreType identifies the on-disk layer in a gocache chain
const DiskStoreType = "leveldb"

// expiry header: unix nanoseconds, zero for entries that never expire
const expiryLen = 8

// DiskStore is a gocache store backed by a LevelDB database, so cached
// entries outlive the process. Values must be []byte. Tags are not tracked.
type DiskStore struct {
	db  *leveldb.DB
	now func() time.Time
}

// OpenDiskStore opens or creates the store in dir. LevelDB holds a file
// lock, so a second process opening the same dir gets an error.
func OpenDiskStore(dir string) (*DiskStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", dir, err)
	}
	return &DiskStore{db: db, now: time.Now}, nil
}

// Get returns the value for key unless it is missing or expired
func (s *DiskStore) Get(ctx context.Context, key any) (any, error) {
	value, _, err := s.GetWithTTL(ctx, key)
	return value, err
}

// GetWithTTL returns the value for key and its remaining lifetime
func (s *DiskStore) GetWithTTL(_ context.Context, key any) (any, time.Duration, error) {
	k := diskKey(key)

	raw, err := s.db.Get(k, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, 0, store.NotFoundWithCause(err)
	}
	if err != nil {
		return nil, 0, err
	}
	if len(raw) < expiryLen {
		_ = s.db.Delete(k, nil)
		return nil, 0, store.NotFoundWithCause(errors.New("truncated cache entry"))
	}

	var ttl time.Duration
	if expires := int64(binary.BigEndian.Uint64(raw[:expiryLen])); expires != 0 {
		ttl = time.Unix(0, expires).Sub(s.now())
		if ttl <= 0 {
			_ = s.db.Delete(k, nil)
			return nil, 0, store.NotFoundWithCause(errors.New("cache entry expired"))
		}
	}

	value := make([]byte, len(raw)-expiryLen)
	copy(value, raw[expiryLen:])
	return value, ttl, nil
}

// Set stores value under key, honouring store.WithExpiration
func (s *DiskStore) Set(_ context.Context, key any, value any, options ...store.Option) error {
	data, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("disk store: unsupported value type %T", value)
	}

	opts := store.ApplyOptions(options...)

	var expires int64
	if opts.Expiration > 0 {
		expires = s.now().Add(opts.Expiration).UnixNano()
	}

	raw := make([]byte, expiryLen+len(data))
	binary.BigEndian.PutUint64(raw[:expiryLen], uint64(expires))
	copy(raw[expiryLen:], data)

	return s.db.Put(diskKey(key), raw, nil)
}

// Delete removes key
func (s *DiskStore) Delete(_ context.Context, key any) error {
	return s.db.Delete(diskKey(key), nil)
}

// Invalidate is a no-op since tags are not stored
func (s *DiskStore) Invalidate(context.Context, ...store.InvalidateOption) error {
	return nil
}

// Clear removes every entry
func (s *DiskStore) Clear(context.Context) error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return err
	}
	return s.db.Write(batch, nil)
}

// GetType returns DiskStoreType
func (s *DiskStore) GetType() string {
	return DiskStoreType
}

// Close releases the database and its file lock
func (s *DiskStore) Close() error {
	return s.db.Close()
}

func diskKey(key any) []byte {
	if k, ok := key.(string); ok {
		return []byte(k)
	}
	return []byte(fmt.Sprint(key))
}
