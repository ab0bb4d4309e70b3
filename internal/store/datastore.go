package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/k7t3/horzcv/internal/shared"
)

// DefaultLimit is the number of keys a [DataStore] keeps before evicting.
const DefaultLimit = 32

const (
	catalogKey        = "catalog"
	catalogEntryDelim = ";"
	catalogFieldDelim = "="
)

// Entry is a catalogued key with the time it was last stored or loaded.
type Entry struct {
	Key       string
	Timestamp time.Time
}

// DataStore is a namespaced view over a [WebStorage] holding at most Limit keys.
//
// Values are stored under "<namespace>.<key>". A catalog of keys and their last-touched times is buffered
// in memory and persisted under "<namespace>.catalog" by [DataStore.Flush]. When a new key would exceed
// the limit, the key with the oldest timestamp is evicted.
type DataStore struct {
	storage   WebStorage
	namespace string
	limit     int
	catalog   map[string]time.Time
	now       func() time.Time
}

// NewDataStore creates a store. A non-positive limit uses [DefaultLimit].
func NewDataStore(storage WebStorage, namespace string, limit int) *DataStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &DataStore{
		storage:   storage,
		namespace: namespace,
		limit:     limit,
		catalog:   make(map[string]time.Time),
		now:       time.Now,
	}
}

// WithClock replaces the time source.
func (d *DataStore) WithClock(now func() time.Time) *DataStore {
	d.now = now
	return d
}

func (d *DataStore) Namespace() string { return d.namespace }
func (d *DataStore) Limit() int        { return d.limit }
func (d *DataStore) Size() int         { return len(d.catalog) }

func (d *DataStore) storageKey(key string) string {
	return d.namespace + "." + key
}

func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", shared.ErrInvalidArgument)
	}
	if strings.Contains(key, catalogEntryDelim) {
		return fmt.Errorf("%w: key %q contains %q", shared.ErrInvalidArgument, key, catalogEntryDelim)
	}
	return nil
}

// Initialize replaces the in-memory catalog with the persisted one.
//
// Malformed catalog records are skipped. If the persisted catalog holds more keys than the limit, the
// oldest are evicted.
func (d *DataStore) Initialize() error {
	clear(d.catalog)

	raw, ok, err := d.storage.Get(d.storageKey(catalogKey))
	if err != nil {
		return fmt.Errorf("failed to read catalog for %s: %w", d.namespace, err)
	}
	if !ok || raw == "" {
		return nil
	}

	for _, record := range strings.Split(raw, catalogEntryDelim) {
		i := strings.LastIndex(record, catalogFieldDelim)
		if i <= 0 {
			continue
		}
		ms, err := strconv.ParseInt(record[i+1:], 10, 64)
		if err != nil {
			continue
		}
		if err := d.add(record[:i], time.UnixMilli(ms)); err != nil {
			return err
		}
	}
	return nil
}

// Flush persists the catalog.
func (d *DataStore) Flush() error {
	entries := d.Entries()
	records := make([]string, len(entries))
	for i, e := range entries {
		records[i] = e.Key + catalogFieldDelim + strconv.FormatInt(e.Timestamp.UnixMilli(), 10)
	}
	if err := d.storage.Set(d.storageKey(catalogKey), strings.Join(records, catalogEntryDelim)); err != nil {
		return fmt.Errorf("failed to write catalog for %s: %w", d.namespace, err)
	}
	return nil
}

// Store saves value under key, refreshing its timestamp and evicting the oldest key when full.
func (d *DataStore) Store(key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := d.add(key, d.now()); err != nil {
		return err
	}
	if err := d.storage.Set(d.storageKey(key), value); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Load returns the value for key. A hit refreshes the key's timestamp.
func (d *DataStore) Load(key string) (string, bool, error) {
	v, ok, err := d.storage.Get(d.storageKey(key))
	if err != nil {
		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if ok {
		if _, tracked := d.catalog[key]; tracked {
			d.catalog[key] = d.now()
		}
	}
	return v, ok, nil
}

// Remove deletes key and its value.
func (d *DataStore) Remove(key string) error {
	delete(d.catalog, key)
	if err := d.storage.Remove(d.storageKey(key)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Clear deletes every catalogued key and the persisted catalog. Other namespaces are untouched.
func (d *DataStore) Clear() error {
	for key := range d.catalog {
		if err := d.storage.Remove(d.storageKey(key)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	clear(d.catalog)
	if err := d.storage.Remove(d.storageKey(catalogKey)); err != nil {
		return fmt.Errorf("failed to remove catalog for %s: %w", d.namespace, err)
	}
	return nil
}

// Entries returns the catalog ordered from oldest to newest.
func (d *DataStore) Entries() []Entry {
	out := make([]Entry, 0, len(d.catalog))
	for k, ts := range d.catalog {
		out = append(out, Entry{Key: k, Timestamp: ts})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Key < out[j].Key
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func (d *DataStore) add(key string, ts time.Time) error {
	if _, ok := d.catalog[key]; !ok {
		for len(d.catalog) >= d.limit {
			if err := d.evictOldest(); err != nil {
				return err
			}
		}
	}
	d.catalog[key] = ts
	return nil
}

func (d *DataStore) evictOldest() error {
	entries := d.Entries()
	if len(entries) == 0 {
		return nil
	}
	oldest := entries[0].Key
	delete(d.catalog, oldest)
	if err := d.storage.Remove(d.storageKey(oldest)); err != nil {
		return fmt.Errorf("failed to evict %s: %w", oldest, err)
	}
	return nil
}
