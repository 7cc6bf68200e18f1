package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/berrythewa/cliprecall/internal/types"
	"github.com/berrythewa/cliprecall/pkg/compression"

	"go.etcd.io/bbolt"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	clipboardBucket = "clipboard"
	payloadBucket   = "payloads"
	settingsBucket  = "settings"

	defaultRecentLimit = 50
	defaultOpenTimeout = 1 * time.Second
)

// InvalidID is returned by AddItem when the store is not open.
const InvalidID int64 = -1

// ErrNotFound is returned when an entry id is not in the store.
var ErrNotFound = errors.New("entry not found")

// HistoryStore is the set of operations the watcher and daemon need from
// the history store.
type HistoryStore interface {
	AddItem(entry *types.Entry) (int64, error)
	GetRecentItems(limit int) ([]*types.Entry, error)
	GetItem(id int64) (*types.Entry, error)
	DeleteItem(id int64) error
	ClearAll() error
	Count() (int, error)
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
	GetSettings() (map[string]string, error)
	HistoryLimit() int
	Path() string
	Close() error
}

// BoltStorage keeps clipboard history and settings in a single bbolt file.
// Entry metadata lives in the clipboard bucket as JSON, payloads in the
// payloads bucket under the same key so that eviction and dedup never have
// to decode image bytes.
type BoltStorage struct {
	mu     sync.Mutex
	db     *bbolt.DB
	path   string
	logger *zap.Logger
}

// StorageConfig holds configuration for BoltStorage initialization
type StorageConfig struct {
	DBPath  string
	Logger  *zap.Logger
	Timeout time.Duration
}

// entryRecord is the persisted form of an entry's metadata.
type entryRecord struct {
	ID         int64      `json:"id"`
	Kind       types.Kind `json:"kind"`
	Timestamp  int64      `json:"timestamp"`
	Preview    string     `json:"preview"`
	Size       int        `json:"size"`
	Digest     string     `json:"digest,omitempty"`
	Compressed bool       `json:"compressed,omitempty"`
}

var _ HistoryStore = (*BoltStorage)(nil)

// NewBoltStorage opens (or creates) the store file, creates the buckets and
// seeds default settings that are not yet present.
func NewBoltStorage(config StorageConfig) (*BoltStorage, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultOpenTimeout
	}

	db, err := bbolt.Open(config.DBPath, 0600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{clipboardBucket, payloadBucket, settingsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return seedDefaults(tx.Bucket([]byte(settingsBucket)))
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("BoltStorage initialized", zap.String("db_path", config.DBPath))

	return &BoltStorage{
		db:     db,
		path:   config.DBPath,
		logger: logger,
	}, nil
}

func seedDefaults(b *bbolt.Bucket) error {
	for key, value := range types.DefaultSettings() {
		if len(b.Get([]byte(key))) > 0 {
			continue
		}
		if err := b.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}
	return nil
}

// Path returns the database file path.
func (s *BoltStorage) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// AddItem removes any entry the new one duplicates, inserts it, evicts
// everything beyond the history limit and commits, all in one transaction.
// It returns the assigned id, or InvalidID if the store is not open.
func (s *BoltStorage) AddItem(entry *types.Entry) (int64, error) {
	if s == nil {
		return InvalidID, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return InvalidID, nil
	}
	if entry == nil || entry.Payload == nil {
		return InvalidID, errors.New("entry has no payload")
	}

	rec, payload, err := encodeEntry(entry)
	if err != nil {
		return InvalidID, err
	}

	var (
		id               int64
		removed, evicted int
	)
	err = s.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket([]byte(clipboardBucket))
		payloads := tx.Bucket([]byte(payloadBucket))

		dups, err := findDuplicates(meta, payloads, entry, rec)
		if err != nil {
			return err
		}
		for _, key := range dups {
			if err := deleteKey(meta, payloads, key); err != nil {
				return err
			}
		}
		removed = len(dups)

		seq, err := meta.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate id: %w", err)
		}
		id = int64(seq)
		rec.ID = id

		encoded, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		key := itob(seq)
		if err := meta.Put(key, encoded); err != nil {
			return fmt.Errorf("failed to store entry: %w", err)
		}
		if err := payloads.Put(key, payload); err != nil {
			return fmt.Errorf("failed to store payload: %w", err)
		}

		limit := types.ParseHistoryLimit(string(tx.Bucket([]byte(settingsBucket)).Get([]byte(types.SettingHistoryLimit))))
		evicted, err = evict(meta, payloads, limit)
		return err
	})
	if err != nil {
		return InvalidID, err
	}

	entry.ID = id
	s.logger.Debug("Entry added",
		zap.Int64("id", id),
		zap.String("kind", string(rec.Kind)),
		zap.Int("size", rec.Size),
		zap.Int("duplicates_removed", removed),
		zap.Int("evicted", evicted))

	return id, nil
}

// findDuplicates returns the keys of stored entries with the same kind and
// dedup key as entry.
func findDuplicates(meta, payloads *bbolt.Bucket, entry *types.Entry, rec *entryRecord) ([][]byte, error) {
	var keys [][]byte
	text, isText := entry.Text()

	err := meta.ForEach(func(k, v []byte) error {
		var existing entryRecord
		if err := json.Unmarshal(v, &existing); err != nil {
			return nil // skip invalid entries
		}
		if existing.Kind != rec.Kind {
			return nil
		}
		if !isText {
			if existing.Preview == rec.Preview {
				keys = append(keys, append([]byte(nil), k...))
			}
			return nil
		}
		if existing.Digest != rec.Digest {
			return nil
		}
		stored, err := decodePayload(&existing, payloads.Get(k))
		if err != nil {
			return err
		}
		if string(stored) == text {
			keys = append(keys, append([]byte(nil), k...))
		}
		return nil
	})
	return keys, err
}

// evict deletes every entry that is not among the limit most recent.
func evict(meta, payloads *bbolt.Bucket, limit int) (int, error) {
	records, err := loadRecords(meta)
	if err != nil {
		return 0, err
	}
	if len(records) <= limit {
		return 0, nil
	}
	sortNewestFirst(records)
	for _, rec := range records[limit:] {
		if err := deleteKey(meta, payloads, itob(uint64(rec.ID))); err != nil {
			return 0, err
		}
	}
	return len(records) - limit, nil
}

// GetRecentItems returns up to limit entries, newest first. A non-positive
// limit means the default of 50.
func (s *BoltStorage) GetRecentItems(limit int) ([]*types.Entry, error) {
	if s == nil {
		return []*types.Entry{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return []*types.Entry{}, nil
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	entries := []*types.Entry{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket([]byte(clipboardBucket))
		payloads := tx.Bucket([]byte(payloadBucket))

		records, err := loadRecords(meta)
		if err != nil {
			return err
		}
		sortNewestFirst(records)
		if len(records) > limit {
			records = records[:limit]
		}
		for _, rec := range records {
			entry, err := decodeEntry(rec, payloads.Get(itob(uint64(rec.ID))))
			if err != nil {
				s.logger.Warn("Failed to decode entry", zap.Int64("id", rec.ID), zap.Error(err))
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get recent items: %w", err)
	}
	return entries, nil
}

// GetItem returns a single entry by id.
func (s *BoltStorage) GetItem(id int64) (*types.Entry, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrNotFound
	}

	var entry *types.Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		key := itob(uint64(id))
		v := tx.Bucket([]byte(clipboardBucket)).Get(key)
		if v == nil {
			return ErrNotFound
		}
		var rec entryRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal entry %d: %w", id, err)
		}
		var err error
		entry, err = decodeEntry(&rec, tx.Bucket([]byte(payloadBucket)).Get(key))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteItem removes an entry. Deleting an unknown id is not an error.
func (s *BoltStorage) DeleteItem(id int64) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return deleteKey(tx.Bucket([]byte(clipboardBucket)), tx.Bucket([]byte(payloadBucket)), itob(uint64(id)))
	})
	if err != nil {
		return fmt.Errorf("failed to delete entry %d: %w", id, err)
	}
	s.logger.Debug("Entry deleted", zap.Int64("id", id))
	return nil
}

// ClearAll removes every entry. Settings and the id sequence are kept.
func (s *BoltStorage) ClearAll() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}

	var cleared int
	err := s.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket([]byte(clipboardBucket))
		payloads := tx.Bucket([]byte(payloadBucket))

		var keys [][]byte
		if err := meta.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		}); err != nil {
			return err
		}
		for _, k := range keys {
			if err := deleteKey(meta, payloads, k); err != nil {
				return err
			}
		}
		cleared = len(keys)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.logger.Info("Clipboard history cleared", zap.Int("deleted_items", cleared))
	return nil
}

// Count returns the number of stored entries.
func (s *BoltStorage) Count() (int, error) {
	if s == nil {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return 0, nil
	}

	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(clipboardBucket)).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Close syncs and closes the database. Further calls on the store behave
// as if it had never been opened.
func (s *BoltStorage) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}

	err := multierr.Append(s.db.Sync(), s.db.Close())
	s.db = nil
	s.logger.Debug("BoltStorage closed", zap.String("db_path", s.path))
	return err
}

func loadRecords(meta *bbolt.Bucket) ([]*entryRecord, error) {
	var records []*entryRecord
	err := meta.ForEach(func(k, v []byte) error {
		var rec entryRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return nil // skip invalid entries
		}
		records = append(records, &rec)
		return nil
	})
	return records, err
}

func sortNewestFirst(records []*entryRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp != records[j].Timestamp {
			return records[i].Timestamp > records[j].Timestamp
		}
		return records[i].ID > records[j].ID
	})
}

func deleteKey(meta, payloads *bbolt.Bucket, key []byte) error {
	if err := meta.Delete(key); err != nil {
		return err
	}
	return payloads.Delete(key)
}

func encodeEntry(entry *types.Entry) (*entryRecord, []byte, error) {
	rec := &entryRecord{
		Kind:      entry.Kind(),
		Timestamp: entry.CreatedAt.UnixMilli(),
		Preview:   entry.Preview,
		Size:      entry.Payload.Size(),
	}

	switch p := entry.Payload.(type) {
	case types.TextPayload:
		sum := sha256.Sum256([]byte(p.Content))
		rec.Digest = hex.EncodeToString(sum[:])
		data := []byte(p.Content)
		if compression.ShouldCompress(len(data)) {
			compressed, err := compression.Compress(data)
			if err != nil {
				return nil, nil, err
			}
			rec.Compressed = true
			data = compressed
		}
		return rec, data, nil
	case types.ImagePayload:
		return rec, bytes.Clone(p.Data), nil
	default:
		return nil, nil, fmt.Errorf("unsupported payload %T", entry.Payload)
	}
}

func decodePayload(rec *entryRecord, raw []byte) ([]byte, error) {
	if !rec.Compressed {
		return bytes.Clone(raw), nil
	}
	return compression.Decompress(raw)
}

func decodeEntry(rec *entryRecord, raw []byte) (*types.Entry, error) {
	data, err := decodePayload(rec, raw)
	if err != nil {
		return nil, err
	}

	entry := &types.Entry{
		ID:        rec.ID,
		CreatedAt: time.UnixMilli(rec.Timestamp),
		Preview:   rec.Preview,
	}
	switch rec.Kind {
	case types.KindText:
		entry.Payload = types.TextPayload{Content: string(data)}
	case types.KindImage:
		entry.Payload = types.ImagePayload{Data: data}
	default:
		return nil, fmt.Errorf("unknown entry kind %q", rec.Kind)
	}
	return entry, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
