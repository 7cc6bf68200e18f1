package storage

import (
	"fmt"

	"github.com/berrythewa/cliprecall/internal/types"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// GetSetting returns the stored value for key and whether it exists.
func (s *BoltStorage) GetSetting(key string) (string, bool, error) {
	if s == nil {
		return "", false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return "", false, nil
	}

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(settingsBucket)).Get([]byte(key))
		if v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, found, nil
}

// SetSetting stores value under key and commits immediately.
func (s *BoltStorage) SetSetting(key, value string) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(settingsBucket)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	s.logger.Info("Setting updated", zap.String("key", key), zap.String("value", value))
	return nil
}

// GetSettings returns every stored setting.
func (s *BoltStorage) GetSettings() (map[string]string, error) {
	settings := map[string]string{}
	if s == nil {
		return settings, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return settings, nil
	}

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(settingsBucket)).ForEach(func(k, v []byte) error {
			settings[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return settings, nil
}

// HistoryLimit returns the number of entries kept after each insert.
func (s *BoltStorage) HistoryLimit() int {
	value, _, err := s.GetSetting(types.SettingHistoryLimit)
	if err != nil {
		s.logger.Warn("Failed to read history limit, using default", zap.Error(err))
	}
	return types.ParseHistoryLimit(value)
}
