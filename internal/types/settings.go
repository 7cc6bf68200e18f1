package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Recognised setting keys.
const (
	SettingGlobalShortcut  = "globalShortcut"
	SettingHistoryLimit    = "historyLimit"
	SettingLaunchAtStartup = "launchAtStartup"
)

const (
	DefaultGlobalShortcut = "CommandOrControl+Shift+V"
	DefaultHistoryLimit   = 50
	MinHistoryLimit       = 10
	MaxHistoryLimit       = 250
)

// DefaultSettings returns the values seeded into a fresh store.
func DefaultSettings() map[string]string {
	return map[string]string{
		SettingGlobalShortcut:  DefaultGlobalShortcut,
		SettingHistoryLimit:    strconv.Itoa(DefaultHistoryLimit),
		SettingLaunchAtStartup: "true",
	}
}

// ValidateSetting checks a user-supplied setting and returns its
// normalised form.
func ValidateSetting(key, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch key {
	case SettingGlobalShortcut:
		if value == "" {
			return "", fmt.Errorf("%s must not be empty", key)
		}
		return value, nil
	case SettingHistoryLimit:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("%s must be an integer: %w", key, err)
		}
		if n < MinHistoryLimit || n > MaxHistoryLimit {
			return "", fmt.Errorf("%s must be between %d and %d, got %d", key, MinHistoryLimit, MaxHistoryLimit, n)
		}
		return strconv.Itoa(n), nil
	case SettingLaunchAtStartup:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		return strconv.FormatBool(b), nil
	default:
		return "", fmt.Errorf("unknown setting %q", key)
	}
}

// ParseHistoryLimit reads a stored historyLimit value. Anything that is not
// a positive integer yields DefaultHistoryLimit.
func ParseHistoryLimit(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return DefaultHistoryLimit
	}
	return n
}
