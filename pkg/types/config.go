// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LoggingConfig holds diagnostic logging settings. Logs go to stderr so
// stdout carries only the report line.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default warn).
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// HistoryConfig holds settings for the optional run history store.
type HistoryConfig struct {
	// Enabled turns on recording of each successful scan (default false).
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file (default ".aatmin/history.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Limit is the default number of entries listed by `aatmin history`
	// (default 20).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// Config groups all aatmin settings. None of them changes the scanned
// file or the label it matches.
type Config struct {
	Log     LoggingConfig `json:"log" yaml:"log" mapstructure:"log"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
}

// Defaults for Config fields left empty.
const (
	DefaultLogLevel     = "warn"
	DefaultHistoryPath  = ".aatmin/history.db"
	DefaultHistoryLimit = 20
)
