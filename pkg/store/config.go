package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/labdash/pkg/logging"
)

// Config tells Open which backend to use and where it lives.
type Config interface {
	Driver() string
	BasePath() string
	SQLitePath() string
	PostgresDSN() string
}

const (
	DefaultRefreshInterval = time.Minute
	DefaultSearchDebounce  = 300 * time.Millisecond
)

// LABDASH_SQLITE_PATH sets sqlite.path.
var envKeyReplacer = strings.NewReplacer(".", "_")

// LoadConfig reads .labdash(.yaml) from $LABDASH_CONFIG_PATH or the working
// directory, with LABDASH_* environment overrides.
func LoadConfig() (*FileConfig, error) {
	return loadConfig(viper.New())
}

func loadConfig(v *viper.Viper) (*FileConfig, error) {
	v.SetDefault("driver", string(DriverDiskv))
	v.SetDefault("path", "~/.labdash.db")
	v.SetDefault("sqlite.path", defaultSQLitePath)
	v.SetDefault("postgres.dsn", defaultPostgresDSN)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("refresh.interval", DefaultRefreshInterval)
	v.SetDefault("search.debounce", DefaultSearchDebounce)

	v.SetConfigName(".labdash") // .yaml is implicit
	v.SetEnvPrefix("LABDASH")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if override := os.Getenv("LABDASH_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("expand path: %w", err)
	}
	sqlitePath, err := homedir.Expand(v.GetString("sqlite.path"))
	if err != nil {
		return nil, fmt.Errorf("expand sqlite.path: %w", err)
	}

	return &FileConfig{
		DriverName: v.GetString("driver"),
		Path:       path,
		SQLite:     sqlitePath,
		DSN:        v.GetString("postgres.dsn"),
		Log: logging.Config{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Refresh:  positive(v.GetDuration("refresh.interval"), DefaultRefreshInterval),
		Debounce: positive(v.GetDuration("search.debounce"), DefaultSearchDebounce),
	}, nil
}

func positive(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// FileConfig is the resolved configuration.
type FileConfig struct {
	DriverName string         `json:"driver"`
	Path       string         `json:"path"`
	SQLite     string         `json:"sqlitePath"`
	DSN        string         `json:"-"`
	Log        logging.Config `json:"log"`
	Refresh    time.Duration  `json:"refreshInterval"`
	Debounce   time.Duration  `json:"searchDebounce"`
}

func (f *FileConfig) Driver() string      { return f.DriverName }
func (f *FileConfig) BasePath() string    { return f.Path }
func (f *FileConfig) SQLitePath() string  { return f.SQLite }
func (f *FileConfig) PostgresDSN() string { return f.DSN }
