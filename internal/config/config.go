package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// OutputDir is the root for extracted archives. Empty means a fresh
	// temporary directory per archive.
	OutputDir   string   `toml:"output_dir"`
	DownloadDir string   `toml:"download_dir"`
	CacheDir    string   `toml:"cache_dir"`
	HistoryDB   string   `toml:"history_db"`
	MaxParallel int      `toml:"max_parallel"`
	Disabled    []string `toml:"disabled"`
	LogLevel    string   `toml:"log_level"`
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".extractr")
	}
	return filepath.Join(home, ".extractr")
}

func Path() string {
	return filepath.Join(baseDir(), "config.toml")
}

func DefaultConfig() *Config {
	base := baseDir()

	return &Config{
		DownloadDir: filepath.Join(base, "downloads"),
		CacheDir:    filepath.Join(base, "cache"),
		HistoryDB:   filepath.Join(base, "history.db"),
		MaxParallel: 4,
		LogLevel:    "warn",
	}
}

func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads path over the defaults. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.MaxParallel < 1 {
		cfg.MaxParallel = 1
	}

	return cfg, nil
}

func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
