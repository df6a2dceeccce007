package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/triplet/pkg/adapters/dataset"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given. It is optional.
const DefaultFile = "triplet.yaml"

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full desk configuration.
type Config struct {
	Dataset    string          `mapstructure:"dataset"`
	IDField    string          `mapstructure:"id_field"`
	TextField  string          `mapstructure:"text_field"`
	Separator  string          `mapstructure:"separator"`
	NumTriples int             `mapstructure:"num_triples"`
	OutputDir  string          `mapstructure:"output_dir"`
	Store      StoreConfig     `mapstructure:"store"`
	Tokenizer  TokenizerConfig `mapstructure:"tokenizer"`
	Keys       KeysConfig      `mapstructure:"keys"`
	Listen     string          `mapstructure:"listen"`
	Debug      bool            `mapstructure:"debug"`
	LogFormat  string          `mapstructure:"log_format"`
}

type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	Path    string      `mapstructure:"path"` // sqlite database file
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// TokenizerConfig selects the segmenter. An empty Command means the built-in
// Unicode word segmenter.
type TokenizerConfig struct {
	Command   []string      `mapstructure:"command"`
	Lowercase bool          `mapstructure:"lowercase"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// KeysConfig holds the focus movement bindings of the terminal UI.
type KeysConfig struct {
	Left  string `mapstructure:"left"`
	Right string `mapstructure:"right"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		IDField:    dataset.DefaultIDField,
		TextField:  dataset.DefaultTextField,
		Separator:  domain.DefaultSeparator,
		NumTriples: domain.DefaultNumTriples,
		OutputDir:  "annotations",
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    "annotations.db",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "triplet:annotation:",
			},
		},
		Tokenizer: TokenizerConfig{
			Lowercase: true,
			Timeout:   10 * time.Second,
		},
		Keys:      KeysConfig{Left: "a", Right: "s"},
		Listen:    ":8080",
		LogFormat: "text",
	}
}

// Load reads an optional .env file next to path, then the YAML (or JSON)
// config file at path, expanding ${VAR} references before decoding.
// An empty path falls back to DefaultFile and tolerates its absence.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode merges a YAML/JSON document onto cfg. Keys missing from data keep
// their current values.
func Decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(" "),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.NumTriples < 1 {
		return fmt.Errorf("num_triples must be at least 1, got %d", c.NumTriples)
	}
	if c.Separator == "" {
		return errors.New("separator must not be empty")
	}
	if c.IDField == "" || c.TextField == "" {
		return errors.New("id_field and text_field must not be empty")
	}
	switch c.Store.Backend {
	case BackendFile:
		if c.OutputDir == "" {
			return errors.New("output_dir is required for the file backend")
		}
	case BackendSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q (want file, sqlite, redis or memory)", c.Store.Backend)
	}
	if c.Tokenizer.Timeout < 0 {
		return errors.New("tokenizer.timeout must not be negative")
	}
	if c.Keys.Left == "" || c.Keys.Right == "" || c.Keys.Left == c.Keys.Right {
		return fmt.Errorf("keys.left and keys.right must be distinct and non-empty (%q, %q)", c.Keys.Left, c.Keys.Right)
	}
	return nil
}

// DescribeStore names the configured store for logs and status output.
func (c *Config) DescribeStore() string {
	switch c.Store.Backend {
	case BackendFile:
		return "file:" + c.OutputDir
	case BackendSQLite:
		return "sqlite:" + c.Store.Path
	case BackendRedis:
		return "redis:" + c.Store.Redis.Addr + "/" + strings.TrimSuffix(c.Store.Redis.Prefix, ":")
	default:
		return c.Store.Backend
	}
}
