package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/resumid-ai/resumid/app/core/srv"
	"github.com/resumid-ai/resumid/pkg/retrieval"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	conf.SetConfigBytes(raw)

	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func (c CoreConfig) LoadCustomConfig(cfg any) error {
	if len(c.bytes) == 0 {
		return nil
	}
	if err := toml.Unmarshal(c.bytes, cfg); err != nil {
		return err
	}
	return nil
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr      string          `toml:"addr"`
	Log       Log             `toml:"log"`
	Postgres  PGConfig        `toml:"postgres"`
	AI        srv.AIConfig    `toml:"ai"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Cleanup   CleanupConfig   `toml:"cleanup"`

	bytes []byte `toml:"-"`
}

func (c *CoreConfig) SetConfigBytes(raw []byte) {
	c.bytes = raw
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("RESUMID_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.AI.FromENV()
	c.Retrieval.CandidateLimit = envInt("RESUMID_API_RETRIEVAL_CANDIDATE_LIMIT", 0)
}

// RetrievalConfig tunes the hybrid search pipeline. Zero values fall back
// to the package defaults.
type RetrievalConfig struct {
	VectorWeight   float64 `toml:"vector_weight"`
	LexicalWeight  float64 `toml:"lexical_weight"`
	MinScore       float64 `toml:"min_score"`
	CandidateLimit int     `toml:"candidate_limit"`
	// ForceScan disables the native nearest neighbor path even when the
	// database supports it. Useful for comparing both paths.
	ForceScan bool `toml:"force_scan"`
}

func (c RetrievalConfig) Weights() retrieval.Weights {
	return retrieval.Weights{
		Vector:  c.VectorWeight,
		Lexical: c.LexicalWeight,
	}
}

// CandidatePool returns the shared candidate limit for a final result
// limit. It is always larger than the requested limit so fusion has enough
// material to reorder.
func (c RetrievalConfig) CandidatePool(limit int) uint64 {
	pool := c.CandidateLimit
	if pool <= 0 {
		pool = 25
	}
	if limit > pool {
		pool = limit
	}
	return uint64(pool)
}

type CleanupConfig struct {
	Enabled bool `toml:"enabled"`
	// Cron is a standard 5-field cron spec. Empty means daily at 03:00.
	Cron string `toml:"cron"`
}

func (c CleanupConfig) CronSpec() string {
	if c.Cron == "" {
		return "0 3 * * *"
	}
	return c.Cron
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("RESUMID_API_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("RESUMID_API_LOG_LEVEL")
	l.Path = os.Getenv("RESUMID_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func envInt(key string, def int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}
