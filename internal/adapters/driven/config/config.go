// Package config loads pipeline settings from a TOML file with
// environment-variable overrides.
//
// File values come from ~/.agentic-search/config.toml (or the directory
// given explicitly). Every tunable also has an environment variable that
// wins over the file, so one-off runs can be reconfigured without editing
// anything.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Default values for every tunable.
const (
	DefaultQdrantURL  = "http://localhost:6333"
	DefaultCollection = "wiki_passages"
	DefaultModel      = "all-MiniLM-L6-v2"
	DefaultProvider   = "openai"

	DefaultMinWords = 30
	DefaultMaxWords = 300

	DefaultEmbedBatchSize  = 256
	DefaultUploadBatchSize = 2048

	// DefaultCloudBatchSize is the upload batch for cloud inference,
	// where the service embeds each batch before storing it.
	DefaultCloudBatchSize = 128

	// DefaultIndexingThreshold re-enables background indexing after load.
	DefaultIndexingThreshold = 20000

	// DefaultDumpURL is the Simple English Wikipedia dump mirror.
	DefaultDumpURL = "https://dumps.wikimedia.org/simplewiki/latest/simplewiki-latest-pages-articles.xml.bz2"
)

// configFileName is the TOML file read from the config directory.
const configFileName = "config.toml"

// Settings holds every pipeline tunable as an explicit named field.
// It is passed into services at construction; nothing reads globals.
type Settings struct {
	// Qdrant connection.
	QdrantURL    string `toml:"qdrant_url"`
	QdrantAPIKey string `toml:"qdrant_api_key"`
	Collection   string `toml:"collection"`

	// Embedding backend.
	EmbeddingProvider string `toml:"embedding_provider"` // "openai" or "ollama"
	EmbeddingModel    string `toml:"embedding_model"`
	EmbeddingBaseURL  string `toml:"embedding_base_url"`
	EmbeddingAPIKey   string `toml:"embedding_api_key"`

	// Chunking bounds.
	MinWords int `toml:"min_words"`
	MaxWords int `toml:"max_words"`

	// Batch sizes. Embedding and upsert have different optimal
	// granularities, hence two knobs.
	EmbedBatchSize  int `toml:"embed_batch_size"`
	UploadBatchSize int `toml:"upload_batch_size"`
	CloudBatchSize  int `toml:"cloud_batch_size"`

	// IndexingThreshold is applied when a run finalises.
	IndexingThreshold int `toml:"indexing_threshold"`

	// Data locations.
	DataDir string `toml:"data_dir"`
	DumpURL string `toml:"dump_url"`
}

// envOverrides maps environment variables onto Settings fields.
var envOverrides = map[string]func(*Settings, string){
	"QDRANT_URL":         func(s *Settings, v string) { s.QdrantURL = v },
	"QDRANT_API_KEY":     func(s *Settings, v string) { s.QdrantAPIKey = v },
	"QDRANT_COLLECTION":  func(s *Settings, v string) { s.Collection = v },
	"EMBEDDING_PROVIDER": func(s *Settings, v string) { s.EmbeddingProvider = v },
	"EMBEDDING_MODEL":    func(s *Settings, v string) { s.EmbeddingModel = v },
	"EMBEDDING_BASE_URL": func(s *Settings, v string) { s.EmbeddingBaseURL = v },
	"EMBEDDING_API_KEY":  func(s *Settings, v string) { s.EmbeddingAPIKey = v },
	"CHUNK_MIN_WORDS":    func(s *Settings, v string) { setInt(&s.MinWords, v) },
	"CHUNK_MAX_WORDS":    func(s *Settings, v string) { setInt(&s.MaxWords, v) },
	"EMBED_BATCH_SIZE":   func(s *Settings, v string) { setInt(&s.EmbedBatchSize, v) },
	"UPLOAD_BATCH_SIZE":  func(s *Settings, v string) { setInt(&s.UploadBatchSize, v) },
	"CLOUD_BATCH_SIZE":   func(s *Settings, v string) { setInt(&s.CloudBatchSize, v) },
	"DUMP_URL":           func(s *Settings, v string) { s.DumpURL = v },
	"DATA_DIR":           func(s *Settings, v string) { s.DataDir = v },
}

// Defaults returns settings with every field at its default.
func Defaults() *Settings {
	return &Settings{
		QdrantURL:         DefaultQdrantURL,
		Collection:        DefaultCollection,
		EmbeddingProvider: DefaultProvider,
		EmbeddingModel:    DefaultModel,
		MinWords:          DefaultMinWords,
		MaxWords:          DefaultMaxWords,
		EmbedBatchSize:    DefaultEmbedBatchSize,
		UploadBatchSize:   DefaultUploadBatchSize,
		CloudBatchSize:    DefaultCloudBatchSize,
		IndexingThreshold: DefaultIndexingThreshold,
		DataDir:           "data",
		DumpURL:           DefaultDumpURL,
	}
}

// Load builds Settings from defaults, the TOML file in configDir (if any)
// and environment variables, in increasing precedence. An empty configDir
// defaults to ~/.agentic-search.
func Load(configDir string) (*Settings, error) {
	s := Defaults()

	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		configDir = filepath.Join(home, ".agentic-search")
	}

	path := filepath.Join(configDir, configFileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	s.applyEnv()

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// DumpPath is where the download stage writes the archive.
func (s *Settings) DumpPath() string {
	return filepath.Join(s.DataDir, filepath.Base(s.DumpURL))
}

// PassagesPath is the JSONL passage store location.
func (s *Settings) PassagesPath() string {
	return filepath.Join(s.DataDir, "passages.jsonl")
}

// LockPath is the run-lock file guarding against concurrent runs.
func (s *Settings) LockPath() string {
	return filepath.Join(s.DataDir, ".ingest.lock")
}

// applyEnv overrides fields from the process environment.
func (s *Settings) applyEnv() {
	for key, apply := range envOverrides {
		if v := os.Getenv(key); v != "" {
			apply(s, v)
		}
	}
}

// validate rejects settings no run could work with.
func (s *Settings) validate() error {
	if s.MinWords <= 0 || s.MaxWords <= 0 || s.MinWords >= s.MaxWords {
		return fmt.Errorf("chunk bounds invalid: min_words=%d max_words=%d", s.MinWords, s.MaxWords)
	}
	if s.EmbedBatchSize <= 0 || s.UploadBatchSize <= 0 || s.CloudBatchSize <= 0 {
		return fmt.Errorf("batch sizes must be positive")
	}
	switch s.EmbeddingProvider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown embedding provider %q", s.EmbeddingProvider)
	}
	return nil
}

func setInt(dst *int, v string) {
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
