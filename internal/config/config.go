// Package config holds Brain Synapse's configuration surface: the
// decay/forgetting constants, Observer thresholds, keyword extraction
// tuning, and the search budgets that bound the hot recall path.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all synapse engine configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Engine   EngineConfig   `toml:"engine"`
	LTD      LTDConfig      `toml:"ltd"`
	Observer ObserverConfig `toml:"observer"`
	Keywords KeywordsConfig `toml:"keywords"`
	Search   SearchConfig   `toml:"search"`
	Memorize MemorizeConfig `toml:"memorize"`
	Features FeaturesConfig `toml:"features"`
}

// ServerConfig controls the optional read-only introspection HTTP server.
type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

// EngineConfig locates the engine's working directories on disk.
type EngineConfig struct {
	// Dir is the engine directory holding synapse_weights.json,
	// latent_weights.json, observations.jsonl, local_index_cache.json,
	// vector_cache.json, vector_meta.json, .observer.lock, instincts/.
	Dir string `toml:"dir"`
	// MemoryDir is the workspace memory directory holding the active
	// daily logs (YYYY-MM-DD.md) and its archive/ subdirectory.
	MemoryDir string `toml:"memory_dir"`
}

// LTDConfig tunes long-term potentiation/depression.
type LTDConfig struct {
	DecayRate      float64 `toml:"decayRate"`
	ForgetThreshold float64 `toml:"forgetThreshold"`
	RevivedWeight  float64 `toml:"revivedWeight"`
	InitialWeight  float64 `toml:"initialWeight"`
}

// ObserverConfig tunes instinct promotion from observation batches.
type ObserverConfig struct {
	MinObservationsForInstinct int     `toml:"minObservationsForInstinct"`
	ConfidenceBase             float64 `toml:"confidenceBase"`
	ConfidenceIncrement        float64 `toml:"confidenceIncrement"`
	ConfidenceDecrement        float64 `toml:"confidenceDecrement"`
	ConfidenceDecayWeekly      float64 `toml:"confidenceDecayWeekly"`
}

// KeywordsConfig carries the keyword-extraction settings. These fields
// are loaded but not read elsewhere: the tokenizer, the special-line
// boost and the recall re-ranker use their own built-in constants.
type KeywordsConfig struct {
	MinWordLength     int      `toml:"minWordLength"`
	MaxWeightMultiplier float64 `toml:"maxWeightMultiplier"`
	DecayFactor       float64  `toml:"decayFactor"`
	ValidPOSTags      []string `toml:"validPosTags"`
}

// SearchConfig tunes the local-index and vector-search budgets.
type SearchConfig struct {
	LocalMaxExecutionTimeMS int `toml:"localMaxExecutionTimeMs"`
	VectorTimeoutMS         int `toml:"vectorSearchApiTimeoutMs"`
	VectorMaxResults        int `toml:"vectorSearchApiMaxResults"`
	VectorChunkSize         int `toml:"vectorSearchApiChunkSize"`
}

// LocalTimeout returns the local-index execution budget as a
// time.Duration.
func (c SearchConfig) LocalTimeout() time.Duration {
	return time.Duration(c.LocalMaxExecutionTimeMS) * time.Millisecond
}

// VectorTimeout returns the vector-search race deadline as a
// time.Duration.
func (c SearchConfig) VectorTimeout() time.Duration {
	return time.Duration(c.VectorTimeoutMS) * time.Millisecond
}

// MemorizeConfig tunes the explicit-memory insertion path.
type MemorizeConfig struct {
	InitialWeight float64 `toml:"initialWeight"`
}

// FeaturesConfig toggles optional subsystems.
type FeaturesConfig struct {
	EnableVectorSearch bool `toml:"enableVectorSearch"`
	EnableObserver     bool `toml:"enableObserver"`
	EnableAutoDistill  bool `toml:"enableAutoDistill"`
}

// Default returns a Config populated with the defaults named in spec.md §6.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37778,
		},
		Engine: EngineConfig{
			Dir:       "",
			MemoryDir: "",
		},
		LTD: LTDConfig{
			DecayRate:       0.90,
			ForgetThreshold: 0.2,
			RevivedWeight:   0.5,
			InitialWeight:   1.0,
		},
		Observer: ObserverConfig{
			MinObservationsForInstinct: 5,
			ConfidenceBase:             0.3,
			ConfidenceIncrement:        0.05,
			ConfidenceDecrement:        0.1,
			ConfidenceDecayWeekly:      0.02,
		},
		Keywords: KeywordsConfig{
			MinWordLength:       2,
			MaxWeightMultiplier: 2.0,
			DecayFactor:         0.1,
			ValidPOSTags:        []string{"n", "nr", "nz", "eng", "noun", "NN", "NNS", "NNP", "NNPS", "FW"},
		},
		Search: SearchConfig{
			LocalMaxExecutionTimeMS: 100,
			VectorTimeoutMS:         5000,
			VectorMaxResults:        5,
			VectorChunkSize:         1000,
		},
		Memorize: MemorizeConfig{
			InitialWeight: 2.5,
		},
		Features: FeaturesConfig{
			EnableVectorSearch: true,
			EnableObserver:     true,
			EnableAutoDistill:  false,
		},
	}
}

// Load reads an optional TOML config file over the defaults. A missing
// file is not an error — the defaults stand unmodified.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string for the introspection server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
