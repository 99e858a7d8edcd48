// Package config holds the tunable parameters for the index types and the
// query cache, loaded either from explicit defaults or the process
// environment.
//
// Grounded on the teacher's pkg/config/config.go for the overall
// Default/LoadFromEnv/Validate chain and naming conventions; the
// ServerConfig/DatabaseConfig sections (gRPC host/port, TLS, WAL, on-disk
// namespaces) are dropped since there is no network-facing server or
// persistence layer here — see DESIGN.md.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates every tunable surface an embedder of this module might
// want to adjust without recompiling.
type Config struct {
	Flat  FlatConfig
	IVF   IVFConfig
	HNSW  HNSWConfig
	Cache CacheConfig
}

// FlatConfig holds parameters for the brute-force index. It has no knobs
// beyond dimension today, but is kept as its own struct so new ones (e.g. a
// batched-search chunk size) have a home without reshaping Config.
type FlatConfig struct {
	Dimensions int
}

// IVFConfig holds parameters for the inverted-file index.
type IVFConfig struct {
	Dimensions int // vector dimension
	NList      int // number of coarse cells
	NProbe     int // cells visited per query
	Seed       int64
}

// HNSWConfig holds parameters for the graph index.
type HNSWConfig struct {
	Dimensions      int
	M               int // connections per layer
	EfConstruction  int // build-time beam width
	DefaultEfSearch int // query-time beam width
	Seed            int64
}

// CacheConfig holds parameters for the query-result cache that can wrap any
// index.Index.
type CacheConfig struct {
	Enabled  bool
	Capacity int
	TTL      time.Duration
}

// Default returns the package's baked-in defaults.
func Default() *Config {
	return &Config{
		Flat: FlatConfig{
			Dimensions: 768,
		},
		IVF: IVFConfig{
			Dimensions: 768,
			NList:      100,
			NProbe:     8,
			Seed:       42,
		},
		HNSW: HNSWConfig{
			Dimensions:      768,
			M:               16,
			EfConstruction:  200,
			DefaultEfSearch: 50,
			Seed:            42,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 1000,
			TTL:      5 * time.Minute,
		},
	}
}

// LoadFromEnv starts from Default and overrides any field whose environment
// variable is set and parses cleanly; a present-but-unparsable value is
// silently ignored and the default (or a prior override) is kept, matching
// the teacher's behavior.
func LoadFromEnv() *Config {
	cfg := Default()

	if dims := os.Getenv("VECDB_DIMENSIONS"); dims != "" {
		if d, err := strconv.Atoi(dims); err == nil {
			cfg.Flat.Dimensions = d
			cfg.IVF.Dimensions = d
			cfg.HNSW.Dimensions = d
		}
	}

	if nlist := os.Getenv("VECDB_IVF_NLIST"); nlist != "" {
		if v, err := strconv.Atoi(nlist); err == nil {
			cfg.IVF.NList = v
		}
	}
	if nprobe := os.Getenv("VECDB_IVF_NPROBE"); nprobe != "" {
		if v, err := strconv.Atoi(nprobe); err == nil {
			cfg.IVF.NProbe = v
		}
	}
	if seed := os.Getenv("VECDB_IVF_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.IVF.Seed = v
		}
	}

	if m := os.Getenv("VECDB_HNSW_M"); m != "" {
		if v, err := strconv.Atoi(m); err == nil {
			cfg.HNSW.M = v
		}
	}
	if ef := os.Getenv("VECDB_HNSW_EF_CONSTRUCTION"); ef != "" {
		if v, err := strconv.Atoi(ef); err == nil {
			cfg.HNSW.EfConstruction = v
		}
	}
	if ef := os.Getenv("VECDB_HNSW_EF_SEARCH"); ef != "" {
		if v, err := strconv.Atoi(ef); err == nil {
			cfg.HNSW.DefaultEfSearch = v
		}
	}
	if seed := os.Getenv("VECDB_HNSW_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.HNSW.Seed = v
		}
	}

	if enabled := os.Getenv("VECDB_CACHE_ENABLED"); enabled == "false" {
		cfg.Cache.Enabled = false
	}
	if capacity := os.Getenv("VECDB_CACHE_CAPACITY"); capacity != "" {
		if v, err := strconv.Atoi(capacity); err == nil {
			cfg.Cache.Capacity = v
		}
	}
	if ttl := os.Getenv("VECDB_CACHE_TTL"); ttl != "" {
		if v, err := time.ParseDuration(ttl); err == nil {
			cfg.Cache.TTL = v
		}
	}

	return cfg
}

// Validate checks the configuration for internally-inconsistent or
// out-of-range values.
func (c *Config) Validate() error {
	if c.Flat.Dimensions < 1 {
		return fmt.Errorf("invalid flat dimensions: %d (must be > 0)", c.Flat.Dimensions)
	}

	if c.IVF.Dimensions < 1 {
		return fmt.Errorf("invalid ivf dimensions: %d (must be > 0)", c.IVF.Dimensions)
	}
	if c.IVF.NList < 1 {
		return fmt.Errorf("invalid ivf nlist: %d (must be > 0)", c.IVF.NList)
	}
	if c.IVF.NProbe < 1 || c.IVF.NProbe > c.IVF.NList {
		return fmt.Errorf("invalid ivf nprobe: %d (must be in [1,%d])", c.IVF.NProbe, c.IVF.NList)
	}

	if c.HNSW.Dimensions < 1 {
		return fmt.Errorf("invalid hnsw dimensions: %d (must be > 0)", c.HNSW.Dimensions)
	}
	if c.HNSW.M < 2 || c.HNSW.M > 100 {
		return fmt.Errorf("invalid hnsw M: %d (recommended: 16)", c.HNSW.M)
	}
	if c.HNSW.EfConstruction < 10 {
		return fmt.Errorf("invalid hnsw efConstruction: %d (must be >= 10)", c.HNSW.EfConstruction)
	}
	if c.HNSW.DefaultEfSearch < 1 {
		return fmt.Errorf("invalid hnsw efSearch: %d (must be > 0)", c.HNSW.DefaultEfSearch)
	}

	if c.Cache.Enabled && c.Cache.Capacity < 1 {
		return fmt.Errorf("invalid cache capacity: %d (must be > 0)", c.Cache.Capacity)
	}

	return nil
}
