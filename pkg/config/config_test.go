package config

import (
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestLoadFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("VECDB_HNSW_M", "32")
	t.Setenv("VECDB_IVF_NPROBE", "16")
	t.Setenv("VECDB_CACHE_TTL", "1m")
	t.Setenv("VECDB_CACHE_ENABLED", "false")

	cfg := LoadFromEnv()

	if cfg.HNSW.M != 32 {
		t.Errorf("HNSW.M = %d, want 32", cfg.HNSW.M)
	}
	if cfg.IVF.NProbe != 16 {
		t.Errorf("IVF.NProbe = %d, want 16", cfg.IVF.NProbe)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("Cache.TTL = %v, want 1m", cfg.Cache.TTL)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled = true, want false")
	}

	// Fields with no matching env var keep their default.
	if want := Default().HNSW.EfConstruction; cfg.HNSW.EfConstruction != want {
		t.Errorf("HNSW.EfConstruction = %d, want unchanged default %d", cfg.HNSW.EfConstruction, want)
	}
}

func TestLoadFromEnvIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("VECDB_HNSW_M", "not-a-number")
	cfg := LoadFromEnv()
	if cfg.HNSW.M != Default().HNSW.M {
		t.Errorf("HNSW.M = %d, want default %d when env value is unparsable", cfg.HNSW.M, Default().HNSW.M)
	}
}

func TestValidateRejectsOutOfRangeNProbe(t *testing.T) {
	cfg := Default()
	cfg.IVF.NProbe = cfg.IVF.NList + 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when nprobe exceeds nlist")
	}
}

func TestValidateRejectsEnabledCacheWithZeroCapacity(t *testing.T) {
	cfg := Default()
	cfg.Cache.Capacity = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when cache is enabled with zero capacity")
	}
}
