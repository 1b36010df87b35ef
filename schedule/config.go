package schedule

import "time"

// EngineConfig holds configuration options for the occurrence engine.
type EngineConfig struct {
	// Cache configuration
	CacheEnabled bool
	Cache        CacheConfig

	// MaxOccurrences bounds how many series steps a range scan expands.
	// Windows further out than that many steps come back incomplete.
	MaxOccurrences int

	// DefaultHorizon substitutes for a zero range end in range queries.
	DefaultHorizon time.Duration
}

// DefaultEngineConfig provides sensible defaults for production use.
var DefaultEngineConfig = EngineConfig{
	CacheEnabled:   true,
	Cache:          DefaultCacheConfig,
	MaxOccurrences: 1000,
	DefaultHorizon: 90 * 24 * time.Hour,
}

// HighPerformanceConfig trades scan depth for speed on busy servers.
var HighPerformanceConfig = EngineConfig{
	CacheEnabled: true,
	Cache: CacheConfig{
		TTL:             30 * time.Minute,
		MaxEntries:      5000,
		CleanupInterval: 10 * time.Minute,
	},
	MaxOccurrences: 500,
	DefaultHorizon: 30 * 24 * time.Hour,
}

// LowMemoryConfig keeps the cache small for constrained environments.
var LowMemoryConfig = EngineConfig{
	CacheEnabled: true,
	Cache: CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      100,
		CleanupInterval: 2 * time.Minute,
	},
	MaxOccurrences: 1000,
	DefaultHorizon: 90 * 24 * time.Hour,
}

// DisabledCacheConfig turns caching off entirely; every query expands.
var DisabledCacheConfig = EngineConfig{
	CacheEnabled:   false,
	MaxOccurrences: 2000,
	DefaultHorizon: 180 * 24 * time.Hour,
}
