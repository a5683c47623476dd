// Package config binds the engine's tunables to viper, with defaults
// matching the standard configuration table.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// RankingWeights holds the five scalar weights combined by the query
// engine's final_score formula.
type RankingWeights struct {
	TFIDF    float64 `mapstructure:"tfidf"`
	Cosine   float64 `mapstructure:"cosine"`
	Coverage float64 `mapstructure:"coverage"`
	Auth     float64 `mapstructure:"auth"`
	Hub      float64 `mapstructure:"hub"`
}

// HITSConfig holds HITS convergence parameters.
type HITSConfig struct {
	MaxIterations int     `mapstructure:"max_iterations"`
	Threshold     float64 `mapstructure:"threshold"`
}

// PageRankConfig holds PageRank convergence parameters.
type PageRankConfig struct {
	Damping       float64 `mapstructure:"damping"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Threshold     float64 `mapstructure:"threshold"`
}

// Config is the full set of tunables for an index build or query session.
type Config struct {
	SimilarityThreshold float64        `mapstructure:"similarity_threshold"`
	MaxIndexSizeBytes   int64          `mapstructure:"max_index_size"`
	SimhashBits         int            `mapstructure:"simhash_bits"`
	HITS                HITSConfig     `mapstructure:"hits"`
	PageRank            PageRankConfig `mapstructure:"pagerank"`
	Ranking             RankingWeights `mapstructure:"ranking"`
	Workers             int            `mapstructure:"workers"`
	LogLevel            string         `mapstructure:"log_level"`
	DataDir             string         `mapstructure:"data_dir"`
	ShardCacheCapacity  int            `mapstructure:"shard_cache_capacity"`
}

// Load reads configuration from an optional file, environment variables
// prefixed SOULSEARCH_, and the given explicit config path (may be empty),
// layered over those defaults.
func Load(explicitPath string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("soulsearch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("similarity_threshold", 0.85)
	v.SetDefault("max_index_size", int64(32)*1024*1024)
	v.SetDefault("simhash_bits", 128)
	v.SetDefault("hits.max_iterations", 20)
	v.SetDefault("hits.threshold", 1e-4)
	v.SetDefault("pagerank.damping", 0.85)
	v.SetDefault("pagerank.max_iterations", 100)
	v.SetDefault("pagerank.threshold", 1e-4)
	v.SetDefault("ranking.tfidf", 0.15)
	v.SetDefault("ranking.cosine", 0.15)
	v.SetDefault("ranking.coverage", 0.40)
	v.SetDefault("ranking.auth", 0.15)
	v.SetDefault("ranking.hub", 0.15)
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("shard_cache_capacity", 27)

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else {
		v.SetConfigName("soulsearch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // optional; defaults + env still apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
