// Package config loads the TOML settings of the batch generator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/store"
)

var validate = validator.New()

type Config struct {
	Store   StoreConfig   `toml:"store"`
	Sampler SamplerConfig `toml:"sampler"`
	Engine  EngineConfig  `toml:"engine"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

type StoreConfig struct {
	Driver string `toml:"driver" validate:"oneof=postgres sqlite memory"`
	DSN    string `toml:"dsn" validate:"required_unless=Driver memory"`
	// MostRecent limits sampling to the newest rows, 0 for all of them.
	MostRecent int `toml:"most_recent" validate:"gte=0"`
}

type SamplerConfig struct {
	BatchSize int    `toml:"batch_size" validate:"gt=0"`
	Seed      int64  `toml:"seed"`
	Purpose   string `toml:"purpose" validate:"oneof=self_play human"`
	Partition string `toml:"partition" validate:"oneof=all training testing"`
	Augment   bool   `toml:"augment"`
}

type EngineConfig struct {
	// Workers is the parallelism of assembly and augmentation, 0 for one per CPU.
	Workers int `toml:"workers" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=trace debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
}

type MetricsConfig struct {
	Addr     string        `toml:"addr" validate:"required"`
	Interval time.Duration `toml:"interval" validate:"gt=0"`
}

func Default() Config {
	return Config{
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "gomoku.db",
		},
		Sampler: SamplerConfig{
			BatchSize: 32,
			Seed:      store.DefaultSeed,
			Purpose:   "self_play",
			Partition: "training",
			Augment:   true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Addr:     ":9464",
			Interval: time.Second,
		},
	}
}

// Load applies the file at path over the defaults. An empty path yields the
// defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	var cfg = Default()
	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) != 0 {
			var keys = make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			return Config{}, fmt.Errorf("load config: unknown keys %v", strings.Join(keys, ", "))
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *SamplerConfig) GamePurpose() (domain.GamePurpose, error) {
	switch c.Purpose {
	case "self_play":
		return domain.PurposeSelfPlay, nil
	case "human":
		return domain.PurposeHuman, nil
	}
	return 0, fmt.Errorf("unknown purpose %q", c.Purpose)
}

func (c *SamplerConfig) Selector() (store.Selector, error) {
	purpose, err := c.GamePurpose()
	if err != nil {
		return store.Selector{}, err
	}
	partition, err := store.ParsePartition(c.Partition)
	if err != nil {
		return store.Selector{}, err
	}
	return store.Selector{Purpose: purpose, Partition: partition}, nil
}
