package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/store"
)

func writeConfig(t *testing.T, content string) string {
	var path = filepath.Join(t.TempDir(), "gomokubatch.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	sel, err := cfg.Sampler.Selector()
	require.NoError(t, err)
	assert.Equal(t, store.Selector{Purpose: domain.PurposeSelfPlay, Partition: store.PartitionTraining}, sel)
}

func TestLoadOverrides(t *testing.T) {
	var path = writeConfig(t, `
[store]
driver = "postgres"
dsn = "postgres://localhost/gomoku"
most_recent = 50000

[sampler]
batch_size = 128
purpose = "human"
partition = "testing"
augment = false

[log]
format = "json"

[metrics]
interval = "250ms"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 50000, cfg.Store.MostRecent)
	assert.Equal(t, 128, cfg.Sampler.BatchSize)
	assert.False(t, cfg.Sampler.Augment)
	assert.Equal(t, int64(store.DefaultSeed), cfg.Sampler.Seed)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 250*time.Millisecond, cfg.Metrics.Interval)

	sel, err := cfg.Sampler.Selector()
	require.NoError(t, err)
	assert.Equal(t, store.Selector{Purpose: domain.PurposeHuman, Partition: store.PartitionTesting}, sel)
}

func TestLoadRejects(t *testing.T) {
	var tests = []struct {
		name    string
		content string
	}{
		{"unknown driver", "[store]\ndriver = \"mysql\"\n"},
		{"missing dsn", "[store]\ndriver = \"postgres\"\ndsn = \"\"\n"},
		{"zero batch", "[sampler]\nbatch_size = 0\n"},
		{"bad purpose", "[sampler]\npurpose = \"arena\"\n"},
		{"bad partition", "[sampler]\npartition = \"validation\"\n"},
		{"bad level", "[log]\nlevel = \"loud\"\n"},
		{"unknown key", "[sampler]\nbatchsize = 3\n"},
		{"syntax", "[sampler\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, test.content))
			assert.Error(t, err)
		})
	}
}

func TestMemoryDriverNeedsNoDSN(t *testing.T) {
	var cfg = Default()
	cfg.Store.Driver = "memory"
	cfg.Store.DSN = ""
	assert.NoError(t, cfg.Validate())
}
