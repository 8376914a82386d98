package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-adaptq/adaptq/policy/s3fifo"
)

const testYAML = `
capacity: 4096
shards: 4
pattern: hotcold
ops: 100000
seed: 42
policies: [s3fifo, lru]
s3fifo:
  small_ratio: 0.2
  ghost_factor: 2.0
  access_cap: 7
  demotion: true
`

const testJSON = `{
  "capacity": 2048,
  "pattern": "loop",
  "s3fifo": {"step": 0.05}
}`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeTempFile(t, "replay.yaml", testYAML))
	require.NoError(t, err)

	assert.Equal(t, 4096, cfg.Capacity)
	assert.Equal(t, 4, cfg.Shards)
	assert.Equal(t, "hotcold", cfg.Pattern)
	assert.Equal(t, 100000, cfg.Ops)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, []string{"s3fifo", "lru"}, cfg.Policies)

	assert.Equal(t, 0.2, cfg.S3FIFO.SmallRatio)
	assert.Equal(t, 2.0, cfg.S3FIFO.GhostFactor)
	assert.Equal(t, 7, cfg.S3FIFO.AccessCap)
	assert.True(t, cfg.S3FIFO.Demotion)

	require.NoError(t, cfg.Validate())
}

func TestLoad_JSONKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeTempFile(t, "replay.json", testJSON))
	require.NoError(t, err)

	// Overridden fields.
	assert.Equal(t, 2048, cfg.Capacity)
	assert.Equal(t, "loop", cfg.Pattern)
	assert.Equal(t, 0.05, cfg.S3FIFO.Step)

	// Absent fields keep defaults.
	def := Default()
	assert.Equal(t, def.Shards, cfg.Shards)
	assert.Equal(t, def.Ops, cfg.Ops)
	assert.Equal(t, def.Seed, cfg.Seed)
	assert.Equal(t, def.Policies, cfg.Policies)
}

func TestLoad_YMLExtension(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeTempFile(t, "replay.yml", "capacity: 16"))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Capacity)
}

func TestLoad_UnknownExtension(t *testing.T) {
	t.Parallel()

	_, err := Load(writeTempFile(t, "replay.toml", ""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestFromBytes_ParseError(t *testing.T) {
	t.Parallel()

	_, err := FromBytes([]byte("{not json"), FormatJSON)
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestFromBytes_EmptyIsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := FromBytes(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Replay)
	}{
		{"zero capacity", func(c *Replay) { c.Capacity = 0 }},
		{"zero ops", func(c *Replay) { c.Ops = 0 }},
		{"negative shards", func(c *Replay) { c.Shards = -1 }},
		{"no workload", func(c *Replay) { c.Pattern, c.TraceFile = "", "" }},
		{"no policies", func(c *Replay) { c.Policies = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestEngineOptions(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Engine{}.Options(), "zero config maps to no options")

	e := Engine{
		SmallRatio:  0.25,
		RatioMin:    0.05,
		Step:        0.1,
		GhostFactor: 1.5,
		AccessCap:   300, // clamped to the uint8 range
		Demotion:    true,
	}
	opts := e.Options()
	assert.Len(t, opts, 6)

	// The mapped options must form a valid engine configuration.
	_, err := s3fifo.New[string, string](opts...)
	require.NoError(t, err)
}
