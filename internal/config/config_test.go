package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbucket/internal/fraction"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "questions.json", cfg.Questions)
	assert.Equal(t, 20, cfg.BucketSize)
	assert.Equal(t, "9/10", cfg.Threshold)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Console)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizbucket.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
questions: exam.json
bucket_size: 5
threshold: 4/5
log:
  level: debug
  file: /tmp/qb.log
`), 0o644))
	t.Setenv("QUIZBUCKET_BUCKET_SIZE", "7")
	t.Setenv("QUIZBUCKET_LOG_CONSOLE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "exam.json", cfg.Questions)
	assert.Equal(t, 7, cfg.BucketSize, "env should override file")
	assert.Equal(t, "4/5", cfg.Threshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/qb.log", cfg.Log.File)
	assert.True(t, cfg.Log.Console)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLearnConfig(t *testing.T) {
	cfg := Default()
	lc, err := cfg.LearnConfig()
	require.NoError(t, err)
	assert.Equal(t, 20, lc.BucketSize)
	assert.True(t, lc.MasteryThreshold.Equal(fraction.MustNew(9, 10)))

	cfg.Threshold = "nine tenths"
	_, err = cfg.LearnConfig()
	assert.Error(t, err)

	cfg.Threshold = "3/2"
	_, err = cfg.LearnConfig()
	assert.Error(t, err)

	cfg.Threshold = "1/2"
	cfg.BucketSize = 0
	_, err = cfg.LearnConfig()
	assert.Error(t, err)
}
