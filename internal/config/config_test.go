package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv(mapLookup(nil))

	assert.Equal(t, Config{AWSRegion: "us-east-1"}, cfg)
	assert.False(t, cfg.S3Enabled())
	assert.False(t, cfg.StoreEnabled())
}

func TestFromEnv_AllSet(t *testing.T) {
	cfg := FromEnv(mapLookup(map[string]string{
		"AWS_REGION":    "sa-east-1",
		"S3_LOG_BUCKET": " diag-logs ",
		"HWDIAG_DB":     "/var/lib/hwdiag.db",
		"HWDIAG_RULES":  "./rules",
	}))

	assert.Equal(t, Config{
		AWSRegion:   "sa-east-1",
		S3LogBucket: "diag-logs",
		DBPath:      "/var/lib/hwdiag.db",
		RulesDir:    "./rules",
	}, cfg)
	assert.True(t, cfg.S3Enabled())
	assert.True(t, cfg.StoreEnabled())
}

func TestFromEnv_BlankRegionUsesDefault(t *testing.T) {
	cfg := FromEnv(mapLookup(map[string]string{"AWS_REGION": "   "}))
	assert.Equal(t, DefaultAWSRegion, cfg.AWSRegion)
}

func TestLoad_EnvFile(t *testing.T) {
	for _, k := range []string{EnvAWSRegion, EnvS3LogBucket, EnvDBPath, EnvRulesDir} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("S3_LOG_BUCKET=from-file\nHWDIAG_DB=diag.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.S3LogBucket)
	assert.Equal(t, "diag.db", cfg.DBPath)
	assert.Equal(t, DefaultAWSRegion, cfg.AWSRegion)
}

func TestLoad_ExistingEnvWins(t *testing.T) {
	t.Setenv(EnvS3LogBucket, "from-env")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("S3_LOG_BUCKET=from-file\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.S3LogBucket)
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
