package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// an explicitly named config file must exist
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	// the default location is optional; defaults apply
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/etc/fstab", cfg.FstabPath)
	assert.Equal(t, "/var/log/krpa.log", cfg.LogFile)
	assert.Equal(t, "/var/lib/krpa/lastrun", cfg.MarkerFile)
	assert.Equal(t, 50, cfg.DmesgWindow)
	assert.Equal(t, 2*time.Second, cfg.SettleDelay)
	assert.Equal(t, "ntfs-3g", cfg.FallbackType)
	assert.Empty(t, cfg.NTFSAliases)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `fstab_path: /tmp/fstab
log_file: /tmp/krpa.log
dmesg_window: 100
settle_delay: 5s
fallback_type: ntfs3
ntfs_aliases:
  - fuseblk
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/fstab", cfg.FstabPath)
	assert.Equal(t, "/tmp/krpa.log", cfg.LogFile)
	assert.Equal(t, 100, cfg.DmesgWindow)
	assert.Equal(t, 5*time.Second, cfg.SettleDelay)
	assert.Equal(t, "ntfs3", cfg.FallbackType)
	assert.Equal(t, []string{"fuseblk"}, cfg.NTFSAliases)

	// marker file keeps its default
	assert.Equal(t, "/var/lib/krpa/lastrun", cfg.MarkerFile)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("KRPA_LOG_FILE", "/tmp/override.log")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.log", cfg.LogFile)
}

func TestLoadSanitizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `dmesg_window: -5
fallback_type: ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.DmesgWindow)
	assert.Equal(t, "ntfs-3g", cfg.FallbackType)
}
