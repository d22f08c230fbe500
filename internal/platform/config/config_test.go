package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
mode: release
server:
  addr: ":9090"
state:
  path: /var/lib/lms/library_db.json
auth:
  jwt_secret: super-secret
policy:
  max_books_per_member: 3
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/lms/library_db.json", cfg.State.Path)
	assert.Equal(t, 3, cfg.Policy.MaxBooksPerMember)

	// 未指定の項目はデフォルトで埋まる
	assert.Equal(t, "backups", cfg.State.BackupDir)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.Equal(t, 14, cfg.Policy.DefaultLoanDays)
	assert.False(t, cfg.TLSEnabled())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: [broken"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestTLSEnabled(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.TLSEnabled())
	cfg.Certificate.Cert = "cert.pem"
	assert.False(t, cfg.TLSEnabled())
	cfg.Certificate.Key = "key.pem"
	assert.True(t, cfg.TLSEnabled())
}
