package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr = ":9000"

database {
  driver = "postgres"
  host   = "localhost"
  port   = 5432
  user   = "gateway"
  dbname = "gateway"
}

mail {
  smtp_host    = "smtp.example.com"
  smtp_port    = "587"
  from_address = "noreply@example.com"
  use_tls      = true
}

notifications {
  default_destination = "admin@example.com"
}

course "5" {
  title = "Basics"
}
`), 0o600))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "smtp.example.com", cfg.Mail.SMTPHost)
	assert.True(t, cfg.Mail.UseTLS)
	assert.Equal(t, "admin@example.com", cfg.Notifications.DefaultDestination)
	require.Len(t, cfg.Courses, 1)
	assert.Equal(t, "5", cfg.Courses[0].ID)
	assert.Equal(t, "Basics", cfg.Courses[0].Title)
}

func TestNewConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.ListenAddr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "ldgateway.db", cfg.Database.Path)
	assert.NotNil(t, cfg.Mail)
	assert.NotNil(t, cfg.Notifications)
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}
