package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bureauram/ldgateway/pkg/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.ModelsToAutoMigrate()...))
	return db
}

func TestLoadDefaults(t *testing.T) {
	store := NewStore(testDB(t), "admin@example.com", nil)

	s, err := store.Load()
	require.NoError(t, err)

	assert.Empty(t, s.APIKey)
	assert.False(t, s.SendConfirmationEmail)
	assert.True(t, s.UpdateUserData, "name registration defaults to enabled")
	assert.False(t, s.IncludePasswordInEmail)
	assert.Equal(t, "admin@example.com", s.DestinationEmail)
}

func TestLoadConfigured(t *testing.T) {
	store := NewStore(testDB(t), "admin@example.com", nil)

	require.NoError(t, store.Set(SettingSendConfirmationEmail, "1"))
	require.NoError(t, store.Set(SettingUpdateUserData, "0"))
	require.NoError(t, store.Set(SettingIncludePassword, "1"))
	require.NoError(t, store.Set(SettingDestinationEmail, "a@x.com;b@x.com"))

	s, err := store.Load()
	require.NoError(t, err)

	assert.True(t, s.SendConfirmationEmail)
	assert.False(t, s.UpdateUserData)
	assert.True(t, s.IncludePasswordInEmail)
	assert.Equal(t, "a@x.com;b@x.com", s.DestinationEmail)
}

func TestEnsureAPIKey(t *testing.T) {
	store := NewStore(testDB(t), "", nil)

	key, generated, err := store.EnsureAPIKey()
	require.NoError(t, err)
	assert.True(t, generated)
	assert.Len(t, key, 32)

	// A second call finds the persisted key instead of generating a new one.
	again, generated, err := store.EnsureAPIKey()
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, key, again)

	s, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, key, s.APIKey)
}

func TestGenerateAPIKey(t *testing.T) {
	a, err := GenerateAPIKey()
	require.NoError(t, err)
	b, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
