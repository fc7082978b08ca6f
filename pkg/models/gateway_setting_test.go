package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewaySettingGetMissing(t *testing.T) {
	db := testDB(t)

	var s GatewaySetting
	found, err := s.Get(db, "api_key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGatewaySettingUpsert(t *testing.T) {
	db := testDB(t)

	s := GatewaySetting{Name: "destination_email", Value: "a@example.com"}
	require.NoError(t, s.Upsert(db))

	s.Value = "b@example.com"
	require.NoError(t, s.Upsert(db))

	var got GatewaySetting
	found, err := got.Get(db, "destination_email")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "b@example.com", got.Value)
}

func TestGatewaySettingCreateIfAbsent(t *testing.T) {
	db := testDB(t)

	first := GatewaySetting{Name: "api_key", Value: "aaaa"}
	created, err := first.CreateIfAbsent(db)
	require.NoError(t, err)
	assert.True(t, created)

	// A second writer loses the race and keeps the existing value.
	second := GatewaySetting{Name: "api_key", Value: "bbbb"}
	created, err = second.CreateIfAbsent(db)
	require.NoError(t, err)
	assert.False(t, created)

	var got GatewaySetting
	found, err := got.Get(db, "api_key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "aaaa", got.Value)
}
