package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/parish_tools/pkg/database"
)

func TestAutoMigrateAndSeed(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, InitData(db))
	// seeding twice leaves the data as it was
	require.NoError(t, InitData(db))

	var types int64
	require.NoError(t, db.Model(&EventType{}).Count(&types).Error)
	assert.Equal(t, int64(len(seedEventTypes)), types)

	var mass EventType
	require.NoError(t, db.Where("name = ?", "Mass").First(&mass).Error)
	assert.Equal(t, SystemTypeMass, mass.SystemType)
	assert.NotZero(t, mass.ID)

	var defs []FieldDefinition
	require.NoError(t, db.Where("event_type_id = ?", mass.ID).Order("sort_order").Find(&defs).Error)
	require.NotEmpty(t, defs)
	assert.Equal(t, "presider", defs[0].PropertyName)
	assert.True(t, defs[0].IsKeyPerson)

	var parishes int64
	require.NoError(t, db.Model(&Parish{}).Count(&parishes).Error)
	assert.Equal(t, int64(1), parishes)
}

func TestFormatParseID(t *testing.T) {
	assert.Equal(t, "", FormatID(0))
	assert.Equal(t, uint64(42), ParseID(FormatID(42)))
	assert.Zero(t, ParseID("abc"))
}
