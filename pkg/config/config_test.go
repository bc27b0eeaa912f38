package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "sqlite", GetString("database.type"))
	assert.Equal(t, 11.0, GetFloat64("render.body_size"))
	assert.Equal(t, ":8080", GetServerAddress())
	assert.Equal(t, "data/parish.db", GetDSN())
}

func TestValidate(t *testing.T) {
	t.Cleanup(func() {
		Set("database.type", "sqlite")
		Set("render.body_size", 11)
	})
	assert.NoError(t, Validate())

	Set("database.type", "oracle")
	assert.ErrorIs(t, Validate(), ErrInvalidDatabaseConfig)

	Set("database.type", "sqlite")
	Set("render.body_size", 0)
	assert.ErrorIs(t, Validate(), ErrInvalidConfig)
}
