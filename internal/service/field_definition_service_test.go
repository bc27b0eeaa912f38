package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
)

func TestFieldDefinitionService_Validation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	srv := NewFieldDefinitionService(db)

	cases := []struct {
		name string
		def  model.FieldDefinition
		want error
	}{
		{"upper case", model.FieldDefinition{EventTypeID: 1, PropertyName: "Presider", Name: "Presider", Type: "person"}, constant.ErrInvalidPropertyName},
		{"dash", model.FieldDefinition{EventTypeID: 1, PropertyName: "first-reader", Name: "Reader", Type: "person"}, constant.ErrInvalidPropertyName},
		{"reserved", model.FieldDefinition{EventTypeID: 1, PropertyName: "parish", Name: "Parish", Type: "text"}, constant.ErrInvalidPropertyName},
		{"unknown type", model.FieldDefinition{EventTypeID: 1, PropertyName: "hymn", Name: "Hymn", Type: "song"}, constant.ErrInvalidFieldType},
		{"no label", model.FieldDefinition{EventTypeID: 1, PropertyName: "hymn", Type: "text"}, constant.ErrInvalidParams},
		{"no event type", model.FieldDefinition{PropertyName: "hymn", Name: "Hymn", Type: "text"}, constant.ErrInvalidParams},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := tc.def
			assert.ErrorIs(t, srv.Create(ctx, &def), tc.want)
		})
	}
}

func TestFieldDefinitionService_UniquePerEventType(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	srv := NewFieldDefinitionService(db)

	first := &model.FieldDefinition{EventTypeID: 1, PropertyName: "presider", Name: "Presider", Type: "person"}
	require.NoError(t, srv.Create(ctx, first))
	second := &model.FieldDefinition{EventTypeID: 1, PropertyName: "candle", Name: "Candle", Type: "yes_no"}
	require.NoError(t, srv.Create(ctx, second))
	assert.Equal(t, "boolean", second.Type)
	assert.Equal(t, 1, second.Order)

	dup := &model.FieldDefinition{EventTypeID: 1, PropertyName: "presider", Name: "Celebrant", Type: "person"}
	assert.ErrorIs(t, srv.Create(ctx, dup), constant.ErrRecordDuplicate)

	// the same name is fine on another event type
	require.NoError(t, srv.Create(ctx, &model.FieldDefinition{EventTypeID: 2, PropertyName: "presider", Name: "Presider", Type: "person"}))

	// renaming onto an existing property name is rejected too
	second.PropertyName = "presider"
	assert.ErrorIs(t, srv.Update(ctx, second), constant.ErrRecordDuplicate)

	defs, err := srv.GetFieldDefinitions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "presider", defs[0].PropertyName)
	assert.Equal(t, "candle", defs[1].PropertyName)
}

func TestFieldDefinitionService_UpdateKeepsEventType(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	srv := NewFieldDefinitionService(db)

	def := &model.FieldDefinition{EventTypeID: 1, PropertyName: "cantor", Name: "Cantor", Type: "person", Required: true}
	require.NoError(t, srv.Create(ctx, def))

	require.NoError(t, srv.Update(ctx, &model.FieldDefinition{
		BaseModel:    model.BaseModel{ID: def.ID},
		EventTypeID:  7,
		PropertyName: "cantor",
		Name:         "Cantor / Psalmist",
		Type:         "person",
	}))
	got, err := srv.Get(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.EventTypeID)
	assert.Equal(t, "Cantor / Psalmist", got.Name)
	assert.False(t, got.Required)
}
