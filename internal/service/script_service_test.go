package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
)

func TestScriptService_CreateListReorder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedWedding(t, db)
	srv := NewScriptService(db, NewFieldDefinitionService(db))

	var ids []uint64
	for _, name := range []string{"Ceremony", "Program", "Readings"} {
		s := &model.Script{EventTypeID: f.eventType.ID, Name: name}
		require.NoError(t, srv.Create(ctx, s))
		ids = append(ids, s.ID)
	}

	list, total, err := srv.List(ctx, &model.Script{EventTypeID: f.eventType.ID}, 0, DefaultPageSize)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "Ceremony", list[0].Name)
	assert.Equal(t, 2, list[2].Order)

	require.NoError(t, srv.Reorder(ctx, f.eventType.ID, []uint64{ids[2], ids[1], ids[0]}))
	list, _, err = srv.List(ctx, &model.Script{EventTypeID: f.eventType.ID}, 0, DefaultPageSize)
	require.NoError(t, err)
	assert.Equal(t, []string{"Readings", "Program", "Ceremony"}, []string{list[0].Name, list[1].Name, list[2].Name})

	assert.ErrorIs(t, srv.Reorder(ctx, f.eventType.ID, ids[:2]), constant.ErrInvalidParams)

	assert.ErrorIs(t, srv.Create(ctx, &model.Script{EventTypeID: 999, Name: "x"}), constant.ErrRecordNotFound)
	assert.ErrorIs(t, srv.Create(ctx, &model.Script{EventTypeID: f.eventType.ID, Name: " "}), constant.ErrInvalidParams)
}

func TestScriptService_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	script := seedScript(t, db, 1, &model.Section{Name: "a"})
	srv := NewScriptService(db, NewFieldDefinitionService(db))

	got, err := srv.GetScriptWithSections(ctx, script.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Sections, 1)

	require.NoError(t, srv.Delete(ctx, script.ID))

	got, err = srv.GetScriptWithSections(ctx, script.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var count int64
	require.NoError(t, db.Unscoped().Model(&model.Script{}).Where("id = ?", script.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestScriptService_SectionsOrdered(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	script := seedScript(t, db, 1, &model.Section{Name: "a"}, &model.Section{Name: "b"}, &model.Section{Name: "c"})
	require.NoError(t, db.Model(&model.Section{}).Where("name = ?", "a").Update("sort_order", 5).Error)

	got, err := NewScriptService(db, NewFieldDefinitionService(db)).GetScriptWithSections(ctx, script.ID)
	require.NoError(t, err)
	names := []string{}
	for _, s := range got.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"b", "c", "a"}, names)
}

func TestScriptService_Lint(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedWedding(t, db)
	script := seedScript(t, db, f.eventType.ID,
		&model.Section{Name: "Vows", Content: "{{bride.full_name}} and {{grom.full_name}}"},
		&model.Section{Name: "Readings", Content: "{{first_reading.title}} {{church.nickname}} {{parish.city_state}}"},
	)
	srv := NewScriptService(db, NewFieldDefinitionService(db))

	issues, err := srv.Lint(ctx, script.ID)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "{{grom.full_name}}", issues[0].Token)
	assert.Equal(t, "Vows", issues[0].SectionName)
	assert.Equal(t, "{{church.nickname}}", issues[1].Token)

	_, err = srv.Lint(ctx, 404)
	assert.ErrorIs(t, err, constant.ErrScriptNotFound)
}
