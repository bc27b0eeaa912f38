package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
)

func sectionOrders(t *testing.T, srv *sectionService, scriptID uint64) ([]uint64, []int) {
	t.Helper()
	sections, err := srv.ListByScript(context.Background(), scriptID)
	require.NoError(t, err)
	ids := make([]uint64, 0, len(sections))
	orders := make([]int, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.ID)
		orders = append(orders, s.Order)
	}
	return ids, orders
}

func TestSectionService_CreateAppends(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	script := seedScript(t, db, 1)
	srv := NewSectionService(db)

	for _, name := range []string{"Entrance", "Readings", "Vows"} {
		require.NoError(t, srv.Create(ctx, &model.Section{ScriptID: script.ID, Name: name, Order: 42}))
	}
	_, orders := sectionOrders(t, srv, script.ID)
	assert.Equal(t, []int{0, 1, 2}, orders)

	err := srv.Create(ctx, &model.Section{ScriptID: 12345, Name: "Orphan"})
	assert.ErrorIs(t, err, constant.ErrRecordNotFound)

	err = srv.Create(ctx, &model.Section{ScriptID: script.ID, SectionType: "video"})
	assert.ErrorIs(t, err, constant.ErrInvalidParams)
}

func TestSectionService_DeleteCompactsOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	script := seedScript(t, db, 1,
		&model.Section{Name: "a"}, &model.Section{Name: "b"}, &model.Section{Name: "c"}, &model.Section{Name: "d"})
	srv := NewSectionService(db)

	ids, _ := sectionOrders(t, srv, script.ID)
	require.NoError(t, srv.Delete(ctx, ids[1]))

	rest, orders := sectionOrders(t, srv, script.ID)
	assert.Equal(t, []uint64{ids[0], ids[2], ids[3]}, rest)
	assert.Equal(t, []int{0, 1, 2}, orders)

	// hard delete
	var count int64
	require.NoError(t, db.Unscoped().Model(&model.Section{}).Where("id = ?", ids[1]).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, srv.Delete(ctx, ids[1]), constant.ErrRecordNotFound)
}

func TestSectionService_Reorder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	script := seedScript(t, db, 1, &model.Section{Name: "a"}, &model.Section{Name: "b"}, &model.Section{Name: "c"})
	other := seedScript(t, db, 1, &model.Section{Name: "x"})
	srv := NewSectionService(db)

	ids, _ := sectionOrders(t, srv, script.ID)
	otherIDs, _ := sectionOrders(t, srv, other.ID)

	require.NoError(t, srv.Reorder(ctx, script.ID, []uint64{ids[2], ids[0], ids[1]}))
	got, orders := sectionOrders(t, srv, script.ID)
	assert.Equal(t, []uint64{ids[2], ids[0], ids[1]}, got)
	assert.Equal(t, []int{0, 1, 2}, orders)

	invalid := map[string][]uint64{
		"missing":   {ids[0], ids[1]},
		"duplicate": {ids[0], ids[0], ids[1]},
		"foreign":   {ids[0], ids[1], otherIDs[0]},
		"extra":     {ids[0], ids[1], ids[2], otherIDs[0]},
	}
	for name, order := range invalid {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, srv.Reorder(ctx, script.ID, order), constant.ErrInvalidParams)
			unchanged, _ := sectionOrders(t, srv, script.ID)
			assert.Equal(t, []uint64{ids[2], ids[0], ids[1]}, unchanged)
		})
	}
}

func TestSectionService_UpdateWritesFalse(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	script := seedScript(t, db, 1, &model.Section{Name: "Cover", PageBreakAfter: true})
	srv := NewSectionService(db)
	ids, _ := sectionOrders(t, srv, script.ID)

	require.NoError(t, srv.Update(ctx, &model.Section{
		BaseModel: model.BaseModel{ID: ids[0]},
		Name:      "Cover page",
		Content:   "{{bride.full_name}}",
	}))
	got, err := srv.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Cover page", got.Name)
	assert.False(t, got.PageBreakAfter)
	assert.Equal(t, 0, got.Order)

	assert.ErrorIs(t, srv.Update(ctx, &model.Section{Name: "x"}), constant.ErrRecordIDEmpty)
}
