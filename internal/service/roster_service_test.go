package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/util"
)

func TestRosterService_Export(t *testing.T) {
	db := newTestDB(t)
	f := seedWedding(t, db)
	defs := NewFieldDefinitionService(db)
	srv := NewRosterService(NewEventService(db, defs), defs, "en-US")

	res, err := srv.Export(context.Background(), f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wedding-"+util.Truncate(model.FormatID(f.event.ID), 8)+"-Roster.xlsx", res.Filename)
	assert.Equal(t, rosterContentType, res.ContentType)

	book, err := excelize.OpenReader(bytes.NewReader(res.Data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(rosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, []string{"Field", "Type", "Núñez / Smith wedding", "2025-06-14 14:00"}, rows[0])
	assert.Equal(t, []string{"Bride", "person", "Maria Núñez"}, rows[1])
	assert.Equal(t, []string{"First Reading", "content", "Genesis 2"}, rows[4])
	assert.Equal(t, []string{"Psalm Reader", "person", "John Smith", "Jane Doe"}, rows[5])
	assert.Equal(t, []string{"Unity Candle", "yes_no", "Yes"}, rows[6])
	assert.Equal(t, []string{"Notes", "text", "Bring the rings"}, rows[7])
}

func TestRosterService_Missing(t *testing.T) {
	srv := NewRosterService(fakeEntities{}, fakeDefs{}, "en-US")
	_, err := srv.Export(context.Background(), 1)
	assert.ErrorIs(t, err, constant.ErrEntityNotFound)
}
