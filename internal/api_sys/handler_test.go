package sysapi

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yockii/parish_tools/internal/middleware"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/database"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	defs := service.NewFieldDefinitionService(db)
	handlers := []Handler{
		&ScriptHandler{scriptService: service.NewScriptService(db, defs)},
		&SectionHandler{sectionService: service.NewSectionService(db)},
		&FieldDefinitionHandler{fieldDefinitionService: defs},
	}
	fakeAuth := func(c *fiber.Ctx) error {
		c.Locals(middleware.CallerKey, "tester")
		return c.Next()
	}

	app := fiber.New()
	group := app.Group("/sys_api/v1")
	for _, h := range handlers {
		h.RegisterRoutes(group, fakeAuth)
	}
	return app, db
}

func call(t *testing.T, app *fiber.App, method, url, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func dataMap(t *testing.T, res map[string]any) map[string]any {
	t.Helper()
	data, ok := res["data"].(map[string]any)
	require.True(t, ok, "data is %T", res["data"])
	return data
}

func TestScriptAndSectionRoutes(t *testing.T) {
	app, db := newTestApp(t)
	eventType := &model.EventType{Name: "Wedding", SystemType: model.SystemTypeSpecialLiturgy}
	require.NoError(t, db.Create(eventType).Error)
	etID := eventType.IDString()

	status, res := call(t, app, "POST", "/sys_api/v1/field_definition/new",
		`{"eventTypeId":"`+etID+`","propertyName":"bride","name":"Bride","type":"person","isKeyPerson":true}`)
	require.Equal(t, fiber.StatusOK, status, res)

	status, res = call(t, app, "POST", "/sys_api/v1/field_definition/new",
		`{"eventTypeId":"`+etID+`","propertyName":"Bride","name":"Bride","type":"person"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "property name may only contain a-z, 0-9 and _", res["message"])

	status, res = call(t, app, "POST", "/sys_api/v1/script/new", `{"eventTypeId":"`+etID+`","name":"Ceremony"}`)
	require.Equal(t, fiber.StatusOK, status, res)
	scriptID := dataMap(t, res)["id"].(string)

	var sectionIDs []string
	for _, content := range []string{"{{bride.full_name}}", "{{groom.full_name}}"} {
		status, res = call(t, app, "POST", "/sys_api/v1/section/new",
			`{"scriptId":"`+scriptID+`","name":"Vows","content":"`+content+`"}`)
		require.Equal(t, fiber.StatusOK, status, res)
		sectionIDs = append(sectionIDs, dataMap(t, res)["id"].(string))
	}

	status, res = call(t, app, "POST", "/sys_api/v1/section/reorder",
		`{"scriptId":"`+scriptID+`","ids":["`+sectionIDs[1]+`","`+sectionIDs[0]+`"]}`)
	require.Equal(t, fiber.StatusOK, status, res)

	status, res = call(t, app, "GET", "/sys_api/v1/script/get?id="+scriptID, "")
	require.Equal(t, fiber.StatusOK, status)
	sections := dataMap(t, res)["sections"].([]any)
	require.Len(t, sections, 2)
	assert.Equal(t, sectionIDs[1], sections[0].(map[string]any)["id"])

	status, res = call(t, app, "GET", "/sys_api/v1/script/lint?id="+scriptID, "")
	require.Equal(t, fiber.StatusOK, status)
	issues := res["data"].([]any)
	require.Len(t, issues, 1)
	assert.Equal(t, "{{groom.full_name}}", issues[0].(map[string]any)["token"])

	status, _ = call(t, app, "POST", "/sys_api/v1/section/reorder",
		`{"scriptId":"`+scriptID+`","ids":["`+sectionIDs[0]+`"]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, res = call(t, app, "GET", "/sys_api/v1/script/list?event_type_id="+etID, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, dataMap(t, res)["total"])

	status, _ = call(t, app, "POST", "/sys_api/v1/script/delete", `{"id":"`+scriptID+`"}`)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = call(t, app, "GET", "/sys_api/v1/script/get?id="+scriptID, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRoutesRejectBadInput(t *testing.T) {
	app, _ := newTestApp(t)
	cases := []struct {
		method, url, body string
		status            int
	}{
		{"GET", "/sys_api/v1/script/get?id=abc", "", fiber.StatusBadRequest},
		{"GET", "/sys_api/v1/script/lint?id=404", "", fiber.StatusNotFound},
		{"GET", "/sys_api/v1/section/list", "", fiber.StatusBadRequest},
		{"POST", "/sys_api/v1/script/new", `{"eventTypeId":"12345","name":"x"}`, fiber.StatusNotFound},
		{"POST", "/sys_api/v1/section/new", `{"scriptId":"12345","name":"x"}`, fiber.StatusNotFound},
		{"POST", "/sys_api/v1/script/reorder", `{"eventTypeId":"1","ids":["x"]}`, fiber.StatusBadRequest},
		{"POST", "/sys_api/v1/field_definition/delete", `{}`, fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		status, _ := call(t, app, tc.method, tc.url, tc.body)
		assert.Equal(t, tc.status, status, tc.url)
	}
}
