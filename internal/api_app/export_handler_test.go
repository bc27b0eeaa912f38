package appapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/htmlgen"
)

type fakeExport struct {
	last      *service.ExportRequest
	autoPrint bool
	err       error
}

func (f *fakeExport) Export(ctx context.Context, req *service.ExportRequest) (*service.ExportResult, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportResult{
		Data:        []byte("%PDF-1.3 fake"),
		Filename:    "Mass-John-Smith-20251225.pdf",
		ContentType: "application/pdf",
		Disposition: `attachment; filename="Mass-John-Smith-20251225.pdf"`,
	}, nil
}

func (f *fakeExport) View(ctx context.Context, req *service.ExportRequest) (*htmlgen.View, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &htmlgen.View{Title: "Sunday Mass", Sections: []htmlgen.ViewSection{{Title: "Cover", HTML: "<p>St. Anne</p>"}}}, nil
}

func (f *fakeExport) Preview(ctx context.Context, req *service.ExportRequest, autoPrint bool) ([]byte, error) {
	f.last = req
	f.autoPrint = autoPrint
	return []byte("<!DOCTYPE html><html></html>"), f.err
}

type fakeRoster struct{}

func (fakeRoster) Export(ctx context.Context, entityID uint64) (*service.ExportResult, error) {
	if entityID != 5 {
		return nil, constant.ErrEntityNotFound
	}
	return &service.ExportResult{Data: []byte("PK"), ContentType: "application/xlsx", Disposition: `attachment; filename="Wedding-5-Roster.xlsx"`}, nil
}

func newExportApp(exp *fakeExport) *fiber.App {
	app := fiber.New()
	h := &ExportHandler{exportService: exp, rosterService: fakeRoster{}}
	h.RegisterRoutes(app.Group("/api/v1"))
	return app
}

func get(t *testing.T, app *fiber.App, url string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestExportHandler_Document(t *testing.T) {
	exp := &fakeExport{}
	app := newExportApp(exp)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/export/document?entity_id=1&script_id=2&format=pdf&calendar_event_id=3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="Mass-John-Smith-20251225.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-1.3 fake", string(body))
	assert.Equal(t, &service.ExportRequest{EntityID: 1, ScriptID: 2, Format: "pdf", CalendarEventID: 3}, exp.last)
}

func TestExportHandler_BadParams(t *testing.T) {
	app := newExportApp(&fakeExport{})
	for _, url := range []string{
		"/api/v1/export/document?script_id=2&format=pdf",
		"/api/v1/export/document?entity_id=abc&script_id=2&format=pdf",
		"/api/v1/export/document?entity_id=1&format=pdf",
		"/api/v1/export/document?entity_id=1&script_id=2&calendar_event_id=x",
		"/api/v1/export/roster",
	} {
		status, _ := get(t, app, url)
		assert.Equal(t, fiber.StatusBadRequest, status, url)
	}
}

func TestExportHandler_Errors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{constant.ErrEntityNotFound, fiber.StatusNotFound, "event not found"},
		{constant.ErrScriptNotFound, fiber.StatusNotFound, "script not found for this event"},
		{constant.ErrUnsupportedFormat, fiber.StatusBadRequest, "unsupported export format"},
		{errors.Join(constant.ErrRenderFailed, errors.New("fpdf: font missing")), fiber.StatusInternalServerError, "failed to render document"},
		{errors.New("connection refused"), fiber.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			app := newExportApp(&fakeExport{err: tc.err})
			status, body := get(t, app, "/api/v1/export/document?entity_id=1&script_id=2&format=docx")
			assert.Equal(t, tc.status, status)

			var res service.Response
			require.NoError(t, json.Unmarshal([]byte(body), &res))
			assert.Equal(t, tc.status, res.Code)
			assert.Equal(t, tc.message, res.Message)
		})
	}
}

func TestExportHandler_ViewAndPreview(t *testing.T) {
	exp := &fakeExport{}
	app := newExportApp(exp)

	status, body := get(t, app, "/api/v1/export/view?entity_id=1&script_id=2")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"code":200,"message":"success","data":{"title":"Sunday Mass","sections":[{"title":"Cover","html":"<p>St. Anne</p>","pageBreakAfter":false}]}}`, body)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/export/preview?entity_id=1&script_id=2&print=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.MIMETextHTMLCharsetUTF8, resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, exp.autoPrint)

	_, _ = get(t, app, "/api/v1/export/preview?entity_id=1&script_id=2")
	assert.False(t, exp.autoPrint)
}

func TestExportHandler_Roster(t *testing.T) {
	app := newExportApp(&fakeExport{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/export/roster?entity_id=5", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="Wedding-5-Roster.xlsx"`, resp.Header.Get(fiber.HeaderContentDisposition))

	status, _ := get(t, app, "/api/v1/export/roster?entity_id=6")
	assert.Equal(t, fiber.StatusNotFound, status)
}
