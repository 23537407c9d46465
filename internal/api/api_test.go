package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/T4ya/appasistencia/internal/live"
	"github.com/T4ya/appasistencia/internal/sheets"
	"github.com/T4ya/appasistencia/internal/store"
)

// stubClient is a minimal sheets.Client: one shared grid, optionally failing
// every call. Enough to drive the mirror through its not-found and transport
// error paths.
type stubClient struct {
	grid sheets.Grid
	err  error
}

func (s *stubClient) ReadSheet(_ context.Context, _, _ string) (sheets.Grid, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.grid, nil
}

func (s *stubClient) WriteRange(_ context.Context, _, _ string, _ [][]interface{}) error {
	return s.err
}

func (s *stubClient) SheetTitles(_ context.Context, _ string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []string{"ASISTENCIA"}, nil
}

func newTestRouter(t *testing.T, client sheets.Client) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "asistencia.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	groups := []sheets.Group{
		{Name: "GRUPO1", SheetID: "sheet-g1"},
		{Name: "GRUPO2", SheetID: "sheet-g2"},
	}
	rec := sheets.NewReconciler(client, sheets.DefaultLayout(), groups, false)
	handler := NewHandler(st, rec, client, groups, live.NewHub())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router, st
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterAttendance_SucceedsEvenWhenMirrorFails(t *testing.T) {
	// every spreadsheet call fails: the mirror must be invisible to the student
	router, st := newTestRouter(t, &stubClient{err: errors.New("quota exceeded")})

	ev, err := st.CreateEvent("Charla IA", "2025-03-01", "", "")
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := st.CreateStudent("1001", "SISTEMAS", "Ana Pérez", "12345678"); err != nil {
		t.Fatalf("create student: %v", err)
	}

	w := postJSON(t, router, "/api/attendance", gin.H{
		"eventId":    ev.ID,
		"documentId": "12345678",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Student struct {
			FullName   string `json:"full_name"`
			DocumentID string `json:"document_id"`
		} `json:"student"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Student.FullName != "Ana Pérez" || resp.Student.DocumentID != "12345678" {
		t.Fatalf("student = %+v", resp.Student)
	}

	// the relational record exists despite the dead mirror
	stu, err := st.GetStudentByDocument("12345678")
	if err != nil {
		t.Fatalf("get student: %v", err)
	}
	exists, err := st.HasAttendance(ev.ID, stu.ID)
	if err != nil {
		t.Fatalf("has attendance: %v", err)
	}
	if !exists {
		t.Fatal("attendance row missing")
	}
}

func TestRegisterAttendance_Duplicate(t *testing.T) {
	router, st := newTestRouter(t, &stubClient{})

	ev, err := st.CreateEvent("Charla IA", "2025-03-01", "", "")
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := st.CreateStudent("1001", "SISTEMAS", "Ana Pérez", "12345678"); err != nil {
		t.Fatalf("create student: %v", err)
	}

	body := gin.H{"eventId": ev.ID, "documentId": "12345678"}
	if w := postJSON(t, router, "/api/attendance", body); w.Code != http.StatusOK {
		t.Fatalf("first registration status = %d", w.Code)
	}
	if w := postJSON(t, router, "/api/attendance", body); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate registration status = %d, want 400", w.Code)
	}
}

func TestRegisterAttendance_UnknownEventAndStudent(t *testing.T) {
	router, st := newTestRouter(t, &stubClient{})

	if w := postJSON(t, router, "/api/attendance", gin.H{
		"eventId":    "missing",
		"documentId": "12345678",
	}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown event status = %d, want 404", w.Code)
	}

	ev, err := st.CreateEvent("Charla IA", "2025-03-01", "", "")
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if w := postJSON(t, router, "/api/attendance", gin.H{
		"eventId":    ev.ID,
		"documentId": "00000000",
	}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown student status = %d, want 404", w.Code)
	}
}

func TestRegisterAttendanceSheet_NotFoundAnywhere(t *testing.T) {
	// empty worksheets: no roster contains anyone
	router, _ := newTestRouter(t, &stubClient{})

	w := postJSON(t, router, "/api/attendance/sheet", gin.H{
		"eventId":    "EV025",
		"documentId": "00000000",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body = %s", w.Code, w.Body.String())
	}
}

func TestCheckSheets_ReportsFailure(t *testing.T) {
	router, _ := newTestRouter(t, &stubClient{err: errors.New("auth failed")})

	w := getJSON(t, router, "/api/sheets/check")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Success bool `json:"success"`
		Groups  map[string]struct {
			Access bool   `json:"access"`
			Error  string `json:"error"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatal("success = true, want false")
	}
	if g := resp.Groups["GRUPO1"]; g.Access || g.Error == "" {
		t.Fatalf("GRUPO1 = %+v, want inaccessible with error", g)
	}
}

func TestEventEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, &stubClient{})

	w := postJSON(t, router, "/api/events", gin.H{
		"title": "Charla IA",
		"date":  "2025-03-01",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create event status = %d, body = %s", w.Code, w.Body.String())
	}
	var ev struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ev); err != nil || ev.ID == "" {
		t.Fatalf("create event response: %v, %s", err, w.Body.String())
	}

	if w := getJSON(t, router, "/api/events/"+ev.ID); w.Code != http.StatusOK {
		t.Fatalf("get event status = %d", w.Code)
	}
	if w := getJSON(t, router, "/api/events/missing"); w.Code != http.StatusNotFound {
		t.Fatalf("missing event status = %d, want 404", w.Code)
	}
	if w := getJSON(t, router, "/api/events/"+ev.ID+"/attendances"); w.Code != http.StatusOK {
		t.Fatalf("attendances status = %d", w.Code)
	}
}

func TestGetStudent(t *testing.T) {
	router, st := newTestRouter(t, &stubClient{})

	if _, err := st.CreateStudent("1001", "SISTEMAS", "Ana Pérez", "12345678"); err != nil {
		t.Fatalf("create student: %v", err)
	}

	if w := getJSON(t, router, "/api/students/12345678"); w.Code != http.StatusOK {
		t.Fatalf("student status = %d", w.Code)
	}
	if w := getJSON(t, router, "/api/students/00000000"); w.Code != http.StatusNotFound {
		t.Fatalf("missing student status = %d, want 404", w.Code)
	}
}
