package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/threadcraft/backend/internal/progress"
)

func TestProgressGetNoThread(t *testing.T) {
	prog := newFakeProgress()
	handler := ProgressHandler{Progress: prog}

	req := authedRequest(t, http.MethodGet, "/api/progress", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp.Data["current_day"] != float64(0) || resp.Data["next_day"] != float64(1) {
		t.Fatalf("unexpected day fields: %+v", resp.Data)
	}
	if resp.Data["thread_id"] != nil {
		t.Fatalf("expected null thread_id, got %v", resp.Data["thread_id"])
	}
	if resp.Data["has_active_thread"] != false {
		t.Fatalf("expected has_active_thread false")
	}
}

func TestProgressGetActiveThread(t *testing.T) {
	prog := newFakeProgress()
	prog.records["session-1"] = progress.Record{Day: 4, ThreadID: "555"}
	handler := ProgressHandler{Progress: prog}

	req := authedRequest(t, http.MethodGet, "/api/progress", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	resp := decodeEnvelope(t, rec)
	if resp.Data["current_day"] != float64(4) || resp.Data["next_day"] != float64(5) {
		t.Fatalf("unexpected day fields: %+v", resp.Data)
	}
	if resp.Data["thread_id"] != "555" || resp.Data["has_active_thread"] != true {
		t.Fatalf("expected active thread, got %+v", resp.Data)
	}
}

func TestProgressReset(t *testing.T) {
	prog := newFakeProgress()
	prog.records["session-1"] = progress.Record{Day: 4, ThreadID: "555"}
	handler := ProgressHandler{Progress: prog}

	req := authedRequest(t, http.MethodPost, "/api/progress/reset", nil)
	rec := httptest.NewRecorder()
	handler.Reset(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if record := prog.records["session-1"]; record.Day != 0 || record.ThreadID != "" {
		t.Fatalf("expected progress cleared, got %+v", record)
	}
}
