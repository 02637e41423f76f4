package httpjson

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusBadRequest, "invalid json")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: want %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type: got %q", ct)
	}
	if got := rr.Body.String(); got != "{\"error\":\"invalid json\"}\n" {
		t.Fatalf("body: got %q", got)
	}
}

func TestWriteCodedError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteCodedError(rr, http.StatusConflict, "updates_disabled", "update checks are disabled")
	want := "{\"error\":\"update checks are disabled\",\"code\":\"updates_disabled\"}\n"
	if got := rr.Body.String(); got != want {
		t.Fatalf("body: want %q, got %q", want, got)
	}
}
