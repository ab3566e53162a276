package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSONError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSONError(rec, http.StatusBadRequest, "missing lead1")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %s, want application/json", ct)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "missing lead1" {
		t.Errorf("error = %s, want 'missing lead1'", resp["error"])
	}
}

func TestWriteJSONOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSONOK(rec, map[string]float64{"angle": -35})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp map[string]float64
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["angle"] != -35 {
		t.Errorf("angle = %v, want -35", resp["angle"])
	}
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
	}{
		{"method not allowed", MethodNotAllowed, http.StatusMethodNotAllowed},
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "x") }, http.StatusBadRequest},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "x") }, http.StatusNotFound},
		{"conflict", func(w http.ResponseWriter) { Conflict(w, "x") }, http.StatusConflict},
		{"unprocessable", func(w http.ResponseWriter) { UnprocessableEntity(w, "x") }, http.StatusUnprocessableEntity},
		{"internal", func(w http.ResponseWriter) { InternalServerError(w, "x") }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type body struct {
		Lead1 float64 `json:"lead1"`
	}

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"lead1": 3.5}`, false},
		{"empty", ``, true},
		{"malformed", `{"lead1":`, true},
		{"unknown field", `{"lead1": 1, "lead2": 2}`, true},
		{"wrong type", `{"lead1": "three"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var b body
			err := DecodeJSON(req, &b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && b.Lead1 != 3.5 {
				t.Errorf("lead1 = %v, want 3.5", b.Lead1)
			}
		})
	}
}
