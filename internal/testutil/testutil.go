// Package testutil provides shared test fixtures: a migrated sqlite store,
// WFDB header text and HTTP request helpers.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/heartaxis/internal/db"
)

// NewTestDB returns a migrated database in t.TempDir(), closed on cleanup.
func NewTestDB(t testing.TB) *db.DB {
	t.Helper()
	store, err := db.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// Header returns a WFDB header for record with one signal line per lead
// followed by the given comment lines (without '#').
func Header(record string, leads []string, comments ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d 500 5000\n", record, len(leads))
	for _, lead := range leads {
		fmt.Fprintf(&b, "%s.dat 16 1000.0(0)/mV 16 0 0 0 0 %s\n", record, lead)
	}
	for _, c := range comments {
		fmt.Fprintf(&b, "#%s\n", c)
	}
	return b.String()
}

// LimbLeads are the leads every importable header must carry.
var LimbLeads = []string{"i", "ii", "iii"}

// Serve runs one request against h and returns the recorded response.
func Serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Errorf("status code = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}
