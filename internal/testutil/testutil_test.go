package testutil

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/heartaxis/internal/record"
)

func TestNewTestDB(t *testing.T) {
	store := NewTestDB(t)
	patients, err := store.Patients()
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestHeaderParses(t *testing.T) {
	text := Header("40000", LimbLeads, "<age>: 44", "<sex>: F", "Rhythm: Sinus bradycardia.")

	h, err := record.ParseHeader(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, "40000", h.RecordName)
	assert.Equal(t, []string{"i", "ii", "iii"}, h.Leads)
	assert.NoError(t, h.CheckLeads())
	assert.Equal(t, "44", h.Patient.Age)
	assert.Equal(t, "Sinus bradycardia", h.Patient.Rhythm)
}

func TestServe(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	AssertStatusCode(t, Serve(h, http.MethodPut, "/", "x"), http.StatusAccepted)
	AssertStatusCode(t, Serve(h, http.MethodGet, "/", ""), http.StatusMethodNotAllowed)
}
