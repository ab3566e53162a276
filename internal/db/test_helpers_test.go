package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banshee-data/heartaxis/internal/record"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testPatient(id string) record.PatientInfo {
	return record.PatientInfo{
		AnonymousID:                 id,
		Age:                         "63",
		Sex:                         "M",
		Rhythm:                      "Sinus rhythm",
		Hypertrophies:               []string{"Left ventricular hypertrophy"},
		RepolarizationAbnormalities: "posterior wall",
		Ischemia:                    []string{"anterior wall"},
		ConductionSystemDisease:     []string{},
		CardiacPacing:               []string{},
	}
}
