package db

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/heartaxis/internal/record"
)

func TestInsertAndFetchPatient(t *testing.T) {
	db := newTestDB(t)
	want := testPatient("21000")

	require.NoError(t, db.InsertPatient(want))

	got, err := db.Patient("21000")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got.PatientInfo); diff != "" {
		t.Errorf("patient mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.CreatedAt.IsZero())

	exists, err := db.PatientExists("21000")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInsertPatientDuplicate(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.InsertPatient(testPatient("7")))
	assert.ErrorIs(t, db.InsertPatient(testPatient("7")), ErrPatientExists)
}

func TestInsertPatientNilLists(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.InsertPatient(record.PatientInfo{AnonymousID: "8"}))

	got, err := db.Patient("8")
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Hypertrophies)
	assert.Equal(t, []string{}, got.CardiacPacing)
}

func TestInsertPatientWithoutID(t *testing.T) {
	db := newTestDB(t)
	assert.Error(t, db.InsertPatient(record.PatientInfo{}))
}

func TestPatientNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Patient("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeletePatient("missing"), ErrNotFound)
}

func TestPatientsOrdered(t *testing.T) {
	db := newTestDB(t)
	for _, id := range []string{"3", "1", "2"} {
		require.NoError(t, db.InsertPatient(testPatient(id)))
	}

	patients, err := db.Patients()
	require.NoError(t, err)
	require.Len(t, patients, 3)
	assert.Equal(t, "1", patients[0].AnonymousID)
	assert.Equal(t, "3", patients[2].AnonymousID)
}

func TestPatientsEmpty(t *testing.T) {
	db := newTestDB(t)
	patients, err := db.Patients()
	require.NoError(t, err)
	assert.NotNil(t, patients)
	assert.Empty(t, patients)
}
