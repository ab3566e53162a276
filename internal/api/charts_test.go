package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/heartaxis/internal/axis"
	"github.com/banshee-data/heartaxis/internal/db"
)

func TestAxisChart(t *testing.T) {
	s, store := setupTestServer(t)
	require.NoError(t, store.InsertPatient(testPatient("p1")))
	for _, leads := range [][2]float64{{5, 7}, {5, -7}, {-5, -7}} {
		v, err := axis.Resolve(leads[0], leads[1])
		require.NoError(t, err)
		_, err = store.RecordAxisResult("p1", v)
		require.NoError(t, err)
	}

	w := do(t, s, http.MethodGet, "/charts/axis", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "Resultant Vectors")
	assert.Contains(t, body, "Diagnoses")
	assert.Contains(t, body, "Abnormal Left Axis Deviation")

	w = do(t, s, http.MethodGet, "/charts/axis?patient_id=p1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "patient=p1")

	w = do(t, s, http.MethodPost, "/charts/axis", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestAxisScatterGroupsByDiagnosis(t *testing.T) {
	results := []db.AxisResult{
		{ID: "a", Angle: 60, Magnitude: 2, Diagnosis: axis.DeviationNone.String()},
		{ID: "b", Angle: 76, Magnitude: 6, Diagnosis: axis.DeviationNone.String()},
		{ID: "c", Angle: -35, Magnitude: 10, Diagnosis: axis.DeviationAbnormalLeft.String()},
	}
	scatter := axisScatter(results, "")
	require.Len(t, scatter.MultiSeries, 2)
	assert.Equal(t, axis.DeviationNone.String(), scatter.MultiSeries[0].Name)
	assert.Equal(t, axis.DeviationAbnormalLeft.String(), scatter.MultiSeries[1].Name)
}

func TestDiagnosisOrder(t *testing.T) {
	order := diagnosisOrder()
	assert.Len(t, order, len(axis.Ranges())+1)
	assert.Equal(t, "ERROR", order[len(order)-1])
}
