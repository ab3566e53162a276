package record

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = `21000 12 500/1000(0) 5000
21000.dat 16 1000.0(0)/mV 16 0 -119 1508 0 i
21000.dat 16 1000.0(0)/mV 16 0 -55 723 0 ii
21000.dat 16 1000.0(0)/mV 16 0 64 64758 0 iii
21000.dat 16 1000.0(0)/mV 16 0 86 64423 0 avr
21000.dat 16 1000.0(0)/mV 16 0 -91 1211 0 avl
21000.dat 16 1000.0(0)/mV 16 0 4 7 0 avf
21000.dat 16 1000.0(0)/mV 16 0 -69 63827 0 v1
21000.dat 16 1000.0(0)/mV 16 0 -31 6999 0 v2
21000.dat 16 1000.0(0)/mV 16 0 0 63759 0 v3
21000.dat 16 1000.0(0)/mV 16 0 -26 61447 0 v4
21000.dat 16 1000.0(0)/mV 16 0 -39 64979 0 v5
21000.dat 16 1000.0(0)/mV 16 0 -79 832 0 v6
#<age>: 51
#<sex>: F
#<diagnoses>:
#Rhythm: Sinus rhythm.
#Left ventricular hypertrophy.
#Non-specific repolarization abnormalities: posterior wall.
#Ischemia: anterior wall.
#Undefined ischemia/scar/supp.NSTEMI: inferior wall.
#Left anterior hemiblock.
#Electric axis of the heart: left axis deviation.
`

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader(strings.NewReader(sampleHeader))
	require.NoError(t, err)

	assert.Equal(t, "21000", h.RecordName)
	assert.Equal(t, 12, h.NumSignals)
	assert.Equal(t, 500.0, h.SamplingFrequency)
	assert.Equal(t, 5000, h.NumSamples)
	assert.Equal(t, []string{"i", "ii", "iii", "avr", "avl", "avf", "v1", "v2", "v3", "v4", "v5", "v6"}, h.Leads)
	assert.Len(t, h.Comments, 10)
	assert.NoError(t, h.CheckLeads())

	want := PatientInfo{
		AnonymousID:                 "21000",
		Age:                         "51",
		Sex:                         "F",
		Rhythm:                      "Sinus rhythm",
		Hypertrophies:               []string{"Left ventricular hypertrophy"},
		RepolarizationAbnormalities: "posterior wall",
		Ischemia:                    []string{"anterior wall", "inferior wall"},
		ConductionSystemDisease:     []string{"Left anterior hemiblock"},
		CardiacPacing:               []string{},
	}
	if diff := cmp.Diff(want, h.Patient); diff != "" {
		t.Errorf("patient info mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHeaderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "21000.hea")
	require.NoError(t, os.WriteFile(path, []byte(sampleHeader), 0o644))

	h, err := ParseHeaderFile(path)
	require.NoError(t, err)
	assert.Equal(t, "21000", h.Patient.AnonymousID)

	_, err = ParseHeaderFile(filepath.Join(t.TempDir(), "missing.hea"))
	assert.Error(t, err)
}

func TestMissingLeads(t *testing.T) {
	hdr := "rec 2 250\nrec.dat 16 200 12 0 0 0 0 avl\nrec.dat 16 200 12 0 0 0 0 II\n"
	h, err := ParseHeader(strings.NewReader(hdr))
	require.NoError(t, err)

	assert.Equal(t, []string{"avl", "ii"}, h.Leads)
	assert.Equal(t, []string{"i", "iii"}, h.MissingLeads())
	err = h.CheckLeads()
	assert.ErrorIs(t, err, ErrMissingLeads)
	assert.Contains(t, err.Error(), "i, iii")
}

func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"comments only", "# just a note\n"},
		{"no signal count", "rec\n"},
		{"bad signal count", "rec x 500\n"},
		{"bad frequency", "rec 1 fast\nrec.dat 16 200 12 0 0 0 0 i\n"},
		{"too few signals", "rec 3 500\nrec.dat 16 200 12 0 0 0 0 i\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(strings.NewReader(tt.header))
			assert.Error(t, err)
		})
	}
}

func TestParsePatientInfoPacing(t *testing.T) {
	p := ParsePatientInfo([]string{
		"Pacing: ventricular pacing.",
		"Complete right bundle branch block",
		"Non-specific repolarization abnormalities",
	})
	assert.Equal(t, []string{"Pacing: ventricular pacing"}, p.CardiacPacing)
	assert.Equal(t, []string{"Complete right bundle branch block"}, p.ConductionSystemDisease)
	assert.Equal(t, "Non-specific repolarization abnormalities", p.RepolarizationAbnormalities)
	assert.Empty(t, p.Age)
	assert.Empty(t, p.Ischemia)
}
