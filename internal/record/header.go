// Package record extracts clinical metadata from WFDB record headers (.hea).
// Only the header text is read; signal samples are never decoded.
package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// RequiredLeads are the limb leads the axis engine needs.
var RequiredLeads = []string{"i", "ii", "iii"}

// ErrMissingLeads is returned by CheckLeads when a required lead is absent.
var ErrMissingLeads = errors.New("missing required leads")

// Header is the parsed content of a WFDB header file.
type Header struct {
	RecordName        string      `json:"record_name"`
	NumSignals        int         `json:"num_signals"`
	SamplingFrequency float64     `json:"sampling_frequency"`
	NumSamples        int         `json:"num_samples"`
	Leads             []string    `json:"leads"`
	Comments          []string    `json:"comments"`
	Patient           PatientInfo `json:"patient_info"`
}

// ParseHeaderFile opens and parses the header at path.
func ParseHeaderFile(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("failed to open header: %w", err)
	}
	defer f.Close()
	return ParseHeader(f)
}

// ParseHeader reads a WFDB header: the record line, one line per signal and
// any number of '#' comment lines.
func ParseHeader(r io.Reader) (Header, error) {
	var h Header
	sc := bufio.NewScanner(r)
	sawRecord := false
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}
		if !sawRecord {
			if err := h.parseRecordLine(line); err != nil {
				return Header{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			sawRecord = true
			continue
		}
		if len(h.Leads) < h.NumSignals {
			h.Leads = append(h.Leads, signalDescription(line))
		}
	}
	if err := sc.Err(); err != nil {
		return Header{}, fmt.Errorf("failed to read header: %w", err)
	}
	if !sawRecord {
		return Header{}, errors.New("header has no record line")
	}
	if len(h.Leads) != h.NumSignals {
		return Header{}, fmt.Errorf("header declares %d signals, found %d", h.NumSignals, len(h.Leads))
	}

	h.Patient = ParsePatientInfo(h.Comments)
	h.Patient.AnonymousID = h.RecordName
	return h, nil
}

func (h *Header) parseRecordLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return fmt.Errorf("record line %q: want at least name and signal count", line)
	}

	h.RecordName, _, _ = strings.Cut(fields[0], "/")

	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return fmt.Errorf("invalid signal count %q", fields[1])
	}
	h.NumSignals = n

	if len(fields) > 2 {
		fs := fields[2]
		if i := strings.IndexAny(fs, "/("); i >= 0 {
			fs = fs[:i]
		}
		if h.SamplingFrequency, err = strconv.ParseFloat(fs, 64); err != nil {
			return fmt.Errorf("invalid sampling frequency %q", fields[2])
		}
	}
	if len(fields) > 3 {
		if h.NumSamples, err = strconv.Atoi(fields[3]); err != nil {
			return fmt.Errorf("invalid sample count %q", fields[3])
		}
	}
	return nil
}

// signalDescription returns the lowercased description field of a signal
// specification line, which names the lead.
func signalDescription(line string) string {
	fields := strings.Fields(line)
	if len(fields) <= 8 {
		return ""
	}
	return strings.ToLower(strings.Join(fields[8:], " "))
}

// MissingLeads returns the required leads absent from the header, sorted.
func (h Header) MissingLeads() []string {
	have := make(map[string]bool, len(h.Leads))
	for _, l := range h.Leads {
		have[l] = true
	}
	var missing []string
	for _, l := range RequiredLeads {
		if !have[l] {
			missing = append(missing, l)
		}
	}
	sort.Strings(missing)
	return missing
}

// CheckLeads returns ErrMissingLeads naming every absent required lead.
func (h Header) CheckLeads() error {
	if missing := h.MissingLeads(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingLeads, strings.Join(missing, ", "))
	}
	return nil
}
