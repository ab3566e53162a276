package record

import "strings"

// PatientInfo is the clinical metadata carried in header comments.
type PatientInfo struct {
	AnonymousID                 string   `json:"anonymous_id"`
	Age                         string   `json:"age"`
	Sex                         string   `json:"sex"`
	Rhythm                      string   `json:"rhythm"`
	Diagnoses                   string   `json:"diagnoses,omitempty"`
	Hypertrophies               []string `json:"hypertrophies"`
	RepolarizationAbnormalities string   `json:"repolarization_abnormalities"`
	Ischemia                    []string `json:"ischemia"`
	ConductionSystemDisease     []string `json:"conduction_system_disease"`
	CardiacPacing               []string `json:"cardiac_pacing"`
}

const repolarizationPrefix = "Non-specific repolarization abnormalities:"

// ParsePatientInfo scans comment lines (without the leading '#') for the
// tagged fields used by PTB-style ECG databases. A single comment may feed
// several fields, e.g. a block that is also a pacing note.
func ParsePatientInfo(comments []string) PatientInfo {
	p := PatientInfo{
		Hypertrophies:           []string{},
		Ischemia:                []string{},
		ConductionSystemDisease: []string{},
		CardiacPacing:           []string{},
	}

	for _, c := range comments {
		c = strings.TrimRight(c, ".")
		lower := strings.ToLower(c)

		if v, ok := after(c, "<age>:"); ok {
			p.Age = v
		}
		if v, ok := after(c, "<sex>:"); ok {
			p.Sex = v
		}
		if v, ok := after(c, "<diagnoses>:"); ok {
			p.Diagnoses = v
		}
		if v, ok := after(c, "Rhythm:"); ok {
			p.Rhythm = v
		}
		if strings.Contains(lower, "hypertrophy") {
			p.Hypertrophies = append(p.Hypertrophies, strings.TrimSpace(c))
		}
		if strings.Contains(lower, "repolarization abnormalities") {
			v, ok := after(c, repolarizationPrefix)
			if !ok {
				v = strings.TrimSpace(c)
			}
			p.RepolarizationAbnormalities = v
		}
		if v, ok := after(c, "Ischemia:"); ok {
			p.Ischemia = append(p.Ischemia, v)
		}
		if v, ok := after(c, "Undefined ischemia/scar/supp.NSTEMI:"); ok {
			p.Ischemia = append(p.Ischemia, v)
		}
		if strings.Contains(lower, "block") {
			p.ConductionSystemDisease = append(p.ConductionSystemDisease, strings.TrimSpace(c))
		}
		if strings.Contains(lower, "pacing") {
			p.CardiacPacing = append(p.CardiacPacing, strings.TrimSpace(c))
		}
	}
	return p
}

// after returns the trimmed text following the last occurrence of tag.
func after(s, tag string) (string, bool) {
	i := strings.LastIndex(s, tag)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(s[i+len(tag):]), true
}
