package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/heartaxis/internal/axis"
)

// AxisResult is a persisted resolution of one lead pair. Field names follow
// the JSON the diagram endpoint has always returned. Geometry that is
// undefined for a degenerate parallelogram is nil.
type AxisResult struct {
	ID         string    `json:"id"`
	PatientID  *string   `json:"patient_id"`
	Lead1      float64   `json:"lead1"`
	Lead3      float64   `json:"lead3"`
	Magnitude  float64   `json:"magnitude"`
	Angle      float64   `json:"angle"`
	Quadrant   string    `json:"quadrant"`
	Diagnosis  string    `json:"diagnosis"`
	SideAB     *float64  `json:"side_AB"`
	SideBC     *float64  `json:"side_BC"`
	SideAD     *float64  `json:"side_AD"`
	SideDC     *float64  `json:"side_DC"`
	AngleA     *float64  `json:"angle_A"`
	AngleB     *float64  `json:"angle_B"`
	AngleC     *float64  `json:"angle_C"`
	AngleD     *float64  `json:"angle_D"`
	E          *float64  `json:"E"`
	Consistent bool      `json:"consistent"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

const axisResultColumns = `result_id, patient_id, lead1, lead3, magnitude, angle, quadrant,
	diagnosis, side_ab, side_bc, side_da, side_dc, angle_a, angle_b, angle_c, angle_d,
	e_total, consistent, created_unix_nanos`

// NewAxisResult flattens v into its stored form without writing it. tol is
// the invariant check tolerance behind Consistent. CreatedAt stays zero
// until the row is recorded.
func NewAxisResult(patientID string, v axis.ResolvedVector, tol float64) AxisResult {
	r := AxisResult{
		ID:         uuid.NewString(),
		Lead1:      v.Leads.Lead1,
		Lead3:      v.Leads.Lead3,
		Magnitude:  v.Magnitude,
		Angle:      v.Angle,
		Quadrant:   v.Quadrant.String(),
		Diagnosis:  v.Diagnosis.String(),
		SideAB:     finite(v.Sides.AB),
		SideBC:     finite(v.Sides.BC),
		SideAD:     finite(v.Sides.DA),
		SideDC:     finite(v.Sides.DC),
		AngleA:     finite(v.Angles.A),
		AngleB:     finite(v.Angles.B),
		AngleC:     finite(v.Angles.C),
		AngleD:     finite(v.Angles.D),
		E:          finite(v.E),
		Consistent: v.Check(tol) == nil,
	}
	if patientID != "" {
		r.PatientID = &patientID
	}
	return r
}

// RecordAxisResult stores v, optionally linked to an existing patient, and
// returns the stored row. An unknown patientID yields ErrNotFound.
func (db *DB) RecordAxisResult(patientID string, v axis.ResolvedVector) (AxisResult, error) {
	if patientID != "" {
		ok, err := db.PatientExists(patientID)
		if err != nil {
			return AxisResult{}, err
		}
		if !ok {
			return AxisResult{}, fmt.Errorf("patient %s: %w", patientID, ErrNotFound)
		}
	}

	r := NewAxisResult(patientID, v, db.CheckTolerance)
	r.CreatedAt = db.now()
	_, err := db.Exec(`INSERT INTO axis_results (`+axisResultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PatientID, r.Lead1, r.Lead3, r.Magnitude, r.Angle, r.Quadrant,
		r.Diagnosis, r.SideAB, r.SideBC, r.SideAD, r.SideDC,
		r.AngleA, r.AngleB, r.AngleC, r.AngleD,
		r.E, r.Consistent, r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return AxisResult{}, fmt.Errorf("failed to record axis result: %w", err)
	}
	return r, nil
}

// AxisResult returns the stored result with id, or ErrNotFound.
func (db *DB) AxisResult(id string) (AxisResult, error) {
	row := db.QueryRow(`SELECT `+axisResultColumns+` FROM axis_results WHERE result_id = ?`, id)
	r, err := scanAxisResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return AxisResult{}, fmt.Errorf("axis result %s: %w", id, ErrNotFound)
	}
	return r, err
}

// AxisResults returns the most recent results, newest first. A
// non-positive limit returns all of them.
func (db *DB) AxisResults(limit int) ([]AxisResult, error) {
	if limit <= 0 {
		limit = -1
	}
	return db.queryAxisResults(`SELECT `+axisResultColumns+` FROM axis_results
		ORDER BY created_unix_nanos DESC LIMIT ?`, limit)
}

// AxisResultsByPatient returns every result linked to patientID, newest first.
func (db *DB) AxisResultsByPatient(patientID string) ([]AxisResult, error) {
	return db.queryAxisResults(`SELECT `+axisResultColumns+` FROM axis_results
		WHERE patient_id = ? ORDER BY created_unix_nanos DESC`, patientID)
}

// DiagnosisCounts returns the number of stored results per diagnosis label.
func (db *DB) DiagnosisCounts() (map[string]int, error) {
	rows, err := db.Query(`SELECT diagnosis, COUNT(*) FROM axis_results GROUP BY diagnosis`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			label string
			n     int
		)
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}
	return counts, rows.Err()
}

func (db *DB) queryAxisResults(query string, args ...interface{}) ([]AxisResult, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []AxisResult{}
	for rows.Next() {
		r, err := scanAxisResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanAxisResult(s scanner) (AxisResult, error) {
	var (
		r         AxisResult
		patientID sql.NullString
		geom      [9]sql.NullFloat64
		created   int64
	)
	if err := s.Scan(
		&r.ID, &patientID, &r.Lead1, &r.Lead3, &r.Magnitude, &r.Angle, &r.Quadrant,
		&r.Diagnosis, &geom[0], &geom[1], &geom[2], &geom[3], &geom[4], &geom[5], &geom[6], &geom[7],
		&geom[8], &r.Consistent, &created,
	); err != nil {
		return AxisResult{}, err
	}
	if patientID.Valid {
		r.PatientID = &patientID.String
	}
	for i, dst := range []**float64{&r.SideAB, &r.SideBC, &r.SideAD, &r.SideDC, &r.AngleA, &r.AngleB, &r.AngleC, &r.AngleD, &r.E} {
		if geom[i].Valid {
			f := geom[i].Float64
			*dst = &f
		}
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	return r, nil
}
