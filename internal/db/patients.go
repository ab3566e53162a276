package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/heartaxis/internal/record"
)

// Patient is a stored patient record.
type Patient struct {
	record.PatientInfo
	CreatedAt time.Time `json:"created_at"`
}

const patientColumns = `patient_id, sex, age, heart_rhythm, diagnoses, hypertrophies,
	repolarization_abnormalities, ischemia, conduction_system_disease, cardiac_pacing,
	created_unix_nanos`

// PatientExists reports whether a patient with id is stored.
func (db *DB) PatientExists(id string) (bool, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM patients WHERE patient_id = ?`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertPatient stores p. It returns ErrPatientExists if the anonymous id is
// already present.
func (db *DB) InsertPatient(p record.PatientInfo) error {
	if p.AnonymousID == "" {
		return errors.New("patient has no anonymous_id")
	}
	exists, err := db.PatientExists(p.AnonymousID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("patient %s: %w", p.AnonymousID, ErrPatientExists)
	}

	lists := make([]string, 0, 4)
	for _, l := range [][]string{p.Hypertrophies, p.Ischemia, p.ConductionSystemDisease, p.CardiacPacing} {
		if l == nil {
			l = []string{}
		}
		b, err := json.Marshal(l)
		if err != nil {
			return err
		}
		lists = append(lists, string(b))
	}

	_, err = db.Exec(`INSERT INTO patients (`+patientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.AnonymousID, p.Sex, p.Age, p.Rhythm, p.Diagnoses, lists[0],
		p.RepolarizationAbnormalities, lists[1], lists[2], lists[3],
		db.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert patient %s: %w", p.AnonymousID, err)
	}
	return nil
}

// Patient returns the patient with id, or ErrNotFound.
func (db *DB) Patient(id string) (Patient, error) {
	row := db.QueryRow(`SELECT `+patientColumns+` FROM patients WHERE patient_id = ?`, id)
	p, err := scanPatient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Patient{}, fmt.Errorf("patient %s: %w", id, ErrNotFound)
	}
	return p, err
}

// Patients returns every stored patient ordered by id.
func (db *DB) Patients() ([]Patient, error) {
	rows, err := db.Query(`SELECT ` + patientColumns + ` FROM patients ORDER BY patient_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := []Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

// DeletePatient removes the patient and, through the foreign key, all of its
// axis results.
func (db *DB) DeletePatient(id string) error {
	res, err := db.Exec(`DELETE FROM patients WHERE patient_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("patient %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(s scanner) (Patient, error) {
	var (
		p       Patient
		lists   [4]string
		created int64
	)
	if err := s.Scan(
		&p.AnonymousID, &p.Sex, &p.Age, &p.Rhythm, &p.Diagnoses, &lists[0],
		&p.RepolarizationAbnormalities, &lists[1], &lists[2], &lists[3],
		&created,
	); err != nil {
		return Patient{}, err
	}

	targets := []*[]string{&p.Hypertrophies, &p.Ischemia, &p.ConductionSystemDisease, &p.CardiacPacing}
	for i, raw := range lists {
		if err := json.Unmarshal([]byte(raw), targets[i]); err != nil {
			return Patient{}, fmt.Errorf("patient %s: failed to decode list column: %w", p.AnonymousID, err)
		}
	}
	p.CreatedAt = time.Unix(0, created).UTC()
	return p, nil
}
