package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/banshee-data/heartaxis/internal/axis"
	"github.com/banshee-data/heartaxis/internal/db"
	"github.com/banshee-data/heartaxis/internal/httputil"
	"github.com/banshee-data/heartaxis/internal/record"
)

func (s *Server) listPatients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	patients, err := s.db.Patients()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve patients: %v", err))
		return
	}
	httputil.WriteJSONOK(w, patients)
}

func (s *Server) showPatient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	p, err := s.db.Patient(r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve patient: %v", err))
		return
	}
	httputil.WriteJSONOK(w, p)
}

// createPatient accepts a raw WFDB header (.hea) as the request body and
// stores the patient described by its comment lines.
func (s *Server) createPatient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	h, err := record.ParseHeader(io.LimitReader(r.Body, httputil.MaxBodyBytes))
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("Invalid header: %v", err))
		return
	}
	if err := h.CheckLeads(); err != nil {
		httputil.UnprocessableEntity(w, err.Error())
		return
	}

	err = s.db.InsertPatient(h.Patient)
	if errors.Is(err, db.ErrPatientExists) {
		httputil.Conflict(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to store patient: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, h.Patient)
}

func (s *Server) deletePatient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		httputil.MethodNotAllowed(w)
		return
	}

	err := s.db.DeletePatient(r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"success": true,
		"message": "Patient deleted successfully",
	})
}

func (s *Server) listResultVectors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit := s.cfg.GetResultLimit()
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "Invalid 'limit' parameter")
			return
		}
		if limit == 0 || parsed < limit {
			limit = parsed
		}
	}

	results, err := s.db.AxisResults(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve result vectors: %v", err))
		return
	}
	httputil.WriteJSONOK(w, results)
}

func (s *Server) listPatientResultVectors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	id := r.PathValue("patient_id")
	exists, err := s.db.PatientExists(id)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if !exists {
		httputil.NotFound(w, fmt.Sprintf("patient %s: not found", id))
		return
	}

	results, err := s.db.AxisResultsByPatient(id)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve result vectors: %v", err))
		return
	}
	httputil.WriteJSONOK(w, results)
}

type deviationRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label string  `json:"label"`
}

// listDeviations returns the classification table so clients can label
// angles without duplicating it.
func (s *Server) listDeviations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	ranges := axis.Ranges()
	out := make([]deviationRange, len(ranges))
	for i, rg := range ranges {
		out[i] = deviationRange{Min: rg.Min, Max: rg.Max, Label: rg.Label.String()}
	}
	httputil.WriteJSONOK(w, out)
}
