package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/banshee-data/heartaxis/internal/axis"
	"github.com/banshee-data/heartaxis/internal/db"
	"github.com/banshee-data/heartaxis/internal/httputil"
	"github.com/banshee-data/heartaxis/internal/render"
	"github.com/banshee-data/heartaxis/internal/security"
)

type vectorGraphRequest struct {
	Lead1     *float64 `json:"lead1"`
	Lead3     *float64 `json:"lead3"`
	PatientID string   `json:"patient_id,omitempty"`
	Persist   bool     `json:"persist,omitempty"`
}

// vectorGraphResponse carries the resolved geometry alongside the rendered
// diagram. ID is only set once the result has been stored.
type vectorGraphResponse struct {
	db.AxisResult
	ID    string `json:"id,omitempty"`
	Image string `json:"image"`
}

// resolveStatus maps an axis error onto an HTTP status.
func resolveStatus(err error) int {
	switch {
	case errors.Is(err, axis.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, axis.ErrIndeterminateAxis):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleVectorGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req vectorGraphRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if req.Lead1 == nil || req.Lead3 == nil {
		httputil.BadRequest(w, "Missing lead1 or lead3 values")
		return
	}

	v, err := axis.Resolve(*req.Lead1, *req.Lead3)
	if err != nil {
		httputil.WriteJSONError(w, resolveStatus(err), err.Error())
		return
	}

	image, err := render.RenderBase64(s.renderer, v)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to render diagram: %v", err))
		return
	}

	resp := vectorGraphResponse{Image: image}
	if req.Persist || req.PatientID != "" {
		stored, err := s.db.RecordAxisResult(req.PatientID, v)
		switch {
		case errors.Is(err, db.ErrNotFound):
			httputil.NotFound(w, err.Error())
			return
		case err != nil:
			httputil.InternalServerError(w, fmt.Sprintf("Failed to store result: %v", err))
			return
		}
		resp.AxisResult = stored
		resp.ID = stored.ID
	} else {
		resp.AxisResult = db.NewAxisResult(req.PatientID, v, s.cfg.GetCheckTolerance())
	}

	httputil.WriteJSONOK(w, resp)
}

// handleVectorImage renders the diagram for ?lead1=&lead3= directly as an
// image, for embedding in <img> tags.
func (s *Server) handleVectorImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	lead1, err1 := strconv.ParseFloat(q.Get("lead1"), 64)
	lead3, err3 := strconv.ParseFloat(q.Get("lead3"), 64)
	if err1 != nil || err3 != nil {
		httputil.BadRequest(w, "Invalid 'lead1' or 'lead3' parameter")
		return
	}

	v, err := axis.Resolve(lead1, lead3)
	if err != nil {
		httputil.WriteJSONError(w, resolveStatus(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, v); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to render diagram: %v", err))
		return
	}

	contentType := "image/png"
	if ct, ok := s.renderer.(interface{ ContentType() string }); ok {
		contentType = ct.ContentType()
	}
	filename := security.SanitizeFilename(fmt.Sprintf("axis_%s_%s", q.Get("lead1"), q.Get("lead3")))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.%s", filename, imageExt(contentType)))
	_, _ = w.Write(buf.Bytes())
}

func imageExt(contentType string) string {
	switch contentType {
	case "image/svg+xml":
		return "svg"
	case "application/pdf":
		return "pdf"
	case "image/jpeg":
		return "jpg"
	default:
		return "png"
	}
}
