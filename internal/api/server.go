// Package api serves the axis engine, the diagram renderer and the result
// store over HTTP.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/heartaxis/internal/config"
	"github.com/banshee-data/heartaxis/internal/db"
	"github.com/banshee-data/heartaxis/internal/render"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db       *db.DB
	renderer render.Renderer
	cfg      *config.Config
}

// NewServer returns a Server backed by store and renderer. A nil cfg uses
// the defaults.
func NewServer(store *db.DB, renderer render.Renderer, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Empty()
	}
	return &Server{
		db:       store,
		renderer: renderer,
		cfg:      cfg,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/vector-graph", s.handleVectorGraph)
	mux.HandleFunc("/api/vector-graph/image", s.handleVectorImage)
	mux.HandleFunc("/api/result_vectors", s.listResultVectors)
	mux.HandleFunc("/api/result_vectors/{patient_id}", s.listPatientResultVectors)
	mux.HandleFunc("/api/patients_info", s.listPatients)
	mux.HandleFunc("/api/patients_info/{id}", s.showPatient)
	mux.HandleFunc("/api/patients", s.createPatient)
	mux.HandleFunc("/api/patients/{id}", s.deletePatient)
	mux.HandleFunc("/api/deviations", s.listDeviations)
	mux.HandleFunc("/charts/axis", s.handleAxisChart)
	return mux
}
