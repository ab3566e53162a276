// Package db persists patients and resolved electrical axes in sqlite.
package db

import (
	"compress/gzip"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/banshee-data/heartaxis/internal/timeutil"
)

// ErrNotFound is returned when a patient or result does not exist.
var ErrNotFound = errors.New("not found")

// ErrPatientExists is returned when inserting a patient id twice.
var ErrPatientExists = errors.New("patient already exists")

type DB struct {
	*sql.DB

	// CheckTolerance is passed to ResolvedVector.Check when marking stored
	// results consistent. Zero selects axis.DefaultTolerance.
	CheckTolerance float64
	// Clock stamps created_unix_nanos. Nil uses the wall clock.
	Clock timeutil.Clock
}

func (db *DB) now() time.Time {
	if db.Clock == nil {
		return time.Now().UTC()
	}
	return db.Clock.Now().UTC()
}

// OpenDB opens the sqlite database at path without touching the schema.
func OpenDB(path string) (*DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &DB{DB: db}, nil
}

// NewDB opens the database at path and applies all pending migrations.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(MigrationsFS()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://heartaxis.db", db.DB, &tailsql.DBOptions{
		Label: "Axis DB",
	})

	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())
	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(db.serveBackup))
}

func (db *DB) serveBackup(w http.ResponseWriter, r *http.Request) {
	backupPath := fmt.Sprintf("backup-%d.db", db.now().Unix())
	if _, err := db.Exec("VACUUM INTO ?", backupPath); err != nil {
		http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := os.Remove(backupPath); err != nil {
			log.Printf("Failed to remove backup file: %v", err)
		}
	}()

	backupFile, err := os.Open(backupPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
		return
	}
	defer backupFile.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Encoding", "gzip")

	gzipWriter := gzip.NewWriter(w)
	defer gzipWriter.Close()
	if _, err := io.Copy(gzipWriter, backupFile); err != nil {
		log.Printf("Failed to write backup file: %v", err)
	}
}

// finite returns nil for NaN and infinities, which neither sqlite nor JSON
// can represent.
func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
