// Command heartaxis resolves the electrical axis of the heart from Lead I
// and Lead III amplitudes and serves the result over HTTP.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/heartaxis/internal/api"
	"github.com/banshee-data/heartaxis/internal/axis"
	"github.com/banshee-data/heartaxis/internal/config"
	"github.com/banshee-data/heartaxis/internal/db"
	"github.com/banshee-data/heartaxis/internal/record"
	"github.com/banshee-data/heartaxis/internal/render"
	"github.com/banshee-data/heartaxis/internal/security"
	"github.com/banshee-data/heartaxis/internal/version"
)

const usage = `Usage: heartaxis <command> [flags]

Commands:
  serve     Run the HTTP API
  resolve   Resolve one lead pair and print the result as JSON
  import    Store patients from WFDB header (.hea) files
  migrate   Manage the database schema
  version   Print build information
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "serve":
		return runServe(rest)
	case "resolve":
		return runResolve(rest, out)
	case "import":
		return runImport(rest, out)
	case "migrate":
		return runMigrate(rest, out)
	case "version":
		fmt.Fprintln(out, version.String())
		return nil
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// loadConfig returns the file at path, or an empty config when path is "".
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Empty(), nil
	}
	return config.Load(path)
}

func newRenderer(cfg *config.Config) *render.PlotRenderer {
	return render.NewPlotRenderer(render.Options{
		Extent:      cfg.GetPlotExtent(),
		VectorScale: cfg.GetPlotVectorScale(),
		Size:        vg.Length(cfg.GetPlotSizeInches()) * vg.Inch,
	})
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a JSON config file")
	listen := fs.String("listen", "", "Listen address (overrides config)")
	dbPath := fs.String("db", "", "Path to the sqlite database (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Listen = listen
	}
	if *dbPath != "" {
		cfg.DBPath = dbPath
	}

	store, err := db.NewDB(cfg.GetDBPath())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()
	store.CheckTolerance = cfg.GetCheckTolerance()

	log.Printf("%s listening on %s", version.String(), cfg.GetListen())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := api.NewServer(store, newRenderer(cfg), cfg).ServeMux()
	servers := []*http.Server{{
		Addr:    cfg.GetListen(),
		Handler: api.LoggingMiddleware(mux),
	}}
	if addr := cfg.GetAdminListen(); addr != "" {
		adminMux := http.NewServeMux()
		store.AttachAdminRoutes(adminMux)
		servers = append(servers, &http.Server{Addr: addr, Handler: adminMux})
	}

	var wg sync.WaitGroup
	errc := make(chan error, len(servers))
	for _, server := range servers {
		wg.Add(1)
		go func(server *http.Server) {
			defer wg.Done()
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errc <- fmt.Errorf("server %s: %w", server.Addr, err)
				stop()
			}
		}(server)
	}

	<-ctx.Done()
	log.Println("shutting down HTTP servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
	defer cancel()
	for _, server := range servers {
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}
	}
	wg.Wait()
	close(errc)

	log.Printf("Graceful shutdown complete")
	return <-errc
}

// resolveOutput is the JSON printed by the resolve command.
type resolveOutput struct {
	db.AxisResult
	ID       string   `json:"id,omitempty"`
	Failures []string `json:"failed_checks,omitempty"`
}

func runResolve(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	lead1 := fs.Float64("lead1", 0, "Net Lead I amplitude")
	lead3 := fs.Float64("lead3", 0, "Net Lead III amplitude")
	tolerance := fs.Float64("tolerance", axis.DefaultTolerance, "Relative tolerance for invariant checks")
	pngPath := fs.String("png", "", "Write the axis diagram to this file")
	configPath := fs.String("config", "", "Path to a JSON config file (diagram settings)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	v, err := axis.Resolve(*lead1, *lead3)
	if err != nil {
		return err
	}

	res := resolveOutput{AxisResult: db.NewAxisResult("", v, *tolerance)}
	if err := v.Check(*tolerance); err != nil {
		var ie *axis.InvariantError
		for _, e := range unwrapAll(err) {
			if errors.As(e, &ie) {
				res.Failures = append(res.Failures, ie.Name)
			} else {
				res.Failures = append(res.Failures, e.Error())
			}
		}
	}

	if *pngPath != "" {
		if err := security.ValidateOutputPath(*pngPath); err != nil {
			return err
		}
		f, err := os.Create(*pngPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *pngPath, err)
		}
		if err := newRenderer(cfg).Render(f, v); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// unwrapAll flattens an errors.Join tree one level deep.
func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func runImport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a JSON config file")
	dbPath := fs.String("db", "", "Path to the sqlite database (overrides config)")
	skipExisting := fs.Bool("skip-existing", false, "Skip patients that are already stored")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: heartaxis import [-db path] file.hea...")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.DBPath = dbPath
	}

	store, err := db.NewDB(cfg.GetDBPath())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	var errs []error
	for _, path := range fs.Args() {
		h, err := record.ParseHeaderFile(path)
		if err == nil {
			err = h.CheckLeads()
		}
		if err == nil {
			err = store.InsertPatient(h.Patient)
		}
		switch {
		case err == nil:
			fmt.Fprintf(out, "imported %s\n", h.Patient.AnonymousID)
		case *skipExisting && errors.Is(err, db.ErrPatientExists):
			fmt.Fprintf(out, "skipped %s (exists)\n", h.Patient.AnonymousID)
		default:
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func runMigrate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a JSON config file")
	dbPath := fs.String("db", "", "Path to the sqlite database (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.DBPath = dbPath
	}
	return db.RunMigrateCommand(fs.Args(), cfg.GetDBPath(), out)
}
