package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/PeteDiMarco/misc-tools/internal/alias"
	"github.com/PeteDiMarco/misc-tools/internal/index"
	"github.com/PeteDiMarco/misc-tools/internal/model"
	"github.com/PeteDiMarco/misc-tools/internal/probe"
	"github.com/PeteDiMarco/misc-tools/internal/report"
	"github.com/PeteDiMarco/misc-tools/internal/resolve"

	"github.com/charmbracelet/log"
)

//go:embed static/*
var staticFS embed.FS

// Options configures the web server.
type Options struct {
	Aliases       alias.Table
	SkipProcesses bool
	SkipPackages  bool
	Timeout       time.Duration
	Log           *log.Logger
}

type server struct {
	resolver *resolve.Resolver
	timeout  time.Duration
	log      *log.Logger
}

// StartServer builds the lookup engine once and serves the browser UI on
// port 8080.
func StartServer(opts Options) {
	logger := opts.Log
	if logger == nil {
		logger = log.Default()
	}

	if err := resolve.Preflight(); err != nil {
		logger.Fatal("preflight failed", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	probes := probe.DefaultCatalog(logger)
	cache := index.Build(ctx, probes.Processes, index.Options{
		SkipProcesses: opts.SkipProcesses,
		SkipPackages:  opts.SkipPackages,
	}, logger)
	cancel()

	s := &server{
		resolver: resolve.New(probes, cache, opts.Aliases, logger),
		timeout:  opts.Timeout,
		log:      logger,
	}

	mux := http.NewServeMux()

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	// API Endpoints
	mux.HandleFunc("/api/resolve", s.handleResolve)
	mux.HandleFunc("/api/version", s.handleVersion)

	port := "8080"
	fmt.Printf("Starting whatis-token web server at http://localhost:%s\n", port)
	fmt.Printf("Go to http://localhost:%s in your browser.\n", port)

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func (s *server) handleResolve(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "name is required", 400)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	rep := s.resolver.Resolve(ctx, name)

	response := struct {
		model.Report
		Rendered string `json:"Rendered"`
		Found    bool   `json:"Found"`
		Version  string `json:"Version"`
	}{
		Report:   rep,
		Rendered: report.Render(rep),
		Found:    rep.Found(),
		Version:  model.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (s *server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"Version": model.Version})
}
