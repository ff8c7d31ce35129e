package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/PeteDiMarco/misc-tools/internal/alias"
	"github.com/PeteDiMarco/misc-tools/internal/fileutil"
	"github.com/PeteDiMarco/misc-tools/internal/index"
	"github.com/PeteDiMarco/misc-tools/internal/model"
	"github.com/PeteDiMarco/misc-tools/internal/probe"
	"github.com/PeteDiMarco/misc-tools/internal/report"
	"github.com/PeteDiMarco/misc-tools/internal/resolve"
	"github.com/PeteDiMarco/misc-tools/internal/tui"
	"github.com/PeteDiMarco/misc-tools/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "PeteDiMarco",
		Repository: "misc-tools",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/PeteDiMarco/misc-tools/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

type engineOptions struct {
	aliases       alias.Table
	skipProcesses bool
	skipPackages  bool
	timeout       time.Duration
	log           *log.Logger
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: whatis-token [options] name...\n\n")
		fmt.Fprintf(os.Stderr, "whatis-token identifies everything a shell token could refer to.\n")
		fmt.Fprintf(os.Stderr, "It asks the shell, the filesystem, the documentation indexes, the process\n")
		fmt.Fprintf(os.Stderr, "table and the package managers, and reports every answer it gets.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  whatis-token ls               # Report every meaning of 'ls'\n")
		fmt.Fprintf(os.Stderr, "  alias | whatis-token -a - ll  # Also check the aliases piped on stdin\n")
		fmt.Fprintf(os.Stderr, "  whatis-token --json grep      # Output the findings as JSON\n")
		fmt.Fprintf(os.Stderr, "  whatis-token --tui            # Start interactive TUI mode\n")
	}

	aliasesFlag := pflag.StringP("aliases", "a", "", "Read alias definitions from FILE ('-' for stdin)")
	jsonFlag := pflag.BoolP("json", "j", false, "Output the findings as JSON")
	tuiFlag := pflag.BoolP("tui", "t", false, "Start interactive TUI mode")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode on http://localhost:8080")
	timeoutFlag := pflag.Duration("timeout", 30*time.Second, "Time limit for one lookup run")
	noPackagesFlag := pflag.Bool("no-packages", false, "Skip the installed-package indexes")
	noProcessesFlag := pflag.Bool("no-processes", false, "Skip the running-process index")
	debugFlag := pflag.BoolP("debug", "D", false, "Enable debug logging")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if *debugFlag {
		logger.SetLevel(log.DebugLevel)
	}

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("whatis-token version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	opts := engineOptions{
		aliases:       loadAliases(*aliasesFlag, logger),
		skipProcesses: *noProcessesFlag,
		skipPackages:  *noPackagesFlag,
		timeout:       *timeoutFlag,
		log:           logger,
	}

	if *webFlag {
		web.StartServer(web.Options{
			Aliases:       opts.aliases,
			SkipProcesses: opts.skipProcesses,
			SkipPackages:  opts.skipPackages,
			Timeout:       opts.timeout,
			Log:           logger.WithPrefix("web"),
		})
		return
	}

	if *tuiFlag {
		runTuiMode(opts)
		return
	}

	names := pflag.Args()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "Give at least one name to look up.")
		pflag.Usage()
		os.Exit(2)
	}

	if *jsonFlag {
		runJsonMode(names, opts)
		return
	}

	runReportMode(names, opts)
}

func loadAliases(path string, logger *log.Logger) alias.Table {
	if path == "" {
		return nil
	}

	in, err := fileutil.OpenInput(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading aliases: %v\n", err)
		os.Exit(1)
	}
	defer fileutil.CloseQuietly(in)

	table, err := alias.ParseTable(in, logger.WithPrefix("alias"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading aliases: %v\n", err)
		os.Exit(1)
	}
	return table
}

func buildEngine(ctx context.Context, o engineOptions) *resolve.Resolver {
	probes := probe.DefaultCatalog(o.log.WithPrefix("probe"))
	cache := index.Build(ctx, probes.Processes, index.Options{
		SkipProcesses: o.skipProcesses,
		SkipPackages:  o.skipPackages,
	}, o.log.WithPrefix("index"))
	return resolve.New(probes, cache, o.aliases, o.log.WithPrefix("resolve"))
}

func runReportMode(names []string, o engineOptions) {
	if err := resolve.Preflight(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	resolver := buildEngine(ctx, o)
	reports := resolver.ResolveAll(ctx, names)

	if !report.New(os.Stdout, o.log.WithPrefix("report")).PrintAll(reports) {
		os.Exit(1)
	}
}

func runJsonMode(names []string, o engineOptions) {
	if err := resolve.Preflight(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	resolver := buildEngine(ctx, o)
	reports := resolver.ResolveAll(ctx, names)

	type jsonReport struct {
		model.Report
		Found bool `json:"Found"`
	}
	response := struct {
		Version string       `json:"Version"`
		Reports []jsonReport `json:"Reports"`
	}{Version: model.Version}

	allFound := true
	for _, rep := range reports {
		found := rep.Found()
		allFound = allFound && found
		response.Reports = append(response.Reports, jsonReport{Report: rep, Found: found})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(response)

	if !allFound {
		os.Exit(1)
	}
}

func runTuiMode(o engineOptions) {
	// Log lines would scribble over the alt screen.
	o.log = log.New(io.Discard)

	m := tui.InitialModel(tui.Options{
		Aliases:       o.aliases,
		SkipProcesses: o.skipProcesses,
		SkipPackages:  o.skipPackages,
		Timeout:       o.timeout,
		Log:           o.log,
	})
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
