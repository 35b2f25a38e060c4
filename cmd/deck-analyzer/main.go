// Package main provides the deck-analyzer command line tool. It parses
// a deck list, prints the structural analysis, and optionally runs the
// swap-1 robustness simulation, emits a share token, or renders charts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ramonehamilton/Deck-Analyzer/internal/charts"
	"github.com/ramonehamilton/Deck-Analyzer/internal/config"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/analyzer"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cardindex"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/enrich"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/montecarlo"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/share"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/validate"
	"github.com/ramonehamilton/Deck-Analyzer/internal/storage"
	"github.com/ramonehamilton/Deck-Analyzer/internal/version"
)

var (
	filePath    = flag.String("file", "", "Deck list file (reads stdin if not set)")
	watchFlag   = flag.Bool("watch", false, "Re-analyze whenever the deck file changes (requires -file)")
	offline     = flag.Bool("offline", false, "Skip card index lookups")
	jsonOut     = flag.Bool("json", false, "Emit the full analysis as JSON")
	shareOut    = flag.Bool("share", false, "Print a share token for the deck")
	chartDir    = flag.String("chart-dir", "", "Write chart HTML files into this directory")
	openCharts  = flag.Bool("open-charts", false, "Open rendered charts in the browser")
	showVersion = flag.Bool("version", false, "Print version and exit")

	runMC        = flag.Bool("mc", false, "Run the swap-1 Monte Carlo simulation")
	mcIterations = flag.Int("mc-iterations", 0, "Simulation iterations (0 = config default)")
	mcSeed       = flag.Uint("mc-seed", 0, "Simulation seed (set explicitly for reproducible runs)")
	mcExclude    = flag.String("mc-exclude", "LAND", "Comma-separated roles excluded from swaps")
	mcByCount    = flag.Bool("mc-by-count", true, "Weight swap sampling by copy count")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("deck-analyzer %s\n", version.GetVersion())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lookup, cleanup := buildLookup(cfg)
	defer cleanup()
	a := analyzer.New(lookup)

	text, err := readDeckText()
	if err != nil {
		log.Fatalf("Failed to read deck list: %v", err)
	}

	ctx := context.Background()
	if err := runOnce(ctx, a, cfg, text); err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if *watchFlag {
		if *filePath == "" {
			log.Fatal("-watch requires -file")
		}
		if err := watchLoop(ctx, a, cfg); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
	}
}

// readDeckText reads the deck list from the configured file or stdin.
func readDeckText() (string, error) {
	if *filePath == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", *filePath, err)
	}
	return string(data), nil
}

// buildLookup wires the card index lookup, or disables it when running
// offline or unconfigured.
func buildLookup(cfg *config.Config) (enrich.Lookup, func()) {
	noop := func() {}
	if *offline || !cfg.Index.Enabled || cfg.Index.BaseURL == "" {
		return nil, noop
	}

	var store cardindex.Store
	cleanup := noop
	if cfg.Cache.Enabled {
		path, err := cfg.CachePath()
		if err != nil {
			log.Printf("Card cache unavailable: %v", err)
		} else {
			dbConfig := storage.DefaultConfig(path)
			dbConfig.AutoMigrate = true
			db, err := storage.Open(dbConfig)
			if err != nil {
				log.Printf("Card cache unavailable: %v", err)
			} else {
				store = storage.NewCardRepository(db)
				cleanup = func() {
					if err := db.Close(); err != nil {
						log.Printf("Error closing card cache: %v", err)
					}
				}
			}
		}
	}

	client := cardindex.NewClient(cfg.Index.BaseURL)
	return cardindex.NewService(client, store), cleanup
}

// runOnce analyzes one deck list and prints everything the flags ask
// for.
func runOnce(ctx context.Context, a *analyzer.Analyzer, cfg *config.Config, text string) error {
	result := a.AnalyzeText(ctx, text)

	var mcResult *montecarlo.Result
	if *runMC {
		var err error
		mcResult, err = a.Simulate(ctx, result.State, mcSettings(cfg), nil, nil)
		if err != nil {
			return fmt.Errorf("simulation: %w", err)
		}
	}

	if *jsonOut {
		return printJSON(result, mcResult)
	}

	printReport(result)
	if mcResult != nil {
		printMCReport(mcResult)
	}

	if *shareOut {
		token, err := share.Encode(result.State)
		if err != nil {
			return fmt.Errorf("share token: %w", err)
		}
		fmt.Printf("\nShare token (%d chars):\n%s\n", len(token), token)
		if share.IsWarn(token) {
			fmt.Println("Warning: token exceeds the recommended URL length")
		}
	}

	if *chartDir != "" {
		if err := renderCharts(result, mcResult); err != nil {
			return err
		}
	}

	return nil
}

// mcSettings translates the CLI flags into simulation settings.
func mcSettings(cfg *config.Config) *montecarlo.Settings {
	settings := &montecarlo.Settings{}

	iterations := *mcIterations
	if iterations == 0 {
		iterations = cfg.Simulation.Iterations
	}
	if iterations != 0 {
		settings.Iterations = &iterations
	}

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "mc-seed" {
			seedSet = true
		}
	})
	if seedSet {
		seed := uint32(*mcSeed)
		settings.Seed = &seed
	}

	if *mcExclude != "" {
		for _, raw := range strings.Split(*mcExclude, ",") {
			role := deck.Role(strings.ToUpper(strings.TrimSpace(raw)))
			if role == "" {
				continue
			}
			settings.ExcludeRoles = append(settings.ExcludeRoles, role)
		}
	}

	byCount := *mcByCount
	settings.SampleByCount = &byCount

	return settings
}

// printJSON emits the analysis (and simulation, when present) as one
// JSON document.
func printJSON(result *analyzer.Result, mcResult *montecarlo.Result) error {
	payload := struct {
		*analyzer.Result
		MonteCarlo *montecarlo.Result `json:"montecarlo,omitempty"`
	}{Result: result, MonteCarlo: mcResult}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func printReport(result *analyzer.Result) {
	summary := result.Summary

	fmt.Println("Deck Analysis")
	fmt.Println("=============")
	fmt.Printf("Cards: %d across %d entries\n", summary.TotalCards, len(result.State.Deck.Entries))

	fmt.Println("\nRoles:")
	for _, role := range deck.RoleOrder {
		count := summary.RoleCounts[role]
		if count == 0 {
			continue
		}
		fmt.Printf("  %-11s %3d  (%.1f%%)\n", role, count, summary.RoleShare[role]*100)
	}

	fmt.Printf("\nGraph: %d active roles, %d edges, density %.2f\n",
		summary.NodesActive, summary.EdgesTotal, summary.Density)
	if len(summary.Diagnostics.Bottlenecks.Roles) > 0 {
		fmt.Printf("Bottlenecks: %v\n", summary.Diagnostics.Bottlenecks.Roles)
	}
	if summary.Diagnostics.SparseGraph.Flag {
		fmt.Println("Note: role graph is sparse")
	}
	if len(summary.Diagnostics.IsolatedRoles.Roles) > 0 {
		fmt.Printf("Isolated roles: %v\n", summary.Diagnostics.IsolatedRoles.Roles)
	}

	if sps := summary.StructuralPowerScore; sps != nil {
		fmt.Printf("\nStructural power score: %.1f\n", sps.SPS)
	}

	if issues := validate.State(result.State); len(issues) > 0 {
		fmt.Printf("\nValidation: %v\n", issues)
	}
	for _, issue := range result.Issues {
		fmt.Printf("%s: %s (%s)\n", strings.ToUpper(string(issue.Severity)), issue.Message, issue.Code)
	}
}

func printMCReport(result *montecarlo.Result) {
	fmt.Println("\nSwap-1 Robustness")
	fmt.Println("-----------------")
	fmt.Printf("Base SPS:    %.1f\n", result.Base.SPS)
	fmt.Printf("Robust SPS:  %.1f (p%.0f over %d iterations)\n",
		result.Metrics.RobustSPS, result.Settings.RobustP*100, result.Dist.EffectiveN)
	fmt.Printf("Fragility:   %.0f / 100\n", result.Metrics.Fragility)
	fmt.Printf("Spread:      p10 %.1f / p50 %.1f / p90 %.1f\n",
		result.Dist.P10, result.Dist.P50, result.Dist.P90)
	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s (%s)\n", warning.Detail, warning.Code)
	}
}

// renderCharts writes the role distribution chart, plus the swap
// distribution chart when a simulation ran.
func renderCharts(result *analyzer.Result, mcResult *montecarlo.Result) error {
	if err := os.MkdirAll(*chartDir, 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}

	paths := []string{filepath.Join(*chartDir, "roles.html")}
	if err := charts.RenderRoleDistribution(result.State.Deck.Entries, charts.DefaultChartConfig(), paths[0]); err != nil {
		return err
	}

	if mcResult != nil {
		swapPath := filepath.Join(*chartDir, "swap_distribution.html")
		if err := charts.RenderSwapDistribution(mcResult, charts.DefaultChartConfig(), swapPath); err != nil {
			return err
		}
		paths = append(paths, swapPath)
	}

	for _, path := range paths {
		fmt.Printf("Chart written: %s\n", path)
		if *openCharts {
			if err := charts.OpenInBrowser(path); err != nil {
				log.Printf("Failed to open %s: %v", path, err)
			}
		}
	}
	return nil
}

// watchLoop re-runs the analysis whenever the deck file is written.
// A short debounce coalesces editor save bursts.
func watchLoop(ctx context.Context, a *analyzer.Analyzer, cfg *config.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			log.Printf("Error closing watcher: %v", closeErr)
		}
	}()

	// Watch the directory: editors often replace the file on save,
	// which drops a watch registered on the file itself.
	dir := filepath.Dir(*filePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Printf("\nWatching %s (Ctrl+C to stop)\n", *filePath)

	target := filepath.Clean(*filePath)
	var timer *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			text, err := readDeckText()
			if err != nil {
				log.Printf("Re-read failed: %v", err)
				continue
			}
			fmt.Printf("\n--- %s ---\n", time.Now().Format("15:04:05"))
			if err := runOnce(ctx, a, cfg, text); err != nil {
				log.Printf("Analysis failed: %v", err)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", watchErr)
		}
	}
}
