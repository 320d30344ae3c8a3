package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/reviewpulse/reviewpulse/internal/aggregate"
	"github.com/reviewpulse/reviewpulse/internal/analyze"
	"github.com/reviewpulse/reviewpulse/internal/collect"
	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/database"
	"github.com/reviewpulse/reviewpulse/internal/fetch"
	"github.com/reviewpulse/reviewpulse/internal/pipeline"
	"github.com/reviewpulse/reviewpulse/internal/report"
	"github.com/reviewpulse/reviewpulse/internal/server"
	"github.com/reviewpulse/reviewpulse/internal/store"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "reviewpulse",
	Short:   "Customer feedback aggregation",
	Long:    "ReviewPulse collects app reviews and social feedback, classifies them, and aggregates dashboard views for a target app and its competitors.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("reviewpulse", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/reviewpulse/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure apps, sources, API keys, and the analysis provider.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Target app: %s\n\n", cfg.TargetName())
		fmt.Println("Items:")
		fmt.Printf("  Total collected: %d\n", stats.TotalItems)
		fmt.Printf("  Analyzed: %d\n", stats.AnalyzedItems)
		fmt.Printf("  Pending analysis: %d\n", stats.PendingItems)
		fmt.Printf("  Target app items: %d\n", stats.TargetItems)
		fmt.Println("\nCollection:")
		fmt.Printf("  Source types: %d\n", stats.SourceTypes)
		fmt.Printf("  Collection runs: %d\n", stats.CollectionRuns)

		st := openStore()
		for _, name := range []string{aggregate.StatsFile, aggregate.TrendsFile, aggregate.TopIssuesFile} {
			state := "missing"
			if _, err := st.ReadView(name); err == nil {
				state = "present"
			}
			fmt.Printf("  %s: %s\n", name, state)
		}
		return nil
	},
}

// --- collect command ---

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect feedback from configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Println("Collecting feedback from sources...")

		collector := collect.NewCollector(cfg, db)
		result := collector.Collect()

		fmt.Println("\nCollection complete:")
		fmt.Printf("  Total found: %d\n", result.TotalFound)
		fmt.Printf("  New items: %d\n", result.NewItems)
		fmt.Printf("  Duplicates skipped: %d\n", result.Duplicates)

		if len(result.Sources) > 0 {
			fmt.Println("\nItems by source:")
			// Sort sources by count descending
			type kv struct {
				key string
				val int
			}
			var sorted []kv
			for k, v := range result.Sources {
				sorted = append(sorted, kv{k, v})
			}
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].val > sorted[j].val })
			for _, s := range sorted {
				fmt.Printf("  %s: %d\n", s.key, s.val)
			}
		}

		fetcher := fetch.NewContentFetcher(db, 15*time.Second)
		fetchResult := fetcher.FetchMissingContent()
		if fetchResult.Fetched > 0 || fetchResult.Failed > 0 {
			fmt.Printf("\nFetched full text for %d posts (%d failed)\n", fetchResult.Fetched, fetchResult.Failed)
		}
		return nil
	},
}

// --- analyze command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify collected items with the configured LLM provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		provider := analyze.CreateProvider(cfg.Analysis.Provider, cfg.Analysis.Model, cfg.Analysis.APIKeyEnv, cfg.Analysis.OllamaURL)
		if !provider.IsConfigured() {
			return fmt.Errorf("analysis provider %q is not configured", cfg.Analysis.Provider)
		}

		analyzer := analyze.NewAnalyzer(cfg, db, openStore(), provider)
		result := analyzer.AnalyzeItems(context.Background())

		fmt.Println("Analysis complete:")
		fmt.Printf("  Processed: %d\n", result.Processed)
		fmt.Printf("  Skipped: %d\n", result.Skipped)
		fmt.Printf("  Errors: %d\n", result.Errors)
		return nil
	},
}

// --- aggregate command ---

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Rebuild dashboard views from analyzed items",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore()

		result, err := aggregate.New(st).Run()
		if err != nil {
			return err
		}

		if result.Items == 0 {
			fmt.Println("No analyzed items found. Run 'reviewpulse analyze' first.")
			return nil
		}

		fmt.Printf("Aggregated %d items into %d views\n", result.Items, len(result.Written))
		for _, name := range result.Written {
			fmt.Printf("  %s\n", filepath.Join(st.AggregatedDir(), name))
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("%d view(s) failed to write", len(result.Errors))
		}

		if err := report.NewGenerator(st).Run(); err != nil {
			return fmt.Errorf("generating digest: %w", err)
		}
		return nil
	},
}

// --- run command ---

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: collect -> fetch -> analyze -> aggregate -> report",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db, openStore())

		var result *pipeline.Result
		if dryRun {
			result = pipe.DryRun()
		} else {
			result = pipe.Run(context.Background())
		}

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/5: %s\n", i+1, step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}

		if !dryRun {
			fmt.Println("\nPipeline complete! Run 'reviewpulse serve' to view the dashboard.")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, openStore(), port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (defaults to config)")
}

func openDB() (*database.DB, error) {
	return database.Open(database.DefaultPath(cfg.GetDataDir()))
}

func openStore() *store.Store {
	return store.New(cfg.GetDataDir())
}
