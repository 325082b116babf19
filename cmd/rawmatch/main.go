package main

import (
	"errors"
	"fmt"
	"os"

	"rawmatch/internal/app"
	"rawmatch/internal/config"
	"rawmatch/internal/match"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
func newApp(verbose bool) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config (run 'rawmatch config init' first): %w", err)
	}

	a, err := app.NewApp(cfg, verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// isTTY reports whether stdout is a terminal, gating preamble/progress lines
// so piped output stays clean.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "rawmatch",
	Short: "Find and copy the RAW companions of JPEG files",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir:  %s\n", defaults["base_dir"])
		fmt.Printf("Cache Dir: %s\n", defaults["cache_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:       %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		fmt.Printf("Store:          %s (%s)\n", cfg.Store.Type, cfg.Store.DataDir)
		fmt.Printf("Exif Workers:   %d\n", cfg.Exif.Workers)
		fmt.Printf("Exif Timeout:   %ds\n", cfg.Exif.TimeoutSeconds)
		return nil
	},
}

// index command
var indexCmd = &cobra.Command{
	Use:   "index DIR",
	Short: "Build or update the RAW file index for a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noRecursive, _ := cmd.Flags().GetBool("no-recursive")
		forceRebuild, _ := cmd.Flags().GetBool("force-rebuild")
		verbose, _ := cmd.Flags().GetBool("verbose")

		a, err := newApp(verbose)
		if err != nil {
			return err
		}
		defer a.Close()

		if isTTY() {
			fmt.Printf("Indexing %s ...\n", args[0])
		}

		report, err := a.Index(cmd.Context(), args[0], !noRecursive, forceRebuild)
		if err != nil {
			return err
		}

		fmt.Printf("Indexed %s\n", report.SourceDirectory)
		fmt.Printf("  RAW files: %d (new %d, changed %d, removed %d, unchanged %d)\n",
			report.FileCount, report.Added, report.Changed, report.Removed, report.Unchanged)
		printFileErrors(report.Errors)
		return nil
	},
}

// match command
var matchCmd = &cobra.Command{
	Use:   "match DIR",
	Short: "Find RAW companions for JPEGs in a directory and copy them there",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noRecursive, _ := cmd.Flags().GetBool("no-recursive")
		sourceFilter, _ := cmd.Flags().GetString("source-filter")
		verbose, _ := cmd.Flags().GetBool("verbose")

		a, err := newApp(verbose)
		if err != nil {
			return err
		}
		defer a.Close()

		if isTTY() {
			fmt.Printf("Matching JPEGs under %s ...\n", args[0])
		}

		summary, err := a.Match(cmd.Context(), args[0], !noRecursive, sourceFilter)
		if err != nil {
			if errors.Is(err, match.ErrNoIndexes) {
				printNoIndexGuidance(err)
				return nil
			}
			return err
		}

		fmt.Printf("RAW files indexed: %d\n", summary.RawFilesIndexed)
		fmt.Printf("JPEG files scanned: %d\n", summary.JPEGsScanned)
		fmt.Printf("Matches found: %d\n", summary.MatchesFound)
		fmt.Printf("Copied: %d  Skipped (already present): %d  Failed: %d\n",
			summary.Copied, summary.Skipped, summary.Failed)
		printFileErrors(summary.Errors)
		return nil
	},
}

// list-index command
var listIndexCmd = &cobra.Command{
	Use:   "list-index",
	Short: "List indexed source directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		infos, err := a.ListIndexes()
		if err != nil {
			return err
		}

		if len(infos) == 0 {
			fmt.Println("No directories indexed.")
			return nil
		}

		for _, info := range infos {
			fmt.Printf("%s  %6d files  %s\n",
				info.LastUpdated.Format("2006-01-02 15:04:05"),
				info.FileCount,
				info.SourceDirectory,
			)
		}
		return nil
	},
}

// clear-cache command
var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Remove persisted indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")

		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.ClearCache(source)
		if err != nil {
			return err
		}

		if source == "" {
			fmt.Println("All indexes cleared.")
		} else if removed {
			fmt.Printf("Index removed for %s\n", source)
		} else {
			fmt.Printf("No index found for %s\n", source)
		}
		return nil
	},
}

func printFileErrors(errs []match.FileError) {
	if len(errs) == 0 {
		return
	}
	fmt.Printf("\n%d file(s) had problems:\n", len(errs))
	for _, fe := range errs {
		fmt.Printf("  %s: %s\n", fe.Path, fe.Reason)
	}
}

func printNoIndexGuidance(err error) {
	fmt.Println("No RAW file index available.")
	fmt.Println(err)
	fmt.Println()
	fmt.Println("Create one first:")
	fmt.Println("  rawmatch index <directory with RAW files>")
	fmt.Println()
	fmt.Println("Existing indexes can be listed with:")
	fmt.Println("  rawmatch list-index")
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)

	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().Bool("no-recursive", false, "Do not recurse into subdirectories")
	indexCmd.Flags().BoolP("force-rebuild", "f", false, "Rebuild the index from scratch")
	indexCmd.Flags().BoolP("verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().Bool("no-recursive", false, "Do not recurse into subdirectories")
	matchCmd.Flags().String("source-filter", "", "Only match against this indexed source directory")
	matchCmd.Flags().BoolP("verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(listIndexCmd)

	rootCmd.AddCommand(clearCacheCmd)
	clearCacheCmd.Flags().String("source", "", "Only clear the index for this source directory")
}
