package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/gantry/internal/log"
	"github.com/zjrosen/gantry/internal/model"
	"github.com/zjrosen/gantry/internal/presentation"
	"github.com/zjrosen/gantry/internal/watcher"
)

var (
	validateWatch bool
	validateJSON  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Load and validate a machine configuration",
	Long: `Load the machine document, package catalog and part catalog from the
configuration directory, resolving every reference. Fails when any
document is missing or malformed or any reference does not resolve.

With --watch, stays running and re-validates whenever a catalog
document changes on disk.

Examples:
  # Validate the default configuration directory
  gantry validate

  # Validate a specific directory
  gantry validate ./machines/line-1

  # Re-validate on every change
  gantry validate --watch

  # Machine-readable output
  gantry validate --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false,
		"re-validate when catalog documents change")
	validateCmd.Flags().Bool("json", false,
		"print the loaded configuration as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir := resolveConfigDir()
	if len(args) == 1 {
		dir = args[0]
	}
	validateJSON, _ = cmd.Flags().GetBool("json")

	provider, cleanup, err := newTracerProvider()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := validateOnce(cmd, provider.Tracer(), dir); err != nil {
		return err
	}
	if !validateWatch {
		return nil
	}
	return watchAndRevalidate(cmd, provider.Tracer(), dir)
}

// validateOnce loads the directory into a fresh model so stale entities
// from a previous pass never linger.
func validateOnce(cmd *cobra.Command, tracer trace.Tracer, dir string) error {
	c := model.New(model.WithTracer(tracer))
	if err := c.Load(cmd.Context(), dir); err != nil {
		return fmt.Errorf("validating %s: %w", dir, err)
	}

	if validateJSON {
		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		return formatter.FormatSummary(presentation.FromConfiguration(c))
	}

	cmd.Printf("OK: %s machine, %d packages, %d parts\n",
		c.Machine().Type(), len(c.Packages()), len(c.Parts()))
	return nil
}

func watchAndRevalidate(cmd *cobra.Command, tracer trace.Tracer, dir string) error {
	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	w, err := watcher.New(watcher.Config{Dir: dir, DebounceDur: debounce})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s for changes (ctrl-c to stop)\n", dir)
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-onChange:
			if !cfg.AutoReload {
				cmd.Println("Change detected (auto_reload disabled, skipping)")
				continue
			}
			log.Debug(log.CatWatch, "catalog change detected", "dir", dir)
			if err := validateOnce(cmd, tracer, dir); err != nil {
				// Keep watching: a save burst can leave documents
				// momentarily inconsistent.
				cmd.PrintErrf("invalid: %v\n", err)
			}
		}
	}
}
