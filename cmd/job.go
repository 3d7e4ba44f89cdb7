package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/gantry/internal/model"
	"github.com/zjrosen/gantry/internal/presentation"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Job document operations",
}

var jobVerifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Load a job and resolve every board reference",
	Long: `Load a job document and resolve each board location against its board
file, printing the resolved job as JSON. Board references are tried as
absolute or working-directory-relative paths first, then relative to
the job file's directory. Fails when any board file cannot be found.

Examples:
  gantry job verify jobs/main.job.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runJobVerify,
}

var jobRewriteOut string

var jobRewriteCmd = &cobra.Command{
	Use:   "rewrite <file>",
	Short: "Rewrite a job document to a new location",
	Long: `Load a job, then save it to --out. Board references are rewritten
relative to the new location where a relative path exists, falling
back to absolute paths. Referenced board documents are saved in place.

Examples:
  gantry job rewrite jobs/main.job.yaml --out export/main.job.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runJobRewrite,
}

func init() {
	jobRewriteCmd.Flags().StringVarP(&jobRewriteOut, "out", "o", "",
		"destination job file (required)")
	_ = jobRewriteCmd.MarkFlagRequired("out")

	jobCmd.AddCommand(jobVerifyCmd)
	jobCmd.AddCommand(jobRewriteCmd)
	rootCmd.AddCommand(jobCmd)
}

func runJobVerify(cmd *cobra.Command, args []string) error {
	provider, cleanup, err := newTracerProvider()
	if err != nil {
		return err
	}
	defer cleanup()

	c := model.New(model.WithTracer(provider.Tracer()))
	if err := c.Load(cmd.Context(), resolveConfigDir()); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	job, err := c.LoadJob(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	return formatter.FormatJob(presentation.FromJob(job))
}

func runJobRewrite(cmd *cobra.Command, args []string) error {
	provider, cleanup, err := newTracerProvider()
	if err != nil {
		return err
	}
	defer cleanup()

	c := model.New(model.WithTracer(provider.Tracer()))
	if err := c.Load(cmd.Context(), resolveConfigDir()); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	job, err := c.LoadJob(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := c.SaveJob(cmd.Context(), job, jobRewriteOut); err != nil {
		return fmt.Errorf("rewriting job: %w", err)
	}

	cmd.Printf("Rewrote %s -> %s (%d locations)\n",
		args[0], jobRewriteOut, len(job.BoardLocations))
	return nil
}
