package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/gantry/internal/model"
	"github.com/zjrosen/gantry/internal/presentation"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Board document operations",
}

var boardShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show a board document, creating it if missing",
	Long: `Look up a board by file path and print it as JSON. A path that does
not exist yet is created as an empty board document named after the
file; the outcome field reports whether the board was found or created.

Placements are resolved against the part catalog, so the configuration
directory must load first.

Examples:
  gantry board show boards/controller.board.yaml
  gantry board show new.board.yaml   # creates an empty board document`,
	Args: cobra.ExactArgs(1),
	RunE: runBoardShow,
}

func init() {
	boardCmd.AddCommand(boardShowCmd)
	rootCmd.AddCommand(boardCmd)
}

func runBoardShow(cmd *cobra.Command, args []string) error {
	provider, cleanup, err := newTracerProvider()
	if err != nil {
		return err
	}
	defer cleanup()

	c := model.New(model.WithTracer(provider.Tracer()))
	if err := c.Load(cmd.Context(), resolveConfigDir()); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	board, outcome, err := c.Board(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	return formatter.FormatBoard(presentation.FromBoard(board, outcome))
}
