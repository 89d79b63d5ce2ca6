package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/kelly-board/internal/display"
	"github.com/yourusername/kelly-board/internal/models"
)

var (
	boardBankroll float64
	boardMinEdge  float64
	boardJSON     bool
)

func init() {
	boardCmd.Flags().Float64Var(&boardBankroll, "bankroll", 0, "Bankroll to size stakes against (default from config)")
	boardCmd.Flags().Float64Var(&boardMinEdge, "min-edge", 0, "Minimum expected value for a line to be listed (default from config)")
	boardCmd.Flags().BoolVar(&boardJSON, "json", false, "Print the board as JSON")
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Fetch odds once and print the ranked board",
	RunE:  runBoard,
}

func runBoard(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	appLog := newAppLogger(cfg)
	// stdout carries the board
	appLog.SetOutput(os.Stderr)

	a, err := newApp(cfg, appLog)
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd.Flags().Changed("bankroll") || cmd.Flags().Changed("min-edge") {
		bankroll, minEdge := cfg.Engine.Bankroll, cfg.Engine.MinEdge
		if cmd.Flags().Changed("bankroll") {
			bankroll = boardBankroll
		}
		if cmd.Flags().Changed("min-edge") {
			minEdge = boardMinEdge
		}
		strat, err := a.strategy.WithStaking(bankroll, minEdge)
		if err != nil {
			return err
		}
		if err := a.rebuildService(strat); err != nil {
			return err
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout()*2)
	defer cancel()

	board, err := a.service.Refresh(fetchCtx)
	if board == nil {
		return fmt.Errorf("failed to build board: %w", err)
	}
	if err != nil {
		appLog.WithError(err).Warn("Board built without fresh odds")
	}

	return printBoard(cmd.OutOrStdout(), board, boardJSON)
}

// printBoard writes the board as a table or as indented JSON
func printBoard(w io.Writer, board *models.Board, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(board)
	}
	return display.NewTableRenderer().Render(w, board)
}
