package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/kelly-board/internal/kelly"
	"github.com/yourusername/kelly-board/internal/models"
)

var (
	calcOdds      int
	calcProb      float64
	calcBankroll  float64
	calcSelection string
	calcOpponent  string
	calcJSON      bool
)

func init() {
	calcCmd.Flags().IntVar(&calcOdds, "odds", 0, "American odds, e.g. -150 or +120")
	calcCmd.Flags().Float64Var(&calcProb, "prob", 0, "Model win probability in [0, 1]")
	calcCmd.Flags().Float64Var(&calcBankroll, "bankroll", 1000, "Bankroll to size the stake against")
	calcCmd.Flags().StringVar(&calcSelection, "selection", "Selection", "Name of the side being backed")
	calcCmd.Flags().StringVar(&calcOpponent, "opponent", "Opponent", "Name of the other side")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "Print the evaluation as JSON")
	_ = calcCmd.MarkFlagRequired("odds")
	_ = calcCmd.MarkFlagRequired("prob")
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Evaluate a single line without fetching odds",
	Example: `  kelly-board calc --odds -150 --prob 0.65
  kelly-board calc --odds 120 --prob 0.5 --bankroll 2500`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eval, err := evaluateLine(calcSelection, calcOpponent, calcOdds, calcProb, calcBankroll)
		if err != nil {
			return err
		}

		board := models.NewBoard(calcBankroll, 0)
		board.QuotesSeen = 1
		board.Evaluations = append(board.Evaluations, eval)
		return printBoard(cmd.OutOrStdout(), board, calcJSON)
	},
}

// evaluateLine runs one moneyline quote through the staking engine
func evaluateLine(selection, opponent string, odds int, prob, bankroll float64) (models.Evaluation, error) {
	if prob < 0 || prob > 1 {
		return models.Evaluation{}, fmt.Errorf("probability %.4f must lie within [0, 1]", prob)
	}
	quote := models.Quote{
		Selection: selection,
		Opponent:  opponent,
		Market:    models.MarketTypeMoneyline,
		Odds:      odds,
	}
	return kelly.Evaluate(quote, prob, bankroll)
}
