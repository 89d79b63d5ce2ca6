// Package display renders boards for terminal output.
package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	humanize "github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/yourusername/kelly-board/internal/models"
)

// NoDataMessage is printed when a fetch produced nothing to evaluate
const NoDataMessage = "No data available. Please check your API key or data source."

var tableHeader = []string{
	"RECOMMENDATION", "TEAM", "OPPONENT", "MARKET", "ODDS",
	"IMPLIED", "MODEL", "EDGE", "KELLY", "STAKE", "CONFIDENCE",
}

// TableRenderer writes a board as an aligned text table
type TableRenderer struct {
	MinWidth int
	Padding  int
}

// NewTableRenderer creates a renderer with default spacing
func NewTableRenderer() *TableRenderer {
	return &TableRenderer{MinWidth: 0, Padding: 2}
}

// Render writes board to w
func (r *TableRenderer) Render(w io.Writer, board *models.Board) error {
	if board == nil || (board.IsEmpty() && (board.QuotesSeen == 0 || board.FetchError != "")) {
		if board != nil && board.FetchError != "" {
			if _, err := fmt.Fprintf(w, "Fetch error: %s\n", board.FetchError); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	if _, err := fmt.Fprintln(w, Summary(board)); err != nil {
		return err
	}

	if board.IsEmpty() {
		_, err := fmt.Fprintf(w, "No lines clear the %s minimum edge.\n", FormatPercent(board.MinEdge))
		return err
	}

	tw := tabwriter.NewWriter(w, r.MinWidth, 0, r.Padding, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader, "\t"))
	for _, e := range board.Evaluations {
		fmt.Fprintln(tw, strings.Join(row(e), "\t"))
	}
	return tw.Flush()
}

func row(e models.Evaluation) []string {
	line := models.Quote{Selection: e.Selection, Market: e.Market, Point: e.Point}
	return []string{
		e.Recommendation,
		line.Label(),
		e.Opponent,
		string(e.Market),
		FormatOdds(e.Odds),
		FormatPercent(e.ImpliedProb),
		FormatPercent(e.ModelProb),
		FormatPercent(e.ExpectedValue),
		FormatPercent(e.KellyFraction),
		FormatMoney(e.KellyStake),
		string(e.Confidence),
	}
}

// Summary is the one-line board header
func Summary(board *models.Board) string {
	bets := 0
	for i := range board.Evaluations {
		if board.Evaluations[i].IsBet() {
			bets++
		}
	}
	return fmt.Sprintf("Bankroll %s | Min edge %s | %d lines, %d bets, total stake %s | skipped %d | %s",
		FormatMoney(board.Bankroll),
		FormatPercent(board.MinEdge),
		len(board.Evaluations),
		bets,
		FormatMoney(board.TotalStake()),
		board.QuotesSkipped,
		board.GeneratedAt.Format("2006-01-02 15:04 MST"),
	)
}

// FormatOdds renders American odds with an explicit sign
func FormatOdds(odds int) string {
	if odds > 0 {
		return fmt.Sprintf("+%d", odds)
	}
	return fmt.Sprintf("%d", odds)
}

// FormatPercent renders a probability as a percentage with 2 decimals
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// FormatMoney renders an amount as $1,234.56
func FormatMoney(amount float64) string {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	if rounded < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -rounded)
	}
	return "$" + humanize.FormatFloat("#,###.##", rounded)
}
