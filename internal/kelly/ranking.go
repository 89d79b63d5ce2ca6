package kelly

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/kelly-board/internal/models"
)

// NoBetText is the recommendation shown when the Kelly stake is zero
const NoBetText = "No Bet"

// Evaluate derives the full staking verdict for a quote given a model probability.
// modelProb is clamped to [0,1]; the returned fraction is rounded to four places
// while the stake is sized from the unrounded fraction.
func Evaluate(quote models.Quote, modelProb, bankroll float64) (models.Evaluation, error) {
	return EvaluateWithSizing(quote, modelProb, bankroll, FullKelly())
}

// EvaluateWithSizing is Evaluate with a fractional Kelly policy. The confidence
// tier is always taken from the full Kelly fraction.
func EvaluateWithSizing(quote models.Quote, modelProb, bankroll float64, sizing Sizing) (models.Evaluation, error) {
	if bankroll < 0 {
		return models.Evaluation{}, fmt.Errorf("%w: %.2f", models.ErrInvalidBankroll, bankroll)
	}
	implied, err := ImpliedProbability(quote.Odds)
	if err != nil {
		return models.Evaluation{}, err
	}
	p := ClampProbability(modelProb, 0, 1)

	fraction, err := KellyFraction(p, quote.Odds)
	if err != nil {
		return models.Evaluation{}, err
	}
	staked := sizing.Apply(fraction)

	eval := models.Evaluation{
		Selection:     quote.Selection,
		Opponent:      quote.Opponent,
		Market:        quote.Market,
		Odds:          quote.Odds,
		Point:         quote.Point,
		Bookmaker:     quote.Bookmaker,
		ImpliedProb:   implied,
		ModelProb:     p,
		ExpectedValue: ExpectedValue(p, implied),
		KellyFraction: RoundFraction(staked),
		KellyStake:    RoundCurrency(staked * bankroll),
		Confidence:    ClassifyConfidence(fraction),
	}
	eval.Recommendation = Recommendation(eval)
	return eval, nil
}

// Recommendation renders the human readable verdict for an evaluation
func Recommendation(e models.Evaluation) string {
	if e.KellyStake <= 0 {
		return NoBetText
	}
	return fmt.Sprintf("BET %s vs %s ($%s)", e.Selection, e.Opponent, decimal.NewFromFloat(e.KellyStake).StringFixed(2))
}

// FilterAndRank drops evaluations whose edge is below minEdge and orders the rest
// by Kelly stake descending. Ties fall back to expected value then selection name.
// The input slice is not modified.
func FilterAndRank(evals []models.Evaluation, minEdge float64) []models.Evaluation {
	out := make([]models.Evaluation, 0, len(evals))
	for _, e := range evals {
		if e.ExpectedValue < minEdge {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].KellyStake != out[j].KellyStake {
			return out[i].KellyStake > out[j].KellyStake
		}
		if out[i].ExpectedValue != out[j].ExpectedValue {
			return out[i].ExpectedValue > out[j].ExpectedValue
		}
		return out[i].Selection < out[j].Selection
	})
	return out
}
