package kelly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/kelly-board/internal/models"
)

func moneyline(selection, opponent string, odds int) models.Quote {
	return models.Quote{
		Selection: selection,
		Opponent:  opponent,
		Market:    models.MarketTypeMoneyline,
		Odds:      odds,
	}
}

func TestEvaluateWorkedExample(t *testing.T) {
	eval, err := Evaluate(moneyline("Yankees", "Red Sox", -150), 0.65, 1000)
	require.NoError(t, err)

	assert.InDelta(t, 0.6, eval.ImpliedProb, 1e-12)
	assert.Equal(t, 0.65, eval.ModelProb)
	assert.InDelta(t, 0.05, eval.ExpectedValue, 1e-12)
	assert.Equal(t, 0.125, eval.KellyFraction)
	assert.Equal(t, 125.0, eval.KellyStake)
	assert.Equal(t, models.ConfidenceLow, eval.Confidence)
	assert.Equal(t, "BET Yankees vs Red Sox ($125.00)", eval.Recommendation)
}

func TestEvaluateNoEdge(t *testing.T) {
	eval, err := Evaluate(moneyline("Mets", "Braves", 120), 0.40, 1000)
	require.NoError(t, err)

	assert.Equal(t, 0.0, eval.KellyFraction)
	assert.Equal(t, 0.0, eval.KellyStake)
	assert.Equal(t, NoBetText, eval.Recommendation)
	assert.False(t, eval.IsBet())
}

func TestEvaluateInvalidOdds(t *testing.T) {
	_, err := Evaluate(moneyline("Cubs", "Cardinals", 0), 0.5, 1000)
	assert.ErrorIs(t, err, models.ErrInvalidOdds)
}

func TestEvaluateHighConfidence(t *testing.T) {
	eval, err := Evaluate(moneyline("Dodgers", "Giants", 200), 0.8, 1000)
	require.NoError(t, err)

	// b = 2, f = (0.8*2 - 0.2)/2 = 0.7
	assert.InDelta(t, 0.7, eval.KellyFraction, 1e-9)
	assert.Equal(t, 700.0, eval.KellyStake)
	assert.Equal(t, models.ConfidenceHigh, eval.Confidence)
}

func TestFilterAndRank(t *testing.T) {
	evals := []models.Evaluation{
		{Selection: "A", ExpectedValue: 0.02, KellyStake: 300},
		{Selection: "B", ExpectedValue: 0.06, KellyStake: 50},
		{Selection: "C", ExpectedValue: 0.10, KellyStake: 90},
	}

	ranked := FilterAndRank(evals, 0.05)
	require.Len(t, ranked, 2)
	assert.Equal(t, "C", ranked[0].Selection)
	assert.Equal(t, "B", ranked[1].Selection)

	// input untouched
	assert.Equal(t, "A", evals[0].Selection)
}

func TestFilterAndRankKeepsEdgeAtThreshold(t *testing.T) {
	evals := []models.Evaluation{{Selection: "A", ExpectedValue: 0.05, KellyStake: 10}}
	assert.Len(t, FilterAndRank(evals, 0.05), 1)
}

func TestFilterAndRankTieBreaks(t *testing.T) {
	evals := []models.Evaluation{
		{Selection: "Zeta", ExpectedValue: 0.08, KellyStake: 40},
		{Selection: "Alpha", ExpectedValue: 0.08, KellyStake: 40},
		{Selection: "Beta", ExpectedValue: 0.12, KellyStake: 40},
	}

	ranked := FilterAndRank(evals, 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"Beta", "Alpha", "Zeta"}, []string{ranked[0].Selection, ranked[1].Selection, ranked[2].Selection})
}

func TestFilterAndRankEmpty(t *testing.T) {
	ranked := FilterAndRank(nil, 0.05)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRecommendation(t *testing.T) {
	assert.Equal(t, NoBetText, Recommendation(models.Evaluation{Selection: "A", Opponent: "B"}))
	assert.Equal(t, "BET A vs B ($1234.50)", Recommendation(models.Evaluation{Selection: "A", Opponent: "B", KellyStake: 1234.5}))
}

func TestEvaluateWithSizing(t *testing.T) {
	quote := moneyline("Dodgers", "Giants", 200)

	half, err := EvaluateWithSizing(quote, 0.8, 1000, Sizing{Multiplier: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.35, half.KellyFraction, 1e-9)
	assert.Equal(t, 350.0, half.KellyStake)
	assert.Equal(t, models.ConfidenceHigh, half.Confidence)

	capped, err := EvaluateWithSizing(quote, 0.8, 1000, Sizing{Multiplier: 1, MaxFraction: 0.05})
	require.NoError(t, err)
	assert.Equal(t, 0.05, capped.KellyFraction)
	assert.Equal(t, 50.0, capped.KellyStake)
}

func TestSizingApplyDefaultsMultiplier(t *testing.T) {
	assert.Equal(t, 0.2, Sizing{}.Apply(0.2))
	assert.Equal(t, 0.2, FullKelly().Apply(0.2))
}

func TestSizingApplyNeverExceedsBankroll(t *testing.T) {
	assert.Equal(t, 1.0, Sizing{Multiplier: 3}.Apply(0.6))

	eval, err := EvaluateWithSizing(moneyline("Dodgers", "Giants", 200), 0.95, 1000, Sizing{Multiplier: 4})
	require.NoError(t, err)
	assert.LessOrEqual(t, eval.KellyFraction, 1.0)
	assert.LessOrEqual(t, eval.KellyStake, 1000.0)
}
