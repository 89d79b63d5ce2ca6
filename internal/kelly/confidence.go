package kelly

import "github.com/yourusername/kelly-board/internal/models"

// Tier thresholds, applied to the Kelly fraction
const (
	HighConfidenceThreshold   = 0.30
	MediumConfidenceThreshold = 0.15
)

// ClassifyConfidence maps a Kelly fraction to a confidence tier.
// Bands are checked from the top down: > 0.30 High, >= 0.15 Medium, else Low.
func ClassifyConfidence(kellyFraction float64) models.ConfidenceTier {
	switch {
	case kellyFraction > HighConfidenceThreshold:
		return models.ConfidenceHigh
	case kellyFraction >= MediumConfidenceThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
