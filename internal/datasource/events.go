package datasource

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/kelly-board/internal/logger"
	"github.com/yourusername/kelly-board/internal/models"
)

// OddsEvent is one game as returned by The Odds API v4 /sports/{sport}/odds
type OddsEvent struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key"`
	SportTitle   string          `json:"sport_title"`
	CommenceTime time.Time       `json:"commence_time"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   []OddsBookmaker `json:"bookmakers"`
}

// OddsBookmaker is one bookmaker's markets for an event
type OddsBookmaker struct {
	Key        string       `json:"key"`
	Title      string       `json:"title"`
	LastUpdate time.Time    `json:"last_update"`
	Markets    []OddsMarket `json:"markets"`
}

// OddsMarket is a single market (h2h, spreads, totals) for a bookmaker
type OddsMarket struct {
	Key      string        `json:"key"`
	Outcomes []OddsOutcome `json:"outcomes"`
}

// OddsOutcome is one priced outcome. Price is American when oddsFormat=american.
type OddsOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// marketTypes maps The Odds API market keys to board markets
var marketTypes = map[string]models.MarketType{
	"h2h":     models.MarketTypeMoneyline,
	"spreads": models.MarketTypeSpread,
	"totals":  models.MarketTypeTotal,
}

// QuoteNormalizer flattens events into quotes, keeping the first bookmaker's
// line for every selection/opponent/market.
type QuoteNormalizer struct {
	validate *validator.Validate
	logger   *logger.FetchLogger
}

// NewQuoteNormalizer creates a normalizer
func NewQuoteNormalizer(fetchLogger *logger.FetchLogger) *QuoteNormalizer {
	return &QuoteNormalizer{
		validate: validator.New(),
		logger:   fetchLogger,
	}
}

// Normalize converts events to de-duplicated quotes. Odds are not validated
// here; zero odds reach the engine, which skips and counts them.
func (n *QuoteNormalizer) Normalize(events []OddsEvent) []models.Quote {
	seen := make(map[string]struct{})
	quotes := make([]models.Quote, 0, len(events)*2)

	for _, event := range events {
		for _, bookmaker := range event.Bookmakers {
			for _, market := range bookmaker.Markets {
				marketType, ok := marketTypes[market.Key]
				if !ok {
					continue
				}
				for _, outcome := range market.Outcomes {
					quote := buildQuote(event, bookmaker.Key, marketType, outcome)
					if err := n.validate.StructExcept(quote, "Odds"); err != nil {
						if n.logger != nil {
							n.logger.WithError(err).WithField("event_id", event.ID).Debug("Outcome dropped")
						}
						continue
					}

					key := quote.Key()
					if _, dup := seen[key]; dup {
						if n.logger != nil {
							n.logger.LogDuplicateDropped(key, bookmaker.Key)
						}
						continue
					}
					seen[key] = struct{}{}
					quotes = append(quotes, quote)
				}
			}
		}
	}

	return quotes
}

// buildQuote resolves the opponent: the home team, unless the outcome is the
// home team, in which case the away team. Totals name the matchup instead.
func buildQuote(event OddsEvent, bookmaker string, market models.MarketType, outcome OddsOutcome) models.Quote {
	opponent := event.HomeTeam
	if outcome.Name == event.HomeTeam {
		opponent = event.AwayTeam
	}
	if market == models.MarketTypeTotal {
		opponent = fmt.Sprintf("%s @ %s", event.AwayTeam, event.HomeTeam)
	}

	return models.Quote{
		EventID:      event.ID,
		SportKey:     event.SportKey,
		Bookmaker:    bookmaker,
		Selection:    outcome.Name,
		Opponent:     opponent,
		Market:       market,
		Odds:         int(math.Round(outcome.Price)),
		Point:        outcome.Point,
		CommenceTime: event.CommenceTime,
	}
}
