package models

import (
	"fmt"
	"time"
)

// MarketType represents the wagering market a quote belongs to
type MarketType string

const (
	MarketTypeMoneyline MarketType = "moneyline"
	MarketTypeSpread    MarketType = "spread"
	MarketTypeTotal     MarketType = "total"
)

// Valid reports whether the market type is one of the supported markets
func (m MarketType) Valid() bool {
	switch m {
	case MarketTypeMoneyline, MarketTypeSpread, MarketTypeTotal:
		return true
	default:
		return false
	}
}

// Quote represents one wagering line as offered by a bookmaker
type Quote struct {
	EventID      string     `json:"event_id,omitempty"`
	SportKey     string     `json:"sport_key,omitempty"`
	Bookmaker    string     `json:"bookmaker,omitempty"`
	Selection    string     `json:"selection" validate:"required"`
	Opponent     string     `json:"opponent" validate:"required"`
	Market       MarketType `json:"market" validate:"required,oneof=moneyline spread total"`
	Odds         int        `json:"odds" validate:"required,ne=0"` // American odds
	Point        *float64   `json:"point,omitempty"`
	CommenceTime time.Time  `json:"commence_time,omitempty"`
}

// Key identifies a line independently of the bookmaker offering it
func (q *Quote) Key() string {
	return fmt.Sprintf("%s|%s|%s", q.Selection, q.Opponent, q.Market)
}

// HasPoint returns true when the quote carries a spread or total line
func (q *Quote) HasPoint() bool {
	return q.Point != nil
}

// Label returns a human readable description of the selection including the line
func (q *Quote) Label() string {
	if !q.HasPoint() {
		return q.Selection
	}
	if q.Market == MarketTypeSpread {
		return fmt.Sprintf("%s %+g", q.Selection, *q.Point)
	}
	return fmt.Sprintf("%s %g", q.Selection, *q.Point)
}
