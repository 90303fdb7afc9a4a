package pricing

import (
	"context"
	"time"
)

// RateSnapshot is the rate provider's view of the metal market for a city
// at a point in time. Gold rates are INR per gram for 24K.
type RateSnapshot struct {
	City       string    `json:"city"`
	Gold24K    float64   `json:"gold_24k"`
	USDINR     float64   `json:"usd_inr"`
	RateDate   string    `json:"rate_date"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RateProvider supplies the latest rate snapshot for a city. A missing
// snapshot must be reported as *MissingRateError.
type RateProvider interface {
	LatestRate(ctx context.Context, city string) (*RateSnapshot, error)
}

// Fact is one persisted pricing-profile field. Key is a canonical
// composite built at write time ("making_ring", "cz_pave",
// "diamond_melee_gh_vs"); readers split on the known prefixes only.
type Fact struct {
	Category     string  `json:"category"`
	Key          string  `json:"key"`
	Value        string  `json:"value"`
	ValueNumeric float64 `json:"value_numeric"`
}

// ProfileStore persists per-user pricing facts with upsert-by-key
// semantics. Last write wins per key; no history is kept.
type ProfileStore interface {
	PricingFacts(ctx context.Context, userID int64) ([]Fact, error)
	UpsertFact(ctx context.Context, userID int64, f Fact) error
}
