package pricing

import "fmt"

// InputError rejects a quote request before any calculation runs.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MissingRateError means the rate provider had no price for the city.
// The engine fails closed on it: no quote is produced.
type MissingRateError struct {
	City string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("rates unavailable for %s, try again", e.City)
}
