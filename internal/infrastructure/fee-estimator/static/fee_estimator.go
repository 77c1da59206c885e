package static

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	DefaultPriority = PriorityMedium
)

var priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// FeeRates holds the fee rate of every priority level, as decimal strings in
// units per byte (ie. "1.5").
type FeeRates struct {
	Low    string
	Medium string
	High   string
}

// FeeEstimator returns fee rates from a fixed table. Fractional rates are
// rounded up to the next whole unit per byte.
type FeeEstimator struct {
	rates map[string]btcutil.Amount
}

func NewFeeEstimator(rates FeeRates) (*FeeEstimator, error) {
	ratesByPriority := map[string]string{
		PriorityLow:    rates.Low,
		PriorityMedium: rates.Medium,
		PriorityHigh:   rates.High,
	}

	table := make(map[string]btcutil.Amount, len(priorities))
	prev := btcutil.Amount(0)
	for _, priority := range priorities {
		rate, err := parseFeeRate(ratesByPriority[priority])
		if err != nil {
			return nil, fmt.Errorf("invalid %s fee rate: %w", priority, err)
		}
		if rate < prev {
			return nil, fmt.Errorf(
				"%s fee rate must not be lower than the previous one", priority,
			)
		}
		table[priority] = rate
		prev = rate
	}
	return &FeeEstimator{table}, nil
}

// GetFeeRate returns the fee rate for the given priority, or for the default
// one if empty.
func (e *FeeEstimator) GetFeeRate(
	_ context.Context, priority string,
) (btcutil.Amount, error) {
	if priority == "" {
		priority = DefaultPriority
	}
	rate, ok := e.rates[priority]
	if !ok {
		return 0, fmt.Errorf(
			"unknown fee priority %q, must be one of %v", priority, priorities,
		)
	}
	return rate, nil
}

func parseFeeRate(str string) (btcutil.Amount, error) {
	rate, err := decimal.NewFromString(str)
	if err != nil {
		return 0, err
	}
	if !rate.IsPositive() {
		return 0, fmt.Errorf("must be greater than zero")
	}
	return btcutil.Amount(rate.Ceil().IntPart()), nil
}
