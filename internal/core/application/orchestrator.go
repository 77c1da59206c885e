package application

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/coinselect/internal/core/domain"
	"github.com/vulpemventures/coinselect/internal/core/ports"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

// Orchestrator runs a coin selector over increasingly less trusted subsets
// of a coin pool, and returns the first group found:
//   - Confirmed coins only.
//   - Confirmed and expedited coins.
//   - Any coin not being spent already.
//
// If the target has a min change, the same sequence is repeated without it
// once exhausted. Tiers that add no coin to the previous one are skipped.
// With the priming strategy, coins worth the target's exclude amount are
// never candidates.
//
// The orchestrator is stateless and performs no locking, callers must make
// sure the given pool is not spent concurrently.
type Orchestrator struct {
	selector ports.CoinSelector
	sizer    estimation.Sizer

	log func(format string, a ...interface{})
}

func NewOrchestrator(
	selector ports.CoinSelector, sizer estimation.Sizer,
) *Orchestrator {
	if selector == nil {
		selector = DefaultCoinSelector
	}
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("orchestrator: %s", format)
		log.Debugf(format, a...)
	}
	return &Orchestrator{selector, sizer, logFn}
}

// Select returns the group paying the target and the tier it comes from.
func (o *Orchestrator) Select(
	strategy domain.Strategy, target domain.Target, coins domain.Coins,
) (*domain.CoinGroup, domain.TrustTier, error) {
	candidates, err := o.candidates(strategy, target, coins)
	if err != nil {
		return nil, 0, err
	}

	minChanges := []btcutil.Amount{target.MinChange}
	if target.MinChange > 0 {
		minChanges = append(minChanges, 0)
	}

	for _, minChange := range minChanges {
		t := target.WithMinChange(minChange)
		prevCount := 0
		for _, tier := range domain.Tiers {
			pool := candidates.SpendableIn(tier)
			if len(pool) == 0 || len(pool) == prevCount {
				continue
			}
			prevCount = len(pool)

			group, err := o.selector.SelectCoins(pool, t)
			if err == nil {
				return group, tier, nil
			}
			if isFatal(err) {
				return nil, 0, err
			}
			o.log(
				"no selection for tier %s with min change %d over %d coin(s): %s",
				tier, minChange, len(pool), err,
			)
		}
	}

	if candidates.SpendableIn(domain.TierAll).Total() >= target.Amount {
		return nil, 0, domain.ErrFeeRateTooHigh
	}
	return nil, 0, domain.ErrInsufficientFunds
}

// Sweep returns the group spending all coins of the given tier, without
// change. The target amount is ignored and replaced by what's left after
// paying the fee.
func (o *Orchestrator) Sweep(
	target domain.Target, coins domain.Coins, tier domain.TrustTier,
) (*domain.CoinGroup, error) {
	pool := coins.SpendableIn(tier)
	if target.ExcludeAmount > 0 {
		pool = pool.WithoutAmount(target.ExcludeAmount)
	}
	if target.OutputCount <= 0 {
		target.OutputCount = 1
	}

	total := pool.Total()
	target.Amount = total
	target.MinChange = 0
	if err := target.Validate(); err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return nil, domain.ErrInsufficientFunds
		}
		return nil, err
	}

	fee := target.Fee(o.sizer, len(pool), false)
	target.Amount = total - fee
	if target.Amount < target.Dust() {
		return nil, domain.ErrFeeRateTooHighToSweep
	}

	group, err := domain.NewCoinGroupWithoutChange(pool.Sorted(), target, o.sizer)
	if err != nil {
		return nil, err
	}
	o.log(
		"sweeping %d coin(s) of tier %s, amount %d fee %d",
		len(pool), tier, target.Amount, fee,
	)
	return group, nil
}

func (o *Orchestrator) candidates(
	strategy domain.Strategy, target domain.Target, coins domain.Coins,
) (domain.Coins, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	candidates := coins.Filter(func(coin *domain.Coin) bool {
		return !coin.IsSpending()
	})
	if strategy != domain.StrategyPriming {
		return candidates, nil
	}
	if target.ExcludeAmount <= 0 {
		return nil, domain.ErrMissingExcludeAmount
	}
	return candidates.WithoutAmount(target.ExcludeAmount), nil
}

func isFatal(err error) bool {
	return errors.Is(err, domain.ErrInvalidConfiguration) ||
		errors.Is(err, domain.ErrNoNaiveCombinationFound)
}
