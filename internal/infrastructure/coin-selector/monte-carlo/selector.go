package montecarlo_selector

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/coinselect/internal/core/domain"
	"github.com/vulpemventures/coinselect/internal/core/ports"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

const (
	DefaultSamples   = 1000
	DefaultMaxInputs = 145

	searchMode = "monte-carlo"
)

// SelectorOpts holds the configuration options of the selector. Any zero
// value falls back to the default one.
//   - Samples - number of random orderings tried after the sorted one.
//   - MaxInputs - max number of coins of a group.
//   - Sizer - the tx size estimator.
//   - Rand - (optional) source of the random orderings. It must not be
//     shared with other goroutines. A time-seeded one is created for every
//     selection if not given.
//   - Observer - (optional) notified of every sampling run.
type SelectorOpts struct {
	Samples   int
	MaxInputs int
	Sizer     estimation.Sizer
	Rand      *rand.Rand
	Observer  ports.SelectionObserver
}

func (o SelectorOpts) withDefaults() SelectorOpts {
	if o.Samples <= 0 {
		o.Samples = DefaultSamples
	}
	if o.MaxInputs <= 0 {
		o.MaxInputs = DefaultMaxInputs
	}
	return o
}

type selector struct {
	opts SelectorOpts

	log func(format string, a ...interface{})
}

func NewMonteCarloCoinSelector() ports.CoinSelector {
	return NewMonteCarloCoinSelectorWithOpts(SelectorOpts{})
}

func NewMonteCarloCoinSelectorWithOpts(opts SelectorOpts) ports.CoinSelector {
	return newSelector(opts)
}

func newSelector(opts SelectorOpts) *selector {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("monte-carlo selector: %s", format)
		log.Debugf(format, a...)
	}
	return &selector{opts.withDefaults(), logFn}
}

// SelectCoins returns a single coin paying the target without change if
// there's any. Otherwise, it accumulates coins in sorted order first, then
// in up to Samples random orders, and returns the cheapest of the groups
// found on the way.
func (s *selector) SelectCoins(
	coins domain.Coins, target domain.Target,
) (*domain.CoinGroup, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if len(coins) == 0 {
		return nil, domain.ErrInsufficientFunds
	}

	sorted := coins.Sorted()
	if group := domain.FindExactMatch(sorted, target, s.opts.Sizer); group != nil {
		s.log("found exact match %s", group.Coins[0].Key())
		return group, nil
	}

	rnd := s.opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var best *domain.CoinGroup
	keep := func(groups []*domain.CoinGroup) {
		for _, g := range groups {
			if best == nil || isBetter(g, best) {
				best = g
			}
		}
	}

	// The sorted ordering has the highest total for any number of coins, if
	// it can't pay the target no other ordering can.
	keep(s.sample(sorted, target))
	if best == nil {
		return nil, domain.ErrInsufficientFunds
	}

	ordering := make(domain.Coins, len(sorted))
	copy(ordering, sorted)
	for i := 0; i < s.opts.Samples; i++ {
		rnd.Shuffle(len(ordering), func(i, j int) {
			ordering[i], ordering[j] = ordering[j], ordering[i]
		})
		keep(s.sample(ordering, target))
	}

	if s.opts.Observer != nil {
		s.opts.Observer.ObserveSearch(ports.SearchEvent{
			Mode: searchMode, Iterations: s.opts.Samples + 1,
		})
	}

	s.log(
		"selected %d coin(s) with fee %d and change %d",
		len(best.Coins), best.Fee, best.ChangeAmount,
	)
	return best, nil
}

// sample accumulates the given coins until their total first covers the
// target. It returns the groups with and without change that are valid for
// the accumulated coins.
func (s *selector) sample(
	ordering domain.Coins, target domain.Target,
) []*domain.CoinGroup {
	total := btcutil.Amount(0)
	for i, coin := range ordering {
		count := i + 1
		if count > s.opts.MaxInputs {
			return nil
		}
		total += coin.Value
		if total < target.SatisfyAmount(s.opts.Sizer, count) {
			continue
		}

		selected := make(domain.Coins, count)
		copy(selected, ordering[:count])

		groups := make([]*domain.CoinGroup, 0, 2)
		if g, err := domain.NewCoinGroupWithChange(
			selected, target, s.opts.Sizer,
		); err == nil {
			groups = append(groups, g)
		}
		if g, err := domain.NewCoinGroupWithoutChange(
			selected, target, s.opts.Sizer,
		); err == nil {
			groups = append(groups, g)
		}
		return groups
	}
	return nil
}

// isBetter returns whether a is preferred over b: lower fee first, then
// higher fee per byte, then lower change.
func isBetter(a, b *domain.CoinGroup) bool {
	if a.Fee != b.Fee {
		return a.Fee < b.Fee
	}
	if a.FeeRate != b.FeeRate {
		return a.FeeRate > b.FeeRate
	}
	return a.ChangeAmount < b.ChangeAmount
}
