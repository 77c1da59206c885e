package smallestsubset_selector

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/coinselect/internal/core/domain"
	"github.com/vulpemventures/coinselect/internal/core/ports"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

const (
	DefaultMaxIterations      = 25000
	DefaultMaxInputs          = 145
	DefaultPreferredGroupSize = 3
)

// SelectorOpts holds the configuration options of the selector. Any zero
// value falls back to the default one, the search caps can't be disabled.
//   - MaxIterations - number of nodes the search visits before giving up.
//   - MaxInputs - max number of coins of a group.
//   - PreferredGroupSize - max number of small coins preferred over a
//     single large coin.
//   - Sizer - the tx size estimator.
//   - Observer - (optional) notified of every search run.
type SelectorOpts struct {
	MaxIterations      int
	MaxInputs          int
	PreferredGroupSize int
	Sizer              estimation.Sizer
	Observer           ports.SelectionObserver
}

func (o SelectorOpts) withDefaults() SelectorOpts {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.MaxInputs <= 0 {
		o.MaxInputs = DefaultMaxInputs
	}
	if o.PreferredGroupSize <= 0 {
		o.PreferredGroupSize = DefaultPreferredGroupSize
	}
	return o
}

type selector struct {
	opts SelectorOpts

	log  func(format string, a ...interface{})
	warn func(err error, format string, a ...interface{})
}

func NewSmallestSubsetCoinSelector() ports.CoinSelector {
	return NewSmallestSubsetCoinSelectorWithOpts(SelectorOpts{})
}

func NewSmallestSubsetCoinSelectorWithOpts(opts SelectorOpts) ports.CoinSelector {
	return newSelector(opts)
}

func newSelector(opts SelectorOpts) *selector {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("smallest-subset selector: %s", format)
		log.Debugf(format, a...)
	}
	warnFn := func(err error, format string, a ...interface{}) {
		format = fmt.Sprintf("smallest-subset selector: %s", format)
		log.WithError(err).Warnf(format, a...)
	}
	return &selector{opts.withDefaults(), logFn, warnFn}
}

// SelectCoins looks first for a single coin paying the target without
// change. Otherwise, coins are split into large ones, each covering the
// target alone, and small ones. A combination of up to PreferredGroupSize
// small coins is preferred over the smallest large coin, which is in turn
// preferred over any bigger combination of small coins.
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

	large, small := s.splitCoins(sorted, target)
	smallCoins, err := s.selectSmallCoins(small, target)
	if err != nil {
		if !errors.Is(err, domain.ErrNoNaiveCombinationFound) || len(large) == 0 {
			return nil, err
		}
	}

	if len(smallCoins) > 0 && len(smallCoins) <= s.opts.PreferredGroupSize {
		return domain.NewCoinGroup(smallCoins, target, s.opts.Sizer)
	}
	if len(large) > 0 {
		return domain.NewCoinGroup(domain.Coins{large[0]}, target, s.opts.Sizer)
	}
	if len(smallCoins) > 0 {
		return domain.NewCoinGroup(smallCoins, target, s.opts.Sizer)
	}
	return nil, domain.ErrInsufficientFunds
}

// splitCoins returns the coins that cover alone the target and a change
// output, smallest first, and the others, largest first.
// The given list must be sorted.
func (s *selector) splitCoins(
	sorted domain.Coins, target domain.Target,
) (large, small domain.Coins) {
	amount := target.AmountWithChange(s.opts.Sizer, 1)
	large = make(domain.Coins, 0)
	small = make(domain.Coins, 0)
	for _, coin := range sorted {
		if coin.Value >= amount {
			large = append(large, coin)
			continue
		}
		small = append(small, coin)
	}
	for i, j := 0, len(large)-1; i < j; i, j = i+1, j-1 {
		large[i], large[j] = large[j], large[i]
	}
	return large, small
}

// selectSmallCoins searches for a combination paying the target exactly
// without change and, if there's none, for the smallest one covering it.
// The naive strategy is used only if the latter search gave up.
func (s *selector) selectSmallCoins(
	small domain.Coins, target domain.Target,
) (domain.Coins, error) {
	if len(small) == 0 {
		return nil, nil
	}

	if res := s.search(small, target, searchModeExact); len(res.coins) > 0 {
		return res.coins, nil
	}

	res := s.search(small, target, searchModeSatisfy)
	if len(res.coins) > 0 {
		return res.coins, nil
	}
	if !res.gaveUp {
		return nil, nil
	}

	selected, err := s.selectNaively(small, target)
	if err != nil {
		return nil, err
	}
	s.log("naive strategy selected %d coin(s)", len(selected))
	return selected, nil
}
