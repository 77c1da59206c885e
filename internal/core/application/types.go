package application

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/vulpemventures/coinselect/internal/core/domain"
	"github.com/vulpemventures/coinselect/internal/core/ports"
	mc_selector "github.com/vulpemventures/coinselect/internal/infrastructure/coin-selector/monte-carlo"
	ss_selector "github.com/vulpemventures/coinselect/internal/infrastructure/coin-selector/smallest-subset"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

const (
	CoinSelectionEngineSmallestSubset = iota
	CoinSelectionEngineMonteCarlo
)

var (
	coinSelectorByType = map[int]CoinSelectorFactory{
		CoinSelectionEngineSmallestSubset: newSmallestSubsetSelector,
		CoinSelectionEngineMonteCarlo:     newMonteCarloSelector,
	}

	engineString = map[int]string{
		CoinSelectionEngineSmallestSubset: "smallest-subset",
		CoinSelectionEngineMonteCarlo:     "monte-carlo",
	}

	DefaultCoinSelector = ss_selector.NewSmallestSubsetCoinSelector()
)

type CoinSelectorFactory func(opts SelectorOpts) ports.CoinSelector

// SelectorOpts gathers the options of every engine, each one picks those it
// cares about. Zero values fall back to the engine defaults.
type SelectorOpts struct {
	MaxIterations      int
	MaxInputs          int
	PreferredGroupSize int
	Samples            int
	Sizer              estimation.Sizer
	Observer           ports.SelectionObserver
}

func newSmallestSubsetSelector(opts SelectorOpts) ports.CoinSelector {
	return ss_selector.NewSmallestSubsetCoinSelectorWithOpts(ss_selector.SelectorOpts{
		MaxIterations:      opts.MaxIterations,
		MaxInputs:          opts.MaxInputs,
		PreferredGroupSize: opts.PreferredGroupSize,
		Sizer:              opts.Sizer,
		Observer:           opts.Observer,
	})
}

func newMonteCarloSelector(opts SelectorOpts) ports.CoinSelector {
	return mc_selector.NewMonteCarloCoinSelectorWithOpts(mc_selector.SelectorOpts{
		Samples:   opts.Samples,
		MaxInputs: opts.MaxInputs,
		Sizer:     opts.Sizer,
		Observer:  opts.Observer,
	})
}

// EngineString returns the name of the given coin selection engine.
func EngineString(engine int) string {
	return engineString[engine]
}

// ParseEngine returns the coin selection engine matching the given name.
func ParseEngine(str string) (int, error) {
	for engine, s := range engineString {
		if s == str {
			return engine, nil
		}
	}
	return -1, fmt.Errorf("unknown coin selection engine %q", str)
}

// SelectionRequest holds the parameters of a coin selection for an address.
// The fee rate of the target is resolved from FeePriority if not set.
// A nil Engine means the service default one.
type SelectionRequest struct {
	Address     string
	Strategy    domain.Strategy
	Engine      *int
	Target      domain.Target
	FeePriority string
}

// SweepRequest holds the parameters of a sweep of the coins of an address
// spendable within the given tier. Only the fee rate and the shape of the
// target are used, the amount is what's left after fees.
type SweepRequest struct {
	Address     string
	Tier        domain.TrustTier
	Target      domain.Target
	FeePriority string
}

// FeeEstimationRequest holds the shape of a tx to estimate the fee for.
type FeeEstimationRequest struct {
	estimation.SizeArgs
	FeeRate     btcutil.Amount
	FeePriority string
}

// SelectionInfo is the result of a selection, or of a sweep.
type SelectionInfo struct {
	*domain.CoinGroup
	Tier domain.TrustTier
}

type FeeInfo struct {
	Size    int
	FeeRate btcutil.Amount
	Fee     btcutil.Amount
}
