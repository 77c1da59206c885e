package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/coinselect/internal/core/domain"
	"github.com/vulpemventures/coinselect/internal/core/ports"
)

const (
	OutcomeSelected        = "selected"
	OutcomeInsufficient    = "insufficient_funds"
	OutcomeFeeRateTooHigh  = "fee_rate_too_high"
	OutcomeInvalidTarget   = "invalid_target"
	OutcomeSelectionFailed = "failed"

	sweepStrategy = "sweep"
)

// CoinSelectionService is responsible for choosing the coins of an address
// to spend in a transaction:
//   - Select the coins paying a target amount, following a strategy and
//     using one of the available coin selection engines.
//   - Sweep all the coins of an address spendable within a trust tier.
//   - Estimate the fee of a transaction of a given shape.
//
// Fee rates not given explicitly are resolved by priority through the
// fee estimator. Operations on the same address are serialized so that no
// coin can be selected twice by concurrent callers. Every selection is
// reported to the observer, if any.
type CoinSelectionService struct {
	coinPool      ports.CoinPoolProvider
	feeEstimator  ports.FeeEstimator
	observer      ports.SelectionObserver
	selectorOpts  SelectorOpts
	defaultEngine int
	locker        *addressLocker

	log func(format string, a ...interface{})
}

func NewCoinSelectionService(
	coinPool ports.CoinPoolProvider, feeEstimator ports.FeeEstimator,
	observer ports.SelectionObserver, selectorOpts SelectorOpts,
	defaultEngine int,
) (*CoinSelectionService, error) {
	if coinPool == nil {
		return nil, fmt.Errorf("missing coin pool provider")
	}
	if _, ok := coinSelectorByType[defaultEngine]; !ok {
		return nil, fmt.Errorf("unknown coin selection engine %d", defaultEngine)
	}
	if observer != nil && selectorOpts.Observer == nil {
		selectorOpts.Observer = observer
	}

	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("coin selection service: %s", format)
		log.Debugf(format, a...)
	}
	return &CoinSelectionService{
		coinPool, feeEstimator, observer, selectorOpts, defaultEngine,
		newAddressLocker(), logFn,
	}, nil
}

func (cs *CoinSelectionService) SelectCoins(
	ctx context.Context, req SelectionRequest,
) (*SelectionInfo, error) {
	engine := cs.defaultEngine
	if req.Engine != nil {
		engine = *req.Engine
	}
	factory, ok := coinSelectorByType[engine]
	if !ok {
		return nil, fmt.Errorf("unknown coin selection engine %d", engine)
	}

	release := cs.locker.acquire(req.Address)
	defer release()

	target, err := cs.resolveFeeRate(ctx, req.Target, req.FeePriority)
	if err != nil {
		return nil, err
	}

	coins, err := cs.coinPool.GetCoinsForAddress(ctx, req.Address, domain.TierAll)
	if err != nil {
		return nil, err
	}

	orchestrator := NewOrchestrator(factory(cs.selectorOpts), cs.selectorOpts.Sizer)
	group, tier, err := orchestrator.Select(req.Strategy, target, coins)
	cs.observe(EngineString(engine), req.Strategy.String(), tier, group, err)
	if err != nil {
		return nil, err
	}

	cs.log(
		"selected %d coin(s) of tier %s for address %s", len(group.Coins),
		tier, req.Address,
	)
	return &SelectionInfo{group, tier}, nil
}

func (cs *CoinSelectionService) Sweep(
	ctx context.Context, req SweepRequest,
) (*SelectionInfo, error) {
	release := cs.locker.acquire(req.Address)
	defer release()

	target, err := cs.resolveFeeRate(ctx, req.Target, req.FeePriority)
	if err != nil {
		return nil, err
	}

	coins, err := cs.coinPool.GetCoinsForAddress(ctx, req.Address, req.Tier)
	if err != nil {
		return nil, err
	}

	orchestrator := NewOrchestrator(nil, cs.selectorOpts.Sizer)
	group, err := orchestrator.Sweep(target, coins, req.Tier)
	cs.observe(sweepStrategy, sweepStrategy, req.Tier, group, err)
	if err != nil {
		return nil, err
	}

	cs.log(
		"swept %d coin(s) of tier %s for address %s", len(group.Coins),
		req.Tier, req.Address,
	)
	return &SelectionInfo{group, req.Tier}, nil
}

func (cs *CoinSelectionService) EstimateFee(
	ctx context.Context, req FeeEstimationRequest,
) (*FeeInfo, error) {
	if req.Inputs < 0 || req.Outputs < 0 || req.DataSize < 0 {
		return nil, domain.ErrInvalidTxShape
	}

	feeRate := req.FeeRate
	if feeRate <= 0 {
		rate, err := cs.getFeeRate(ctx, req.FeePriority)
		if err != nil {
			return nil, err
		}
		feeRate = rate
	}

	sizer := cs.selectorOpts.Sizer
	size := sizer.TxSize(req.SizeArgs)
	return &FeeInfo{
		Size:    size,
		FeeRate: feeRate,
		Fee:     sizer.Fee(size, feeRate),
	}, nil
}

func (cs *CoinSelectionService) resolveFeeRate(
	ctx context.Context, target domain.Target, priority string,
) (domain.Target, error) {
	if target.FeeRate > 0 {
		return target, nil
	}
	feeRate, err := cs.getFeeRate(ctx, priority)
	if err != nil {
		return target, err
	}
	target.FeeRate = feeRate
	return target, nil
}

func (cs *CoinSelectionService) getFeeRate(
	ctx context.Context, priority string,
) (btcutil.Amount, error) {
	if cs.feeEstimator == nil {
		return 0, domain.ErrInvalidFeeRate
	}
	feeRate, err := cs.feeEstimator.GetFeeRate(ctx, priority)
	if err != nil {
		return 0, fmt.Errorf("failed to get fee rate for priority %q: %w", priority, err)
	}
	if feeRate <= 0 {
		return 0, domain.ErrInvalidFeeRate
	}
	return feeRate, nil
}

func (cs *CoinSelectionService) observe(
	engine, strategy string, tier domain.TrustTier,
	group *domain.CoinGroup, err error,
) {
	if cs.observer == nil {
		return
	}
	event := ports.SelectionEvent{
		Engine:   engine,
		Strategy: strategy,
		Tier:     "none",
		Outcome:  outcome(err),
	}
	if group != nil {
		event.Tier = tier.String()
		event.Inputs = len(group.Coins)
	}
	cs.observer.ObserveSelection(event)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSelected
	case errors.Is(err, domain.ErrFeeRateTooHigh),
		errors.Is(err, domain.ErrFeeRateTooHighToSweep):
		return OutcomeFeeRateTooHigh
	case errors.Is(err, domain.ErrInsufficientFunds):
		return OutcomeInsufficient
	case errors.Is(err, domain.ErrInvalidConfiguration):
		return OutcomeInvalidTarget
	default:
		return OutcomeSelectionFailed
	}
}
