package application_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselect/internal/core/application"
	"github.com/vulpemventures/coinselect/internal/core/domain"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

var sizer = estimation.DefaultSizer

func TestOrchestratorSelect(t *testing.T) {
	orchestrator := application.NewOrchestrator(nil, sizer)

	t.Run("confirmed tier", func(t *testing.T) {
		target := domain.Target{
			Amount: 10000, FeeRate: 10, OutputCount: 1, MinChange: 546,
		}
		coins := confirmedCoins(9999, 9999, 9999, 9999, 9999, 9999)

		group, tier, err := orchestrator.Select(domain.StrategyBalanced, target, coins)
		require.NoError(t, err)
		require.Equal(t, domain.TierConfirmed, tier)
		require.Len(t, group.Coins, 2)
		require.Equal(t, btcutil.Amount(3720), group.Fee)
		require.Equal(t, btcutil.Amount(6278), group.ChangeAmount)
	})

	t.Run("expedited tier", func(t *testing.T) {
		target := domain.Target{Amount: 10000, FeeRate: 1, OutputCount: 1}
		coins := domain.Coins{
			newCoin(0, 3000, domain.TrustConfirmed, false),
			newCoin(1, 20000, domain.TrustUnconfirmed, true),
			newCoin(2, 50000, domain.TrustUnconfirmed, false),
		}

		group, tier, err := orchestrator.Select(domain.StrategyBalanced, target, coins)
		require.NoError(t, err)
		require.Equal(t, domain.TierExpedited, tier)
		require.Equal(t, []btcutil.Amount{20000}, values(group.Coins))
	})

	t.Run("all tier", func(t *testing.T) {
		target := domain.Target{Amount: 10000, FeeRate: 1, OutputCount: 1}
		coins := domain.Coins{
			newCoin(0, 3000, domain.TrustConfirmed, false),
			newCoin(1, 50000, domain.TrustUnconfirmed, false),
		}

		group, tier, err := orchestrator.Select(domain.StrategyBalanced, target, coins)
		require.NoError(t, err)
		require.Equal(t, domain.TierAll, tier)
		require.Equal(t, []btcutil.Amount{50000}, values(group.Coins))
	})

	t.Run("priming never selects primed coins", func(t *testing.T) {
		target := domain.NewPrimingTarget(5430, 2, 1)
		coins := confirmedCoins(5430, 5430, 20000, 5430, 3000, 5430, 5430)

		group, _, err := orchestrator.Select(domain.StrategyPriming, target, coins)
		require.NoError(t, err)
		for _, coin := range group.Coins {
			require.NotEqual(t, btcutil.Amount(5430), coin.Value)
		}
		require.Equal(t, []btcutil.Amount{20000}, values(group.Coins))
		require.NoError(t, group.Validate(target, sizer))
	})

	t.Run("priming with only primed coins", func(t *testing.T) {
		target := domain.NewPrimingTarget(5430, 1, 1)
		coins := confirmedCoins(5430, 5430, 5430)

		_, _, err := orchestrator.Select(domain.StrategyPriming, target, coins)
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})
}

func TestOrchestratorSelectFailures(t *testing.T) {
	tests := []struct {
		name        string
		strategy    domain.Strategy
		target      domain.Target
		coins       domain.Coins
		expectedErr error
	}{
		{
			name:        "invalid fee rate",
			target:      domain.Target{Amount: 1000},
			coins:       confirmedCoins(5000),
			expectedErr: domain.ErrInvalidFeeRate,
		},
		{
			name:        "priming without exclude amount",
			strategy:    domain.StrategyPriming,
			target:      domain.Target{Amount: 1000, FeeRate: 1},
			coins:       confirmedCoins(5000),
			expectedErr: domain.ErrMissingExcludeAmount,
		},
		{
			name:        "no coins",
			target:      domain.Target{Amount: 1000, FeeRate: 1},
			expectedErr: domain.ErrInsufficientFunds,
		},
		{
			name:   "spending coins are never selected",
			target: domain.Target{Amount: 10000, FeeRate: 1, OutputCount: 1},
			coins: domain.Coins{
				newCoin(0, 3000, domain.TrustConfirmed, false),
				newCoin(1, 50000, domain.TrustSpending, false),
			},
			expectedErr: domain.ErrInsufficientFunds,
		},
		{
			name:        "fee rate too high",
			target:      domain.Target{Amount: 5000, FeeRate: 350, OutputCount: 1},
			coins:       confirmedCoins(2000, 2000, 2000),
			expectedErr: domain.ErrFeeRateTooHigh,
		},
	}

	orchestrator := application.NewOrchestrator(nil, sizer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, _, err := orchestrator.Select(tt.strategy, tt.target, tt.coins)
			require.ErrorIs(t, err, tt.expectedErr)
			require.Nil(t, group)
		})
	}

	t.Run("not enough funds is not a fee rate issue", func(t *testing.T) {
		_, _, err := orchestrator.Select(
			domain.StrategyBalanced,
			domain.Target{Amount: 10000, FeeRate: 1, OutputCount: 1},
			confirmedCoins(3000),
		)
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
		require.NotErrorIs(t, err, domain.ErrFeeRateTooHigh)
	})
}

func TestOrchestratorSequence(t *testing.T) {
	group := &domain.CoinGroup{}

	t.Run("retries without min change", func(t *testing.T) {
		selector := &mockCoinSelector{}
		target := domain.Target{Amount: 1000, FeeRate: 1, MinChange: 1000}
		coins := confirmedCoins(3000, 2000)
		selector.On("SelectCoins", coins, target).
			Return(nil, domain.ErrInsufficientFunds).Once()
		selector.On("SelectCoins", coins, target.WithMinChange(0)).
			Return(group, nil).Once()

		got, tier, err := application.NewOrchestrator(selector, sizer).Select(
			domain.StrategyBalanced, target, coins,
		)
		require.NoError(t, err)
		require.Equal(t, group, got)
		require.Equal(t, domain.TierConfirmed, tier)
		// Expedited and all tiers have the same coins of the confirmed one.
		selector.AssertNumberOfCalls(t, "SelectCoins", 2)
	})

	t.Run("skips tiers without new coins", func(t *testing.T) {
		selector := &mockCoinSelector{}
		target := domain.Target{Amount: 1000, FeeRate: 1}
		coins := domain.Coins{
			newCoin(0, 3000, domain.TrustConfirmed, false),
			newCoin(1, 2000, domain.TrustConfirmed, false),
			newCoin(2, 1000, domain.TrustUnconfirmed, false),
		}
		selector.On("SelectCoins", coins[:2], target).
			Return(nil, domain.ErrInsufficientFunds).Once()
		selector.On("SelectCoins", coins, target).
			Return(nil, domain.ErrInsufficientFunds).Once()

		_, _, err := application.NewOrchestrator(selector, sizer).Select(
			domain.StrategyBalanced, target, coins,
		)
		require.ErrorIs(t, err, domain.ErrFeeRateTooHigh)
		selector.AssertNumberOfCalls(t, "SelectCoins", 2)
	})

	t.Run("aborts on fatal errors", func(t *testing.T) {
		selector := &mockCoinSelector{}
		target := domain.Target{Amount: 1000, FeeRate: 1, MinChange: 1000}
		coins := domain.Coins{
			newCoin(0, 3000, domain.TrustConfirmed, false),
			newCoin(1, 1000, domain.TrustUnconfirmed, false),
		}
		selector.On("SelectCoins", mock.Anything, mock.Anything).
			Return(nil, domain.ErrNoNaiveCombinationFound)

		_, _, err := application.NewOrchestrator(selector, sizer).Select(
			domain.StrategyBalanced, target, coins,
		)
		require.ErrorIs(t, err, domain.ErrNoNaiveCombinationFound)
		selector.AssertNumberOfCalls(t, "SelectCoins", 1)
	})
}

func TestOrchestratorSweep(t *testing.T) {
	orchestrator := application.NewOrchestrator(nil, sizer)
	coins := domain.Coins{
		newCoin(0, 3000, domain.TrustConfirmed, false),
		newCoin(1, 5000, domain.TrustConfirmed, false),
		newCoin(2, 10000, domain.TrustUnconfirmed, false),
		newCoin(3, 7000, domain.TrustSpending, false),
	}

	t.Run("confirmed coins", func(t *testing.T) {
		group, err := orchestrator.Sweep(
			domain.Target{FeeRate: 1}, coins, domain.TierConfirmed,
		)
		require.NoError(t, err)
		require.Equal(t, []btcutil.Amount{5000, 3000}, values(group.Coins))
		require.Equal(t, btcutil.Amount(8000), group.InputAmount)
		require.Equal(t, btcutil.Amount(338), group.Fee)
		require.Equal(t, btcutil.Amount(7662), group.OutputAmount)
		require.Zero(t, group.ChangeAmount)
		require.Equal(t, 338, group.Size)
	})

	t.Run("all coins", func(t *testing.T) {
		group, err := orchestrator.Sweep(
			domain.Target{FeeRate: 1}, coins, domain.TierAll,
		)
		require.NoError(t, err)
		require.Len(t, group.Coins, 3)
		require.Equal(t, btcutil.Amount(18000), group.InputAmount)
	})

	t.Run("fee rate too high", func(t *testing.T) {
		_, err := orchestrator.Sweep(
			domain.Target{FeeRate: 350},
			confirmedCoins(2000, 2000, 2000),
			domain.TierConfirmed,
		)
		require.ErrorIs(t, err, domain.ErrFeeRateTooHighToSweep)
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("no coins", func(t *testing.T) {
		_, err := orchestrator.Sweep(domain.Target{FeeRate: 1}, nil, domain.TierAll)
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("invalid fee rate", func(t *testing.T) {
		_, err := orchestrator.Sweep(domain.Target{}, coins, domain.TierAll)
		require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})
}
