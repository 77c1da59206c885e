package domain_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselect/internal/core/domain"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

var sizer = estimation.DefaultSizer

func TestTargetValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      domain.Target
		expectedErr error
	}{
		{"valid", domain.Target{Amount: 1, FeeRate: 1}, nil},
		{"zero fee rate", domain.Target{Amount: 1}, domain.ErrInvalidFeeRate},
		{"negative fee rate", domain.Target{Amount: 1, FeeRate: -1}, domain.ErrInvalidFeeRate},
		{"zero amount", domain.Target{FeeRate: 1}, domain.ErrInvalidAmount},
		{"negative outputs", domain.Target{Amount: 1, FeeRate: 1, OutputCount: -1}, domain.ErrInvalidTxShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.expectedErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.expectedErr)
			require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		})
	}
}

func TestTargetAmounts(t *testing.T) {
	t.Parallel()

	target := domain.Target{Amount: 10000, FeeRate: 10, OutputCount: 1}
	require.Equal(t, btcutil.Amount(11910), target.AmountWithoutChange(sizer, 1))
	require.Equal(t, btcutil.Amount(10000+3720+546), target.AmountWithChange(sizer, 2))
	require.Equal(t, target.AmountWithoutChange(sizer, 2), target.SatisfyAmount(sizer, 2))

	target = target.WithMinChange(1000)
	require.Equal(t, btcutil.Amount(1000), target.ChangeFloor())
	require.Equal(t, btcutil.Amount(10000+3720+1000), target.SatisfyAmount(sizer, 2))
}

func TestNewPrimingTarget(t *testing.T) {
	t.Parallel()

	target := domain.NewPrimingTarget(5430, 3, 2)
	require.Equal(t, btcutil.Amount(16290), target.Amount)
	require.Equal(t, 3, target.OutputCount)
	require.Equal(t, btcutil.Amount(5430), target.ExcludeAmount)
}

func TestNewCoinGroup(t *testing.T) {
	t.Parallel()

	target := domain.Target{Amount: 10000, FeeRate: 10, OutputCount: 1}

	t.Run("with change", func(t *testing.T) {
		group, err := domain.NewCoinGroup(
			domain.Coins{newCoin(1, 9999, 1), newCoin(2, 9999, 2)}, target, sizer,
		)
		require.NoError(t, err)
		require.Equal(t, btcutil.Amount(19998), group.InputAmount)
		require.Equal(t, btcutil.Amount(3720), group.Fee)
		require.Equal(t, btcutil.Amount(6278), group.ChangeAmount)
		require.Equal(t, 372, group.Size)
		require.Equal(t, 10.0, group.FeeRate)
		require.NoError(t, group.Validate(target, sizer))
	})

	t.Run("dust change is folded into fee", func(t *testing.T) {
		// 2250 of fee with change leaves 250 of change, below dust.
		group, err := domain.NewCoinGroup(
			domain.Coins{newCoin(1, 12500, 1)}, target, sizer,
		)
		require.NoError(t, err)
		require.Zero(t, group.ChangeAmount)
		require.Equal(t, btcutil.Amount(2500), group.Fee)
		require.Equal(t, group.InputAmount-target.Amount, group.Fee)
		require.Equal(t, 191, group.Size)
		require.NoError(t, group.Validate(target, sizer))
	})

	t.Run("underfunded", func(t *testing.T) {
		_, err := domain.NewCoinGroup(
			domain.Coins{newCoin(1, 11909, 1)}, target, sizer,
		)
		require.ErrorIs(t, err, domain.ErrGroupUnderfunded)
	})

	t.Run("duplicated coin", func(t *testing.T) {
		coin := newCoin(1, 20000, 1)
		_, err := domain.NewCoinGroup(domain.Coins{coin, coin}, target, sizer)
		require.ErrorIs(t, err, domain.ErrDuplicatedCoin)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := domain.NewCoinGroup(nil, target, sizer)
		require.ErrorIs(t, err, domain.ErrEmptyGroup)
	})
}

func TestCoinGroupValidate(t *testing.T) {
	t.Parallel()

	target := domain.Target{Amount: 10000, FeeRate: 10, OutputCount: 1}
	group, err := domain.NewCoinGroupWithChange(
		domain.Coins{newCoin(1, 20000, 1)}, target, sizer,
	)
	require.NoError(t, err)

	tampered := *group
	tampered.ChangeAmount -= 100
	require.Error(t, tampered.Validate(target, sizer))

	tampered = *group
	tampered.InputAmount++
	require.Error(t, tampered.Validate(target, sizer))
}

func TestFindExactMatch(t *testing.T) {
	t.Parallel()

	target := domain.Target{Amount: 10000, FeeRate: 10, OutputCount: 1}
	coins := domain.Coins{
		newCoin(1, 50000, 1), newCoin(2, 11910, 2), newCoin(3, 11910, 3),
		newCoin(4, 1000, 4),
	}

	group := domain.FindExactMatch(coins, target, sizer)
	require.NotNil(t, group)
	require.Len(t, group.Coins, 1)
	require.Equal(t, uint64(2), group.Coins[0].Sequence)
	require.Zero(t, group.ChangeAmount)
	require.Equal(t, btcutil.Amount(1910), group.Fee)
	require.NoError(t, group.Validate(target, sizer))

	require.Nil(t, domain.FindExactMatch(coins[:1], target, sizer))
}
