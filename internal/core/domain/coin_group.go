package domain

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

// CoinGroup is the outcome of a coin selection: the coins to spend and the
// facts about the transaction spending them.
// Fee equals Size * fee rate if the group has change, otherwise it's all
// what's left once OutputAmount is paid.
type CoinGroup struct {
	Coins        Coins
	InputAmount  btcutil.Amount
	OutputAmount btcutil.Amount
	ChangeAmount btcutil.Amount
	Fee          btcutil.Amount
	FeeRate      float64
	Size         int
}

// NewCoinGroup returns the group spending the given coins with a change
// output if what's left is not dust, without change otherwise.
func NewCoinGroup(
	coins Coins, target Target, sizer estimation.Sizer,
) (*CoinGroup, error) {
	group, err := NewCoinGroupWithChange(coins, target, sizer)
	if err == nil {
		return group, nil
	}
	if err != ErrGroupUnderfunded {
		return nil, err
	}
	return NewCoinGroupWithoutChange(coins, target, sizer)
}

// NewCoinGroupWithChange returns the group spending the given coins with a
// change output. It fails if the change would be dust.
func NewCoinGroupWithChange(
	coins Coins, target Target, sizer estimation.Sizer,
) (*CoinGroup, error) {
	if err := checkCoins(coins); err != nil {
		return nil, err
	}

	inputAmount := coins.Total()
	size := target.Size(sizer, len(coins), true)
	fee := sizer.Fee(size, target.FeeRate)
	change := inputAmount - target.Amount - fee
	if change < target.Dust() {
		return nil, ErrGroupUnderfunded
	}

	return &CoinGroup{
		Coins:        coins,
		InputAmount:  inputAmount,
		OutputAmount: target.Amount,
		ChangeAmount: change,
		Fee:          fee,
		FeeRate:      feePerByte(fee, size),
		Size:         size,
	}, nil
}

// NewCoinGroupWithoutChange returns the group spending the given coins
// without change, the whole surplus going to fees.
func NewCoinGroupWithoutChange(
	coins Coins, target Target, sizer estimation.Sizer,
) (*CoinGroup, error) {
	if err := checkCoins(coins); err != nil {
		return nil, err
	}

	inputAmount := coins.Total()
	size := target.Size(sizer, len(coins), false)
	if inputAmount < target.Amount+sizer.Fee(size, target.FeeRate) {
		return nil, ErrGroupUnderfunded
	}
	fee := inputAmount - target.Amount

	return &CoinGroup{
		Coins:        coins,
		InputAmount:  inputAmount,
		OutputAmount: target.Amount,
		Fee:          fee,
		FeeRate:      feePerByte(fee, size),
		Size:         size,
	}, nil
}

// HasChange returns whether the group has a change output.
func (g *CoinGroup) HasChange() bool {
	return g.ChangeAmount > 0
}

func (g *CoinGroup) Keys() []CoinKey {
	return g.Coins.Keys()
}

// OutPoints returns the outpoints of the coins, in selection order.
func (g *CoinGroup) OutPoints() ([]wire.OutPoint, error) {
	outpoints := make([]wire.OutPoint, 0, len(g.Coins))
	for _, coin := range g.Coins {
		outpoint, err := coin.OutPoint()
		if err != nil {
			return nil, err
		}
		outpoints = append(outpoints, *outpoint)
	}
	return outpoints, nil
}

// Validate makes sure the group is consistent and pays for the target.
func (g *CoinGroup) Validate(target Target, sizer estimation.Sizer) error {
	if err := checkCoins(g.Coins); err != nil {
		return err
	}
	if g.InputAmount != g.Coins.Total() {
		return fmt.Errorf(
			"input amount %d does not match coins total %d",
			g.InputAmount, g.Coins.Total(),
		)
	}
	if spent := target.Amount + g.Fee + g.ChangeAmount; g.InputAmount != spent {
		if g.InputAmount < spent {
			return ErrGroupUnderfunded
		}
		return fmt.Errorf(
			"input amount %d does not match outputs and fee %d",
			g.InputAmount, spent,
		)
	}
	if g.HasChange() {
		if g.ChangeAmount < target.Dust() {
			return fmt.Errorf("change amount %d is dust", g.ChangeAmount)
		}
		if expected := target.Fee(sizer, len(g.Coins), true); g.Fee != expected {
			return fmt.Errorf("fee %d does not match expected %d", g.Fee, expected)
		}
		return nil
	}
	if minFee := target.Fee(sizer, len(g.Coins), false); g.Fee < minFee {
		return fmt.Errorf("fee %d is below min fee %d", g.Fee, minFee)
	}
	return nil
}

func checkCoins(coins Coins) error {
	if len(coins) == 0 {
		return ErrEmptyGroup
	}
	keys := make(map[CoinKey]struct{}, len(coins))
	for _, coin := range coins {
		if _, ok := keys[coin.Key()]; ok {
			return ErrDuplicatedCoin
		}
		keys[coin.Key()] = struct{}{}
	}
	return nil
}

func feePerByte(fee btcutil.Amount, size int) float64 {
	if size <= 0 {
		return 0
	}
	return float64(fee) / float64(size)
}
