package domain

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

// Target describes what a selection must pay for.
//   - Amount - sum of the payment outputs.
//   - FeeRate - fee in units per byte.
//   - DustThreshold - change below this is folded into the fee. Defaults to
//     estimation.DefaultDustThreshold if zero.
//   - MinChange - the minimum change the caller would like to get back.
//   - OutputCount - number of payment outputs, change excluded.
//   - DataSize - size of the embedded data payload, if any.
//   - ExcludeAmount - with priming, coins of this value are never selected.
type Target struct {
	Amount        btcutil.Amount
	FeeRate       btcutil.Amount
	DustThreshold btcutil.Amount
	MinChange     btcutil.Amount
	OutputCount   int
	DataSize      int
	ExcludeAmount btcutil.Amount
}

// NewPrimingTarget returns the target to create count outputs worth
// denomination each.
func NewPrimingTarget(
	denomination btcutil.Amount, count int, feeRate btcutil.Amount,
) Target {
	return Target{
		Amount:        denomination * btcutil.Amount(count),
		FeeRate:       feeRate,
		OutputCount:   count,
		ExcludeAmount: denomination,
	}
}

func (t Target) Validate() error {
	if t.FeeRate <= 0 {
		return ErrInvalidFeeRate
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.OutputCount < 0 || t.DataSize < 0 || t.MinChange < 0 || t.DustThreshold < 0 {
		return ErrInvalidTxShape
	}
	return nil
}

// Dust returns the dust threshold of the target.
func (t Target) Dust() btcutil.Amount {
	if t.DustThreshold <= 0 {
		return estimation.DefaultDustThreshold
	}
	return t.DustThreshold
}

// ChangeFloor returns the smallest change output the target accepts.
func (t Target) ChangeFloor() btcutil.Amount {
	if t.MinChange > t.Dust() {
		return t.MinChange
	}
	return t.Dust()
}

// WithMinChange returns a copy of the target with the given min change.
func (t Target) WithMinChange(minChange btcutil.Amount) Target {
	t.MinChange = minChange
	return t
}

// Size returns the size of a tx spending the given number of inputs.
func (t Target) Size(sizer estimation.Sizer, inputs int, withChange bool) int {
	return sizer.TxSize(estimation.SizeArgs{
		Inputs:     inputs,
		Outputs:    t.OutputCount,
		DataSize:   t.DataSize,
		WithChange: withChange,
	})
}

// Fee returns the fee of a tx spending the given number of inputs.
func (t Target) Fee(sizer estimation.Sizer, inputs int, withChange bool) btcutil.Amount {
	return sizer.Fee(t.Size(sizer, inputs, withChange), t.FeeRate)
}

// AmountWithoutChange returns the exact input amount that pays the target
// with the given number of inputs and no change.
func (t Target) AmountWithoutChange(sizer estimation.Sizer, inputs int) btcutil.Amount {
	return t.Amount + t.Fee(sizer, inputs, false)
}

// AmountWithChange returns the min input amount that pays the target with
// the given number of inputs and a change output not below ChangeFloor.
func (t Target) AmountWithChange(sizer estimation.Sizer, inputs int) btcutil.Amount {
	return t.Amount + t.Fee(sizer, inputs, true) + t.ChangeFloor()
}

// SatisfyAmount returns the min input amount a group of the given number of
// inputs must reach. With a min change, a change output is required.
func (t Target) SatisfyAmount(sizer estimation.Sizer, inputs int) btcutil.Amount {
	if t.MinChange > 0 {
		return t.AmountWithChange(sizer, inputs)
	}
	return t.AmountWithoutChange(sizer, inputs)
}
