package ports

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
)

// FeeEstimator is the abstraction for any kind of service intended to
// supply the fee rate, in units per byte, for a priority level.
type FeeEstimator interface {
	GetFeeRate(ctx context.Context, priority string) (btcutil.Amount, error)
}
