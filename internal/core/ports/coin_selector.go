package ports

import "github.com/vulpemventures/coinselect/internal/core/domain"

// CoinSelector is the abstraction for any kind of service intended to return
// a subset of the given coins covering the target amount and fees, based on
// a specific strategy.
type CoinSelector interface {
	// SelectCoins implements a certain coin selection strategy. The given
	// list must not be modified.
	SelectCoins(
		coins domain.Coins, target domain.Target,
	) (*domain.CoinGroup, error)
}
