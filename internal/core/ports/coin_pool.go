package ports

import (
	"context"

	"github.com/vulpemventures/coinselect/internal/core/domain"
)

// CoinPoolProvider is the abstraction for any kind of service intended to
// provide the coins owned by an address.
type CoinPoolProvider interface {
	// GetCoinsForAddress returns the coins of the given address that can be
	// spent within the given trust tier.
	GetCoinsForAddress(
		ctx context.Context, address string, tier domain.TrustTier,
	) (domain.Coins, error)
}
