package smallestsubset_selector

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/vulpemventures/coinselect/internal/core/domain"
)

// selectNaively accumulates coins from the smallest to the largest until
// the target is covered and, if the max number of inputs is reached before,
// it tries again from the largest to the smallest.
// Coins must be sorted by descending value.
func (s *selector) selectNaively(
	coins domain.Coins, target domain.Target,
) (domain.Coins, error) {
	ascending := make(domain.Coins, 0, len(coins))
	for i := len(coins) - 1; i >= 0; i-- {
		ascending = append(ascending, coins[i])
	}

	if selected := s.accumulate(ascending, target); selected != nil {
		return selected, nil
	}
	if selected := s.accumulate(coins, target); selected != nil {
		return selected, nil
	}
	return nil, domain.ErrNoNaiveCombinationFound
}

func (s *selector) accumulate(
	coins domain.Coins, target domain.Target,
) domain.Coins {
	selected := make(domain.Coins, 0)
	total := btcutil.Amount(0)
	for _, coin := range coins {
		if len(selected) >= s.opts.MaxInputs {
			return nil
		}
		selected = append(selected, coin)
		total += coin.Value
		if total >= target.SatisfyAmount(s.opts.Sizer, len(selected)) {
			return selected
		}
	}
	return nil
}
