package domain

import "github.com/vulpemventures/coinselect/pkg/estimation"

// FindExactMatch returns the group made of the first coin that pays the
// target alone without leaving any change, or nil if there's none.
// Coins are scanned in the given order.
func FindExactMatch(
	coins Coins, target Target, sizer estimation.Sizer,
) *CoinGroup {
	amount := target.AmountWithoutChange(sizer, 1)
	for _, coin := range coins {
		if coin.Value != amount {
			continue
		}
		group, err := NewCoinGroupWithoutChange(Coins{coin}, target, sizer)
		if err != nil {
			return nil
		}
		return group
	}
	return nil
}
