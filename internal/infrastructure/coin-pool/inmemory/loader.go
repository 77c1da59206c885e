package inmemory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/vulpemventures/coinselect/internal/core/domain"
)

type jsonCoin struct {
	TxID      string `json:"txid"`
	VOut      uint32 `json:"vout"`
	Value     int64  `json:"value"`
	Address   string `json:"address"`
	Status    string `json:"status"`
	Expedited bool   `json:"expedited"`
}

// LoadCoinsFromFile reads a JSON list of coins like:
//
//	[{"txid": "<hex>", "vout": 0, "value": 1000, "address": "<addr>",
//	  "status": "confirmed|unconfirmed|spending", "expedited": false}]
//
// Status defaults to confirmed if missing.
func LoadCoinsFromFile(path string) (domain.Coins, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCoins(buf)
}

// ParseCoins parses a JSON list of coins in the format of LoadCoinsFromFile.
func ParseCoins(buf []byte) (domain.Coins, error) {
	list := make([]jsonCoin, 0)
	if err := json.Unmarshal(buf, &list); err != nil {
		return nil, fmt.Errorf("invalid coins format: %w", err)
	}

	coins := make(domain.Coins, 0, len(list))
	for i, c := range list {
		if c.Value <= 0 {
			return nil, fmt.Errorf("coin %d: value must be greater than zero", i)
		}
		state := domain.TrustConfirmed
		if c.Status != "" {
			s, err := domain.ParseTrustState(c.Status)
			if err != nil {
				return nil, fmt.Errorf("coin %d: %w", i, err)
			}
			state = s
		}
		coin := &domain.Coin{
			CoinKey:    domain.CoinKey{TxID: c.TxID, VOut: c.VOut},
			Value:      btcutil.Amount(c.Value),
			Address:    c.Address,
			TrustState: state,
			Expedited:  c.Expedited,
		}
		if _, err := coin.OutPoint(); err != nil {
			return nil, fmt.Errorf("coin %d: %w", i, err)
		}
		coins = append(coins, coin)
	}
	return coins, nil
}
