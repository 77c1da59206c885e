package domain

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	TrustConfirmed TrustState = iota
	TrustUnconfirmed
	TrustSpending
)

const (
	// TierConfirmed includes only confirmed coins.
	TierConfirmed TrustTier = iota
	// TierExpedited includes confirmed and expedited unconfirmed coins.
	TierExpedited
	// TierAll includes every coin not already being spent.
	TierAll
)

var (
	trustStateString = map[TrustState]string{
		TrustConfirmed:   "confirmed",
		TrustUnconfirmed: "unconfirmed",
		TrustSpending:    "spending",
	}
	trustTierString = map[TrustTier]string{
		TierConfirmed: "confirmed",
		TierExpedited: "expedited",
		TierAll:       "all",
	}

	// Tiers lists the trust tiers in the order they are tried.
	Tiers = []TrustTier{TierConfirmed, TierExpedited, TierAll}
)

// TrustState tells how much a coin can be trusted for spending.
type TrustState int

func (s TrustState) String() string {
	return trustStateString[s]
}

// ParseTrustState returns the TrustState matching the given string.
func ParseTrustState(str string) (TrustState, error) {
	for state, s := range trustStateString {
		if s == str {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown trust state %q", str)
}

// TrustTier is the set of trust states a selection attempt may use.
type TrustTier int

func (t TrustTier) String() string {
	return trustTierString[t]
}

// ParseTrustTier returns the TrustTier matching the given string.
func ParseTrustTier(str string) (TrustTier, error) {
	for tier, s := range trustTierString {
		if s == str {
			return tier, nil
		}
	}
	return 0, fmt.Errorf("unknown trust tier %q", str)
}

// CoinKey represents the key of a Coin, composed by its txid and vout.
type CoinKey struct {
	TxID string
	VOut uint32
}

func (k CoinKey) Hash() string {
	buf, _ := hex.DecodeString(k.TxID)
	buf = append(buf, byte(k.VOut), byte(k.VOut>>8), byte(k.VOut>>16), byte(k.VOut>>24))
	return hex.EncodeToString(btcutil.Hash160(buf))
}

func (k CoinKey) String() string {
	return fmt.Sprintf("%s:%d", k.TxID, k.VOut)
}

// OutPoint returns the wire representation of the key.
func (k CoinKey) OutPoint() (*wire.OutPoint, error) {
	hash, err := chainhash.NewHashFromStr(k.TxID)
	if err != nil {
		return nil, fmt.Errorf("invalid txid %s: %w", k.TxID, err)
	}
	return wire.NewOutPoint(hash, k.VOut), nil
}

// Coin is an unspent output the wallet may spend. Coins are never modified
// by the selection engines.
// Sequence is assigned when the coin is ingested and is used only to break
// ties between coins of equal value.
type Coin struct {
	CoinKey
	Value      btcutil.Amount
	Address    string
	TrustState TrustState
	Expedited  bool
	Sequence   uint64
}

// Key returns the CoinKey of the current coin.
func (c *Coin) Key() CoinKey {
	return c.CoinKey
}

// IsConfirmed returns whether the coin is confirmed.
func (c *Coin) IsConfirmed() bool {
	return c.TrustState == TrustConfirmed
}

// IsExpedited returns whether the coin is unconfirmed but trusted anyway.
func (c *Coin) IsExpedited() bool {
	return c.TrustState == TrustUnconfirmed && c.Expedited
}

// IsSpending returns whether the coin is already used by an in-flight tx.
func (c *Coin) IsSpending() bool {
	return c.TrustState == TrustSpending
}

// IsSpendableIn returns whether the coin can be selected within the tier.
func (c *Coin) IsSpendableIn(tier TrustTier) bool {
	switch tier {
	case TierConfirmed:
		return c.IsConfirmed()
	case TierExpedited:
		return c.IsConfirmed() || c.IsExpedited()
	case TierAll:
		return !c.IsSpending()
	default:
		return false
	}
}

// Coins is a list of coins.
type Coins []*Coin

// Total returns the sum of the coin values.
func (c Coins) Total() btcutil.Amount {
	var total btcutil.Amount
	for _, coin := range c {
		total += coin.Value
	}
	return total
}

func (c Coins) Keys() []CoinKey {
	keys := make([]CoinKey, 0, len(c))
	for _, coin := range c {
		keys = append(keys, coin.Key())
	}
	return keys
}

// Sorted returns a copy of the list ordered by descending value. Coins of
// equal value are ordered by ascending sequence.
func (c Coins) Sorted() Coins {
	sorted := make(Coins, len(c))
	copy(sorted, c)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].Sequence < sorted[j].Sequence
	})
	return sorted
}

// Filter returns the coins for which the given func returns true.
func (c Coins) Filter(fn func(coin *Coin) bool) Coins {
	filtered := make(Coins, 0, len(c))
	for _, coin := range c {
		if fn(coin) {
			filtered = append(filtered, coin)
		}
	}
	return filtered
}

// SpendableIn returns the coins that can be selected within the tier.
func (c Coins) SpendableIn(tier TrustTier) Coins {
	return c.Filter(func(coin *Coin) bool {
		return coin.IsSpendableIn(tier)
	})
}

// WithoutAmount returns the coins whose value is not the given one.
func (c Coins) WithoutAmount(amount btcutil.Amount) Coins {
	return c.Filter(func(coin *Coin) bool {
		return coin.Value != amount
	})
}

// Balance holds the value of a list of coins by trust state.
type Balance struct {
	Confirmed   btcutil.Amount
	Unconfirmed btcutil.Amount
	Expedited   btcutil.Amount
	Spending    btcutil.Amount
}

// Total returns the value of coins not already being spent.
func (b *Balance) Total() btcutil.Amount {
	return b.Confirmed + b.Unconfirmed
}
