package inmemory

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/coinselect/internal/core/domain"
)

type coinInmemoryStore struct {
	coinsByAddress map[string][]domain.CoinKey
	coins          map[string]*domain.Coin
	sequence       uint64
	lock           *sync.RWMutex
}

// CoinPool is an in-memory coin pool provider. Every coin is assigned a
// monotonic sequence number when added, and returned coins are copies so
// that later updates never change a snapshot already given to a selector.
type CoinPool struct {
	store *coinInmemoryStore

	log func(format string, a ...interface{})
}

func NewCoinPool() *CoinPool {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("coin pool: %s", format)
		log.Debugf(format, a...)
	}
	return &CoinPool{
		store: &coinInmemoryStore{
			coinsByAddress: make(map[string][]domain.CoinKey),
			coins:          make(map[string]*domain.Coin),
			lock:           &sync.RWMutex{},
		},
		log: logFn,
	}
}

// AddCoins adds the given coins, skipping those already known, and returns
// how many were added. Sequence numbers of the given coins are overwritten.
func (p *CoinPool) AddCoins(_ context.Context, coins domain.Coins) (int, error) {
	p.store.lock.Lock()
	defer p.store.lock.Unlock()

	count := 0
	for _, c := range coins {
		if c.Address == "" {
			return count, fmt.Errorf("coin %s has no address", c.Key())
		}
		if _, err := c.OutPoint(); err != nil {
			return count, err
		}
		if _, ok := p.store.coins[c.Key().Hash()]; ok {
			continue
		}

		p.store.sequence++
		coin := *c
		coin.Sequence = p.store.sequence
		p.store.coins[coin.Key().Hash()] = &coin
		p.store.coinsByAddress[coin.Address] = append(
			p.store.coinsByAddress[coin.Address], coin.Key(),
		)
		count++
	}

	if count > 0 {
		p.log("added %d coin(s)", count)
	}
	return count, nil
}

// ConfirmCoins marks the given unconfirmed coins as confirmed.
func (p *CoinPool) ConfirmCoins(_ context.Context, keys []domain.CoinKey) (int, error) {
	p.store.lock.Lock()
	defer p.store.lock.Unlock()

	return p.updateCoins(keys, func(c *domain.Coin) bool {
		if c.TrustState != domain.TrustUnconfirmed {
			return false
		}
		c.TrustState = domain.TrustConfirmed
		c.Expedited = false
		return true
	}), nil
}

// SpendCoins marks the given coins as used by an in-flight tx, they are
// never returned as candidates again.
func (p *CoinPool) SpendCoins(_ context.Context, keys []domain.CoinKey) (int, error) {
	p.store.lock.Lock()
	defer p.store.lock.Unlock()

	return p.updateCoins(keys, func(c *domain.Coin) bool {
		if c.IsSpending() {
			return false
		}
		c.TrustState = domain.TrustSpending
		return true
	}), nil
}

func (p *CoinPool) DeleteCoinsForAddress(_ context.Context, address string) error {
	p.store.lock.Lock()
	defer p.store.lock.Unlock()

	keys, ok := p.store.coinsByAddress[address]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(p.store.coins, key.Hash())
	}
	delete(p.store.coinsByAddress, address)
	return nil
}

func (p *CoinPool) GetCoinsForAddress(
	_ context.Context, address string, tier domain.TrustTier,
) (domain.Coins, error) {
	p.store.lock.RLock()
	defer p.store.lock.RUnlock()

	keys := p.store.coinsByAddress[address]
	coins := make(domain.Coins, 0, len(keys))
	for _, key := range keys {
		c := p.store.coins[key.Hash()]
		if !c.IsSpendableIn(tier) {
			continue
		}
		coin := *c
		coins = append(coins, &coin)
	}
	return coins, nil
}

func (p *CoinPool) GetBalanceForAddress(
	_ context.Context, address string,
) (*domain.Balance, error) {
	p.store.lock.RLock()
	defer p.store.lock.RUnlock()

	balance := &domain.Balance{}
	for _, key := range p.store.coinsByAddress[address] {
		c := p.store.coins[key.Hash()]
		switch {
		case c.IsSpending():
			balance.Spending += c.Value
		case c.IsConfirmed():
			balance.Confirmed += c.Value
		default:
			balance.Unconfirmed += c.Value
			if c.IsExpedited() {
				balance.Expedited += c.Value
			}
		}
	}
	return balance, nil
}

func (p *CoinPool) updateCoins(
	keys []domain.CoinKey, update func(c *domain.Coin) bool,
) int {
	count := 0
	for _, key := range keys {
		c, ok := p.store.coins[key.Hash()]
		if !ok {
			continue
		}
		if update(c) {
			count++
		}
	}
	return count
}
