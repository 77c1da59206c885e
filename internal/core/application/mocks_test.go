package application_test

import (
	"context"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/mock"
	"github.com/vulpemventures/coinselect/internal/core/domain"
	"github.com/vulpemventures/coinselect/internal/core/ports"
)

// ports.CoinSelector
type mockCoinSelector struct {
	mock.Mock
}

func (m *mockCoinSelector) SelectCoins(
	coins domain.Coins, target domain.Target,
) (*domain.CoinGroup, error) {
	args := m.Called(coins, target)
	var res *domain.CoinGroup
	if a := args.Get(0); a != nil {
		res = a.(*domain.CoinGroup)
	}
	return res, args.Error(1)
}

// ports.CoinPoolProvider
type mockCoinPool struct {
	mock.Mock
}

func (m *mockCoinPool) GetCoinsForAddress(
	ctx context.Context, address string, tier domain.TrustTier,
) (domain.Coins, error) {
	args := m.Called(ctx, address, tier)
	var res domain.Coins
	if a := args.Get(0); a != nil {
		res = a.(domain.Coins)
	}
	return res, args.Error(1)
}

// ports.FeeEstimator
type mockFeeEstimator struct {
	mock.Mock
}

func (m *mockFeeEstimator) GetFeeRate(
	ctx context.Context, priority string,
) (btcutil.Amount, error) {
	args := m.Called(ctx, priority)
	return args.Get(0).(btcutil.Amount), args.Error(1)
}

// ports.SelectionObserver
type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) ObserveSelection(event ports.SelectionEvent) {
	m.Called(event)
}

func (m *mockObserver) ObserveSearch(event ports.SearchEvent) {
	m.Called(event)
}

// slowCoinPool keeps track of the max number of concurrent calls per address.
type slowCoinPool struct {
	lock        *sync.Mutex
	coins       domain.Coins
	inFlight    map[string]int
	maxInFlight map[string]int
}

func newSlowCoinPool(coins domain.Coins) *slowCoinPool {
	return &slowCoinPool{
		lock:        &sync.Mutex{},
		coins:       coins,
		inFlight:    make(map[string]int),
		maxInFlight: make(map[string]int),
	}
}

func (p *slowCoinPool) GetCoinsForAddress(
	_ context.Context, address string, _ domain.TrustTier,
) (domain.Coins, error) {
	p.lock.Lock()
	p.inFlight[address]++
	if p.inFlight[address] > p.maxInFlight[address] {
		p.maxInFlight[address] = p.inFlight[address]
	}
	p.lock.Unlock()

	time.Sleep(5 * time.Millisecond)

	p.lock.Lock()
	p.inFlight[address]--
	p.lock.Unlock()
	return p.coins, nil
}

func (p *slowCoinPool) max(address string) int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.maxInFlight[address]
}

func newCoin(
	vout uint32, value btcutil.Amount, state domain.TrustState, expedited bool,
) *domain.Coin {
	return &domain.Coin{
		CoinKey:    domain.CoinKey{TxID: "0000000000000000000000000000000000000000000000000000000000000001", VOut: vout},
		Value:      value,
		Address:    "addr",
		TrustState: state,
		Expedited:  expedited,
		Sequence:   uint64(vout + 1),
	}
}

func confirmedCoins(values ...btcutil.Amount) domain.Coins {
	coins := make(domain.Coins, 0, len(values))
	for i, v := range values {
		coins = append(coins, newCoin(uint32(i), v, domain.TrustConfirmed, false))
	}
	return coins
}

func values(coins domain.Coins) []btcutil.Amount {
	list := make([]btcutil.Amount, 0, len(coins))
	for _, c := range coins {
		list = append(list, c.Value)
	}
	return list
}
