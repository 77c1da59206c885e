package smallestsubset_selector

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/vulpemventures/coinselect/internal/core/domain"
	"github.com/vulpemventures/coinselect/internal/core/ports"
)

const (
	// searchModeExact accepts only groups paying the target without change.
	searchModeExact searchMode = iota
	// searchModeSatisfy accepts any group covering the target.
	searchModeSatisfy
)

type searchMode int

func (m searchMode) String() string {
	if m == searchModeExact {
		return "exact"
	}
	return "satisfy"
}

type searchResult struct {
	coins      domain.Coins
	iterations int
	gaveUp     bool
}

// search returns the combination of the given coins with the least number
// of coins, and then the lowest amount, accepted by the given mode.
// Coins must be sorted by descending value.
func (s *selector) search(
	coins domain.Coins, target domain.Target, mode searchMode,
) searchResult {
	sr := newSearcher(coins, target, mode, s.opts)
	sr.visit(0, 0)

	res := searchResult{
		coins:      sr.bestCoins(),
		iterations: sr.iterations,
		gaveUp:     sr.gaveUp,
	}
	if res.gaveUp {
		s.warn(
			domain.ErrIterationBudgetExceeded,
			"%s search stopped after %d iterations with %d coin(s) found",
			mode, res.iterations, len(res.coins),
		)
	}
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveSearch(ports.SearchEvent{
			Mode:       mode.String(),
			Iterations: res.iterations,
			GaveUp:     res.gaveUp,
		})
	}
	return res
}

// searcher holds the state of a single depth-first search over the subsets
// of a list of coins. The depth never exceeds maxInputs.
type searcher struct {
	coins domain.Coins
	mode  searchMode
	// prefix[i] is the sum of the first i coins.
	prefix []btcutil.Amount
	// needs[n] is the amount a group of n coins must reach.
	needs         []btcutil.Amount
	maxIterations int
	maxInputs     int
	netPositive   bool

	iterations int
	gaveUp     bool
	path       []int
	best       []int
	bestSum    btcutil.Amount
}

func newSearcher(
	coins domain.Coins, target domain.Target, mode searchMode,
	opts SelectorOpts,
) *searcher {
	prefix := make([]btcutil.Amount, len(coins)+1)
	for i, coin := range coins {
		prefix[i+1] = prefix[i] + coin.Value
	}

	needs := make([]btcutil.Amount, opts.MaxInputs+2)
	for n := range needs {
		if mode == searchModeExact {
			needs[n] = target.AmountWithoutChange(opts.Sizer, n)
		} else {
			needs[n] = target.SatisfyAmount(opts.Sizer, n)
		}
	}

	// Whether every coin is worth more than what it costs to spend it. If so,
	// adding a coin never brings a group closer to an amount it went past.
	netPositive := len(coins) > 0 &&
		coins[len(coins)-1].Value > opts.Sizer.InputCost(target.FeeRate)

	return &searcher{
		coins:         coins,
		mode:          mode,
		prefix:        prefix,
		needs:         needs,
		maxIterations: opts.MaxIterations,
		maxInputs:     opts.MaxInputs,
		netPositive:   netPositive,
		path:          make([]int, 0, opts.MaxInputs),
	}
}

// visit extends the current path with every coin from start onwards.
// Siblings of equal value are skipped since they'd lead to the same sums.
func (s *searcher) visit(start int, sum btcutil.Amount) {
	count := len(s.path) + 1
	for i := start; i < len(s.coins); i++ {
		value := s.coins[i].Value
		if i > start && value == s.coins[i-1].Value {
			continue
		}

		s.iterations++
		if s.iterations > s.maxIterations {
			s.gaveUp = true
			return
		}

		// Neither this coin nor any following one can lead to a group
		// reaching the target.
		if !s.canReach(i, count, sum) {
			return
		}

		newSum := sum + value
		if s.accepts(newSum, count) {
			if s.improves(count, newSum) {
				s.best = append(append(s.best[:0], s.path...), i)
				s.bestSum = newSum
			}
			continue
		}

		if s.mode == searchModeExact && s.netPositive && newSum > s.needs[count] {
			continue
		}
		if count >= s.maxInputs {
			continue
		}
		if s.best != nil {
			if bestCount := len(s.best); count+1 > bestCount ||
				(count+1 == bestCount && newSum >= s.bestSum) {
				continue
			}
		}
		if !s.canReach(i+1, count+1, newSum) {
			continue
		}

		s.path = append(s.path, i)
		s.visit(i+1, newSum)
		s.path = s.path[:len(s.path)-1]
		if s.gaveUp {
			return
		}
	}
}

// canReach returns whether a group made of the current path, whose values
// sum to sum, plus coins starting from i, as the count-th coin, can reach
// its target amount.
// The best such group takes the largest coins left within the max number
// of inputs. If every coin is net positive the more coins the better,
// otherwise the most that can be said is that the group can't be worth
// more than its largest coins nor need less than count coins.
func (s *searcher) canReach(i, count int, sum btcutil.Amount) bool {
	if i >= len(s.coins) {
		return false
	}
	k := s.maxInputs - count + 1
	if left := len(s.coins) - i; left < k {
		k = left
	}
	best := sum + s.prefix[i+k] - s.prefix[i]
	if s.netPositive {
		return best >= s.needs[count-1+k]
	}
	return best >= s.needs[count]
}

func (s *searcher) accepts(sum btcutil.Amount, count int) bool {
	if s.mode == searchModeExact {
		return sum == s.needs[count]
	}
	return sum >= s.needs[count]
}

func (s *searcher) improves(count int, sum btcutil.Amount) bool {
	if s.best == nil {
		return true
	}
	if count != len(s.best) {
		return count < len(s.best)
	}
	return sum < s.bestSum
}

func (s *searcher) bestCoins() domain.Coins {
	if s.best == nil {
		return nil
	}
	coins := make(domain.Coins, 0, len(s.best))
	for _, i := range s.best {
		coins = append(coins, s.coins[i])
	}
	return coins
}
