package domain

import "fmt"

const (
	// StrategyBalanced is used for general payments.
	StrategyBalanced Strategy = iota
	// StrategyPriming is used to split funds into outputs of a fixed
	// denomination. Coins of that denomination are never selected.
	StrategyPriming
)

var strategyString = map[Strategy]string{
	StrategyBalanced: "balanced",
	StrategyPriming:  "priming",
}

// Strategy tells the intent of a coin selection.
type Strategy int

func (s Strategy) String() string {
	return strategyString[s]
}

// ParseStrategy returns the Strategy matching the given string.
func ParseStrategy(str string) (Strategy, error) {
	for strategy, s := range strategyString {
		if s == str {
			return strategy, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", str)
}
