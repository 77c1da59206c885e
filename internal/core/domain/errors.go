package domain

import "fmt"

var (
	// ErrInvalidConfiguration is returned for targets that can never be
	// satisfied because of how they are built. It is never retried.
	ErrInvalidConfiguration = fmt.Errorf("invalid configuration")
	ErrInvalidFeeRate       = fmt.Errorf(
		"%w: fee rate must be greater than zero", ErrInvalidConfiguration,
	)
	ErrInvalidAmount = fmt.Errorf(
		"%w: target amount must be greater than zero", ErrInvalidConfiguration,
	)
	ErrInvalidTxShape = fmt.Errorf(
		"%w: output count and data size must not be negative",
		ErrInvalidConfiguration,
	)
	ErrMissingExcludeAmount = fmt.Errorf(
		"%w: priming requires the amount of the denomination to create",
		ErrInvalidConfiguration,
	)

	// ErrIterationBudgetExceeded signals that the combinatorial search gave
	// up before exploring every branch.
	ErrIterationBudgetExceeded = fmt.Errorf("coin search iteration budget exceeded")

	// ErrInsufficientFunds is returned when no trust tier yields a valid
	// coin group.
	ErrInsufficientFunds = fmt.Errorf("insufficient funds")
	ErrFeeRateTooHigh    = fmt.Errorf(
		"%w: fee rate too high to complete this operation", ErrInsufficientFunds,
	)
	ErrFeeRateTooHighToSweep = fmt.Errorf(
		"%w: fee rate too high to sweep all coins", ErrInsufficientFunds,
	)

	// ErrNoNaiveCombinationFound is returned when the greedy fallback can't
	// cover the target in either direction within the input cap.
	ErrNoNaiveCombinationFound = fmt.Errorf(
		"no naive combination found within the max number of inputs",
	)

	ErrDuplicatedCoin   = fmt.Errorf("coin group must not contain duplicated coins")
	ErrGroupUnderfunded = fmt.Errorf("coin group does not cover target amount and fee")
	ErrEmptyGroup       = fmt.Errorf("coin group must contain at least one coin")
)
