package estimation

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
)

const (
	// StaticOverhead is the size of version, locktime and in/out counters.
	StaticOverhead = 10
	// InputSize is the size of a signed P2PKH input.
	InputSize = 147
	// OutputSize is the size of a P2PKH output.
	OutputSize = 34
	// DataPrefixSize is the size of a zero-value OP_RETURN output without
	// its payload.
	DataPrefixSize = 11

	// DefaultDustThreshold is the amount below which a change output is not
	// worth creating and is rather folded into the fee.
	DefaultDustThreshold = btcutil.Amount(546)
)

// DefaultSizer prices transactions with the reference constants.
var DefaultSizer = Sizer{
	StaticOverhead: StaticOverhead,
	InputSize:      InputSize,
	OutputSize:     OutputSize,
	DataPrefixSize: DataPrefixSize,
}

// Sizer estimates the byte size of a transaction from the number of its
// inputs and outputs. Any zero field falls back to the reference constant.
type Sizer struct {
	StaticOverhead int
	InputSize      int
	OutputSize     int
	DataPrefixSize int
}

// SizeArgs describes the shape of the transaction to estimate.
//   - Inputs - number of inputs spent.
//   - Outputs - number of payment outputs, change excluded.
//   - DataSize - size of the embedded data payload, if any.
//   - WithChange - whether a change output is added.
type SizeArgs struct {
	Inputs     int
	Outputs    int
	DataSize   int
	WithChange bool
}

// BaseSize returns the size of the transaction without inputs and change.
func (s Sizer) BaseSize(outputs, dataSize int) int {
	if outputs < 0 || dataSize < 0 {
		panic(fmt.Sprintf(
			"estimation: negative base size args (outputs %d, data size %d)",
			outputs, dataSize,
		))
	}

	size := s.staticOverhead() + s.outputSize()*outputs
	if dataSize > 0 {
		size += s.dataPrefixSize() + dataSize
	}
	return size
}

// TxSize returns the estimated size in bytes of the described transaction.
func (s Sizer) TxSize(args SizeArgs) int {
	if args.Inputs < 0 {
		panic(fmt.Sprintf("estimation: negative input count %d", args.Inputs))
	}

	size := s.BaseSize(args.Outputs, args.DataSize) + s.inputSize()*args.Inputs
	if args.WithChange {
		size += s.outputSize()
	}
	return size
}

// Fee returns the fee amount for a transaction of the given size at the
// given rate, expressed in units per byte.
func (s Sizer) Fee(size int, feeRate btcutil.Amount) btcutil.Amount {
	if size < 0 || feeRate < 0 {
		panic(fmt.Sprintf(
			"estimation: negative fee args (size %d, fee rate %d)", size, feeRate,
		))
	}
	return btcutil.Amount(size) * feeRate
}

// EstimateFee estimates the size of the described transaction and returns
// the corresponding fee amount.
func (s Sizer) EstimateFee(args SizeArgs, feeRate btcutil.Amount) btcutil.Amount {
	return s.Fee(s.TxSize(args), feeRate)
}

// InputCost returns what spending one more input costs at the given rate.
func (s Sizer) InputCost(feeRate btcutil.Amount) btcutil.Amount {
	return s.Fee(s.inputSize(), feeRate)
}

func (s Sizer) staticOverhead() int {
	if s.StaticOverhead <= 0 {
		return StaticOverhead
	}
	return s.StaticOverhead
}

func (s Sizer) inputSize() int {
	if s.InputSize <= 0 {
		return InputSize
	}
	return s.InputSize
}

func (s Sizer) outputSize() int {
	if s.OutputSize <= 0 {
		return OutputSize
	}
	return s.OutputSize
}

func (s Sizer) dataPrefixSize() int {
	if s.DataPrefixSize <= 0 {
		return DataPrefixSize
	}
	return s.DataPrefixSize
}
