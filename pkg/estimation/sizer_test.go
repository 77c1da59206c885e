package estimation_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

func TestTxSize(t *testing.T) {
	tests := []struct {
		name         string
		args         estimation.SizeArgs
		expectedSize int
	}{
		{
			name:         "1 input 1 output",
			args:         estimation.SizeArgs{Inputs: 1, Outputs: 1},
			expectedSize: 191,
		},
		{
			name:         "2 inputs 1 output with change",
			args:         estimation.SizeArgs{Inputs: 2, Outputs: 1, WithChange: true},
			expectedSize: 372,
		},
		{
			name:         "1 input 1 output with change and data",
			args:         estimation.SizeArgs{Inputs: 1, Outputs: 1, DataSize: 28, WithChange: true},
			expectedSize: 264,
		},
		{
			name:         "no inputs no outputs",
			args:         estimation.SizeArgs{},
			expectedSize: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := estimation.DefaultSizer.TxSize(tt.args)
			require.Equal(t, tt.expectedSize, size)
		})
	}
}

func TestTxSizeIncrements(t *testing.T) {
	sizer := estimation.DefaultSizer
	args := estimation.SizeArgs{Inputs: 3, Outputs: 2, DataSize: 40}
	size := sizer.TxSize(args)

	args.Inputs++
	require.Equal(t, size+147, sizer.TxSize(args))

	args.WithChange = true
	require.Equal(t, size+147+34, sizer.TxSize(args))
}

func TestEstimateFee(t *testing.T) {
	fee := estimation.DefaultSizer.EstimateFee(
		estimation.SizeArgs{Inputs: 2, Outputs: 1, WithChange: true}, 10,
	)
	require.Equal(t, btcutil.Amount(3720), fee)
	require.Equal(t, btcutil.Amount(1470), estimation.DefaultSizer.InputCost(10))
}

func TestCustomSizer(t *testing.T) {
	sizer := estimation.Sizer{InputSize: 68, OutputSize: 31}
	size := sizer.TxSize(estimation.SizeArgs{Inputs: 1, Outputs: 1, WithChange: true})
	require.Equal(t, 10+68+31+31, size)
}

func TestNegativeArgsPanic(t *testing.T) {
	sizer := estimation.DefaultSizer
	require.Panics(t, func() { sizer.TxSize(estimation.SizeArgs{Inputs: -1}) })
	require.Panics(t, func() { sizer.BaseSize(-1, 0) })
	require.Panics(t, func() { sizer.Fee(100, -1) })
}
