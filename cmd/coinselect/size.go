package main

import (
	"github.com/spf13/cobra"
	"github.com/vulpemventures/coinselect/internal/core/application"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

var (
	inputs     int
	withChange bool

	sizeCmd = &cobra.Command{
		Use:   "size",
		Short: "estimate the size and fee of a transaction",
		Long: "this command lets you estimate the size in bytes of a transaction " +
			"of the given shape, and the fee to pay for it",
		RunE: estimateSize,
	}
)

func init() {
	sizeCmd.Flags().IntVar(&inputs, "inputs", 1, "number of inputs")
	sizeCmd.Flags().IntVar(&outputs, "outputs", 1, "number of payment outputs")
	sizeCmd.Flags().IntVar(&dataSize, "data-size", 0, "size of the embedded data payload, if any")
	sizeCmd.Flags().BoolVar(&withChange, "change", false, "whether the tx has a change output")
	sizeCmd.Flags().Int64Var(&feeRate, "fee-rate", 0, "fee rate in units per byte, resolved from priority if not set")
	sizeCmd.Flags().StringVar(&priority, "priority", "", "fee priority, one of: low | medium | high")
}

func estimateSize(cmd *cobra.Command, _ []string) error {
	info, err := appConfig.CoinSelectionService().EstimateFee(
		cmd.Context(), application.FeeEstimationRequest{
			SizeArgs: estimation.SizeArgs{
				Inputs:     inputs,
				Outputs:    outputs,
				DataSize:   dataSize,
				WithChange: withChange,
			},
			FeeRate:     amountFlag(feeRate),
			FeePriority: priority,
		},
	)
	if err != nil {
		return err
	}

	return printJSON(map[string]int64{
		"size":     int64(info.Size),
		"fee_rate": int64(info.FeeRate),
		"fee":      int64(info.Fee),
	})
}
