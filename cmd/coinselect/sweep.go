package main

import (
	"github.com/spf13/cobra"
	"github.com/vulpemventures/coinselect/internal/core/application"
	"github.com/vulpemventures/coinselect/internal/core/domain"
)

var (
	tier string

	sweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "spend all the coins of an address",
		Long: "this command lets you spend all the coins of an address spendable " +
			"within the given trust tier into a single output, without change",
		RunE: sweep,
	}
)

func init() {
	sweepCmd.Flags().StringVar(&address, "address", defaultAddress, "address of the coins to spend")
	sweepCmd.Flags().StringVar(&tier, "tier", domain.TierConfirmed.String(), "trust tier, one of: confirmed | expedited | all")
	sweepCmd.Flags().IntVar(&dataSize, "data-size", 0, "size of the embedded data payload, if any")
	sweepCmd.Flags().Int64Var(&feeRate, "fee-rate", 0, "fee rate in units per byte, resolved from priority if not set")
	sweepCmd.Flags().StringVar(&priority, "priority", "", "fee priority, one of: low | medium | high")
}

func sweep(cmd *cobra.Command, _ []string) error {
	t, err := domain.ParseTrustTier(tier)
	if err != nil {
		return err
	}

	target := appConfig.Target(0)
	target.DataSize = dataSize
	target.FeeRate = amountFlag(feeRate)

	info, err := appConfig.CoinSelectionService().Sweep(
		cmd.Context(), application.SweepRequest{
			Address:     address,
			Tier:        t,
			Target:      target,
			FeePriority: priority,
		},
	)
	if err != nil {
		return err
	}
	return printSelection(info)
}
