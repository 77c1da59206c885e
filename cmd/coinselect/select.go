package main

import (
	"github.com/spf13/cobra"
	"github.com/vulpemventures/coinselect/internal/core/application"
	"github.com/vulpemventures/coinselect/internal/core/domain"
)

var (
	address       string
	amount        int64
	outputs       int
	dataSize      int
	feeRate       int64
	priority      string
	strategy      string
	excludeAmount int64
	minChange     int64

	selectCmd = &cobra.Command{
		Use:   "select",
		Short: "select the coins paying a target amount",
		Long: "this command lets you choose the coins of an address to pay the " +
			"given amount plus fees, trying confirmed coins first, then expedited " +
			"ones and finally any coin not already being spent",
		RunE: selectCoins,
	}
)

func init() {
	selectCmd.Flags().StringVar(&address, "address", defaultAddress, "address of the coins to spend")
	selectCmd.Flags().Int64Var(&amount, "amount", 0, "amount to pay, in smallest units")
	selectCmd.Flags().IntVar(&outputs, "outputs", 1, "number of payment outputs")
	selectCmd.Flags().IntVar(&dataSize, "data-size", 0, "size of the embedded data payload, if any")
	selectCmd.Flags().Int64Var(&feeRate, "fee-rate", 0, "fee rate in units per byte, resolved from priority if not set")
	selectCmd.Flags().StringVar(&priority, "priority", "", "fee priority, one of: low | medium | high")
	selectCmd.Flags().StringVar(&strategy, "strategy", domain.StrategyBalanced.String(), "selection strategy, one of: balanced | priming")
	selectCmd.Flags().Int64Var(&excludeAmount, "exclude-amount", 0, "with priming, the denomination of the coins never to select")
	selectCmd.Flags().Int64Var(&minChange, "min-change", 0, "change the selection should preferably give back")
	selectCmd.MarkFlagRequired("amount")
}

func selectCoins(cmd *cobra.Command, _ []string) error {
	s, err := domain.ParseStrategy(strategy)
	if err != nil {
		return err
	}

	target := appConfig.Target(amountFlag(amount))
	target.OutputCount = outputs
	target.DataSize = dataSize
	target.FeeRate = amountFlag(feeRate)
	target.ExcludeAmount = amountFlag(excludeAmount)

	info, err := appConfig.CoinSelectionService().SelectCoins(
		cmd.Context(), application.SelectionRequest{
			Address:     address,
			Strategy:    s,
			Target:      target,
			FeePriority: priority,
		},
	)
	if err != nil {
		return err
	}
	return printSelection(info)
}
