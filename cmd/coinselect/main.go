package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	appconfig "github.com/vulpemventures/coinselect/internal/app-config"
	"github.com/vulpemventures/coinselect/internal/config"
	"github.com/vulpemventures/coinselect/internal/infrastructure/coin-pool/inmemory"
)

const defaultAddress = "default"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Config from env vars.
	logLevel = config.GetInt(config.LogLevelKey)

	coinsPath  string
	engine     string
	metricsDir string

	appConfig *appconfig.AppConfig

	rootCmd = &cobra.Command{
		Use:   "coinselect",
		Short: "CLI for coin selection",
		Long: "This CLI lets you choose the coins to spend in a transaction " +
			"from a JSON snapshot of a coin pool",
		PersistentPreRunE: setup,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return dumpMetrics()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       formatVersion(),
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(
		&coinsPath, "coins", "", "path to the JSON list of coins to select from",
	)
	rootCmd.PersistentFlags().StringVar(
		&engine, "engine", "", "coin selection engine, one of: "+
			config.SupportedEngines.String(),
	)
	rootCmd.PersistentFlags().StringVar(
		&metricsDir, "metrics-dir", "",
		"directory where to dump the metrics of the run, if any",
	)

	rootCmd.AddCommand(selectCmd, sweepCmd, sizeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printErr(err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	log.SetLevel(log.Level(logLevel))

	cfg := appconfig.NewAppConfigFromEnv()
	if engine != "" {
		cfg.Engine = engine
	}
	if cmd.Flags().Changed("min-change") {
		cfg.MinChange = amountFlag(minChange)
	}
	cfg.WithMetrics = metricsDir != ""
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg

	if coinsPath == "" {
		return nil
	}
	coins, err := inmemory.LoadCoinsFromFile(cleanAndExpandPath(coinsPath))
	if err != nil {
		return err
	}
	for _, c := range coins {
		if c.Address == "" {
			c.Address = defaultAddress
		}
	}
	count, err := cfg.CoinPool().AddCoins(cmd.Context(), coins)
	if err != nil {
		return err
	}
	log.Debugf("loaded %d coin(s) from %s", count, coinsPath)
	return nil
}

func dumpMetrics() error {
	if metricsDir == "" || appConfig == nil {
		return nil
	}
	path, err := appConfig.Observer().Dump(cleanAndExpandPath(metricsDir))
	if err != nil {
		return err
	}
	log.Debugf("metrics dumped to %s", path)
	return nil
}
