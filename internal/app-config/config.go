package appconfig

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/vulpemventures/coinselect/internal/config"
	"github.com/vulpemventures/coinselect/internal/core/application"
	"github.com/vulpemventures/coinselect/internal/core/domain"
	"github.com/vulpemventures/coinselect/internal/core/ports"
	"github.com/vulpemventures/coinselect/internal/infrastructure/coin-pool/inmemory"
	"github.com/vulpemventures/coinselect/internal/infrastructure/fee-estimator/static"
	"github.com/vulpemventures/coinselect/internal/infrastructure/metrics"
	"github.com/vulpemventures/coinselect/pkg/estimation"
)

// AppConfig is the struct holding all configuration options for the coin
// selection service.
// This data structure acts also as a factory of the service and of the
// portable services used by it.
// Public config args:
//   - Engine - (required) One of the supported coin selection engines.
//   - DustThreshold - (required) Change below this amount is folded into the fee.
//   - MinChange - (optional) The change selections should preferably give back.
//   - MaxIterations, MaxInputs, PreferredGroupSize, MonteCarloSamples - (optional) Engine caps, defaults are used if zero.
//   - Sizer - (optional) The tx size estimator, defaults to estimation.DefaultSizer.
//   - FeeRates - (required) The fee rate table by priority.
//   - WithMetrics - (optional) Whether to keep track of selections with Prometheus metrics.
//   - Pool - (optional) The coin pool provider, a new in-memory one is used if nil.
type AppConfig struct {
	Engine             string
	DustThreshold      btcutil.Amount
	MinChange          btcutil.Amount
	MaxIterations      int
	MaxInputs          int
	PreferredGroupSize int
	MonteCarloSamples  int
	Sizer              estimation.Sizer
	FeeRates           static.FeeRates
	WithMetrics        bool
	Pool               ports.CoinPoolProvider

	inmemoryPool *inmemory.CoinPool
	feeEstimator *static.FeeEstimator
	observer     *metrics.Observer
	selectionSvc *application.CoinSelectionService
}

// NewAppConfigFromEnv returns the config filled with the values of the
// config package.
func NewAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		Engine:             config.GetString(config.EngineKey),
		DustThreshold:      btcutil.Amount(config.GetInt(config.DustThresholdKey)),
		MinChange:          btcutil.Amount(config.GetInt(config.MinChangeKey)),
		MaxIterations:      config.GetInt(config.MaxIterationsKey),
		MaxInputs:          config.GetInt(config.MaxInputsKey),
		PreferredGroupSize: config.GetInt(config.PreferredGroupSizeKey),
		MonteCarloSamples:  config.GetInt(config.MonteCarloSamplesKey),
		Sizer: estimation.Sizer{
			StaticOverhead: config.GetInt(config.StaticOverheadKey),
			InputSize:      config.GetInt(config.InputSizeKey),
			OutputSize:     config.GetInt(config.OutputSizeKey),
			DataPrefixSize: config.GetInt(config.DataPrefixSizeKey),
		},
		FeeRates: static.FeeRates{
			Low:    config.GetString(config.FeeRateLowKey),
			Medium: config.GetString(config.FeeRateMediumKey),
			High:   config.GetString(config.FeeRateHighKey),
		},
	}
}

func (c *AppConfig) Validate() error {
	if len(c.Engine) == 0 {
		return fmt.Errorf("missing coin selection engine")
	}
	if _, err := application.ParseEngine(c.Engine); err != nil {
		return fmt.Errorf(
			"coin selection engine not supported, must be one of: %s",
			config.SupportedEngines,
		)
	}
	if c.DustThreshold <= 0 {
		return fmt.Errorf("missing dust threshold")
	}
	if c.MinChange < 0 {
		return fmt.Errorf("min change must not be negative")
	}
	if c.MaxIterations < 0 || c.MaxInputs < 0 || c.PreferredGroupSize < 0 ||
		c.MonteCarloSamples < 0 {
		return fmt.Errorf("engine caps must not be negative")
	}
	if _, err := c.feeRateEstimator(); err != nil {
		return err
	}
	if _, err := c.metricsObserver(); err != nil {
		return err
	}
	return nil
}

// Target returns a target for the given amount with the configured dust
// threshold and min change.
func (c *AppConfig) Target(amount btcutil.Amount) domain.Target {
	return domain.Target{
		Amount:        amount,
		DustThreshold: c.DustThreshold,
		MinChange:     c.MinChange,
		OutputCount:   1,
	}
}

func (c *AppConfig) CoinPool() *inmemory.CoinPool {
	if c.inmemoryPool == nil {
		c.inmemoryPool = inmemory.NewCoinPool()
	}
	return c.inmemoryPool
}

func (c *AppConfig) FeeEstimator() ports.FeeEstimator {
	estimator, err := c.feeRateEstimator()
	if err != nil {
		return nil
	}
	return estimator
}

// Observer returns the metrics observer, nil if metrics are disabled.
func (c *AppConfig) Observer() *metrics.Observer {
	observer, _ := c.metricsObserver()
	return observer
}

func (c *AppConfig) CoinSelectionService() *application.CoinSelectionService {
	return c.coinSelectionService()
}

func (c *AppConfig) feeRateEstimator() (*static.FeeEstimator, error) {
	if c.feeEstimator != nil {
		return c.feeEstimator, nil
	}
	estimator, err := static.NewFeeEstimator(c.FeeRates)
	if err != nil {
		return nil, err
	}
	c.feeEstimator = estimator
	return c.feeEstimator, nil
}

func (c *AppConfig) metricsObserver() (*metrics.Observer, error) {
	if !c.WithMetrics || c.observer != nil {
		return c.observer, nil
	}
	observer, err := metrics.NewObserver()
	if err != nil {
		return nil, err
	}
	c.observer = observer
	return c.observer, nil
}

func (c *AppConfig) coinSelectionService() *application.CoinSelectionService {
	if c.selectionSvc != nil {
		return c.selectionSvc
	}

	pool := c.Pool
	if pool == nil {
		pool = c.CoinPool()
	}
	var observer ports.SelectionObserver
	if o := c.Observer(); o != nil {
		observer = o
	}
	engine, _ := application.ParseEngine(c.Engine)

	svc, _ := application.NewCoinSelectionService(
		pool, c.FeeEstimator(), observer, application.SelectorOpts{
			MaxIterations:      c.MaxIterations,
			MaxInputs:          c.MaxInputs,
			PreferredGroupSize: c.PreferredGroupSize,
			Samples:            c.MonteCarloSamples,
			Sizer:              c.Sizer,
		}, engine,
	)
	c.selectionSvc = svc
	return c.selectionSvc
}
