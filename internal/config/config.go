package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	// LogLevelKey is the key to customize the log level to catch more specific
	// or more high level logs.
	LogLevelKey = "LOG_LEVEL"
	// EngineKey is the key to customize the default coin selection engine.
	EngineKey = "ENGINE"
	// DustThresholdKey is the key to customize the amount below which change
	// is folded into the fee.
	DustThresholdKey = "DUST_THRESHOLD"
	// MinChangeKey is the key to customize the change a selection should
	// preferably give back.
	MinChangeKey = "MIN_CHANGE"
	// MaxIterationsKey is the key to customize the number of nodes the coin
	// search visits before giving up.
	MaxIterationsKey = "MAX_ITERATIONS"
	// MaxInputsKey is the key to customize the max number of coins of a
	// selection.
	MaxInputsKey = "MAX_INPUTS"
	// PreferredGroupSizeKey is the key to customize the max number of small
	// coins preferred over a single large one.
	PreferredGroupSizeKey = "PREFERRED_GROUP_SIZE"
	// MonteCarloSamplesKey is the key to customize the number of random
	// orderings tried by the monte-carlo engine.
	MonteCarloSamplesKey = "MONTE_CARLO_SAMPLES"
	// StaticOverheadKey, InputSizeKey, OutputSizeKey and DataPrefixSizeKey
	// are the keys to customize the tx size estimation, in bytes.
	StaticOverheadKey = "STATIC_OVERHEAD"
	InputSizeKey      = "INPUT_SIZE"
	OutputSizeKey     = "OUTPUT_SIZE"
	DataPrefixSizeKey = "DATA_PREFIX_SIZE"
	// FeeRateLowKey, FeeRateMediumKey and FeeRateHighKey are the keys to
	// customize the fee rate table, in units per byte.
	FeeRateLowKey    = "FEE_RATE_LOW"
	FeeRateMediumKey = "FEE_RATE_MEDIUM"
	FeeRateHighKey   = "FEE_RATE_HIGH"
)

var (
	vip *viper.Viper

	defaultLogLevel           = 4
	defaultEngine             = "smallest-subset"
	defaultDustThreshold      = 546
	defaultMaxIterations      = 25000
	defaultMaxInputs          = 145
	defaultPreferredGroupSize = 3
	defaultMonteCarloSamples  = 1000
	defaultStaticOverhead     = 10
	defaultInputSize          = 147
	defaultOutputSize         = 34
	defaultDataPrefixSize     = 11
	defaultFeeRateLow         = "1"
	defaultFeeRateMedium      = "5"
	defaultFeeRateHigh        = "20"

	SupportedEngines = supportedType{
		"smallest-subset": {},
		"monte-carlo":     {},
	}
)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("COINSELECT")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, defaultLogLevel)
	vip.SetDefault(EngineKey, defaultEngine)
	vip.SetDefault(DustThresholdKey, defaultDustThreshold)
	vip.SetDefault(MinChangeKey, 0)
	vip.SetDefault(MaxIterationsKey, defaultMaxIterations)
	vip.SetDefault(MaxInputsKey, defaultMaxInputs)
	vip.SetDefault(PreferredGroupSizeKey, defaultPreferredGroupSize)
	vip.SetDefault(MonteCarloSamplesKey, defaultMonteCarloSamples)
	vip.SetDefault(StaticOverheadKey, defaultStaticOverhead)
	vip.SetDefault(InputSizeKey, defaultInputSize)
	vip.SetDefault(OutputSizeKey, defaultOutputSize)
	vip.SetDefault(DataPrefixSizeKey, defaultDataPrefixSize)
	vip.SetDefault(FeeRateLowKey, defaultFeeRateLow)
	vip.SetDefault(FeeRateMediumKey, defaultFeeRateMedium)
	vip.SetDefault(FeeRateHighKey, defaultFeeRateHigh)

	if err := validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
}

func validate() error {
	if lvl := GetInt(LogLevelKey); lvl < 0 || lvl > 6 {
		return fmt.Errorf("log level must be in range [0, 6]")
	}

	engine := GetString(EngineKey)
	if _, ok := SupportedEngines[engine]; !ok {
		return fmt.Errorf(
			"unsupported coin selection engine, must be one of %s", SupportedEngines,
		)
	}

	if GetInt(DustThresholdKey) <= 0 {
		return fmt.Errorf("dust threshold must be greater than zero")
	}
	if GetInt(MinChangeKey) < 0 {
		return fmt.Errorf("min change must not be negative")
	}

	for _, key := range []string{
		MaxIterationsKey, MaxInputsKey, PreferredGroupSizeKey,
		MonteCarloSamplesKey, StaticOverheadKey, InputSizeKey, OutputSizeKey,
		DataPrefixSizeKey,
	} {
		if GetInt(key) <= 0 {
			return fmt.Errorf("%s must be greater than zero", strings.ToLower(key))
		}
	}

	for _, key := range []string{FeeRateLowKey, FeeRateMediumKey, FeeRateHighKey} {
		rate, err := decimal.NewFromString(GetString(key))
		if err != nil {
			return fmt.Errorf("invalid %s: %s", strings.ToLower(key), err)
		}
		if !rate.IsPositive() {
			return fmt.Errorf("%s must be greater than zero", strings.ToLower(key))
		}
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func Set(key string, val interface{}) {
	vip.Set(key, val)
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}
