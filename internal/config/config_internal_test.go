package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, validate())

	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{"invalid log level", LogLevelKey, 7},
		{"unknown engine", EngineKey, "random"},
		{"zero dust threshold", DustThresholdKey, 0},
		{"negative min change", MinChangeKey, -1},
		{"zero max iterations", MaxIterationsKey, 0},
		{"zero max inputs", MaxInputsKey, 0},
		{"zero monte carlo samples", MonteCarloSamplesKey, 0},
		{"zero input size", InputSizeKey, 0},
		{"invalid fee rate", FeeRateMediumKey, "five"},
		{"zero fee rate", FeeRateHighKey, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := vip.Get(tt.key)
			Set(tt.key, tt.val)
			defer Set(tt.key, prev)

			require.Error(t, validate())
		})
	}
}
