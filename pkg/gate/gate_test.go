package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateBoundary(t *testing.T) {
	tests := []struct {
		name      string
		ratio     float64
		threshold float64
		pass      bool
	}{
		{"exactly at threshold passes", 0.80, 0.80, true},
		{"just below fails", 0.79, 0.80, false},
		{"above passes", 0.95, 0.80, true},
		{"zero threshold always passes", 0.0, 0.0, true},
		{"full threshold needs full coverage", 0.999, 1.0, false},
		{"full coverage meets full threshold", 1.0, 1.0, true},
		{"float division at boundary", 4.0 / 5.0, 0.8, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Evaluate(tc.ratio, tc.threshold)
			require.NoError(t, err)
			assert.Equal(t, tc.pass, d.Pass)
		})
	}
}

func TestEvaluateInvalidThreshold(t *testing.T) {
	for _, threshold := range []float64{-0.1, 1.1, 80} {
		_, err := Evaluate(0.5, threshold)
		require.Error(t, err, "threshold %g", threshold)
		assert.Contains(t, err.Error(), "threshold must be between 0 and 1")
	}
}

func TestExitCodes(t *testing.T) {
	pass, err := Evaluate(0.9, 0.8)
	require.NoError(t, err)
	assert.Equal(t, ExitPass, pass.ExitCode())

	fail, err := Evaluate(0.5, 0.8)
	require.NoError(t, err)
	assert.Equal(t, ExitFail, fail.ExitCode())
}

func TestMessage(t *testing.T) {
	pass, err := Evaluate(0.9, 0.8)
	require.NoError(t, err)
	assert.Equal(t, "coverage 90.0% meets threshold 80.0%", pass.Message())

	fail, err := Evaluate(0.5, 0.8)
	require.NoError(t, err)
	assert.Equal(t, "coverage 50.0% is below threshold 80.0% (short by 30.0%)", fail.Message())
}
