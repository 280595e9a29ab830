// Package gate turns a coverage ratio into a pass/fail decision and a
// process exit code.
package gate

import (
	"fmt"

	"github.com/pkg/errors"
)

// Process exit codes. Usage or internal errors use ExitError so CI can tell
// a failing gate from a broken run.
const (
	ExitPass  = 0
	ExitFail  = 1
	ExitError = 2
)

// epsilon absorbs float rounding at the threshold boundary. A ratio exactly
// equal to the threshold passes.
const epsilon = 1e-9

// Decision is the outcome of checking a ratio against a threshold.
type Decision struct {
	Ratio     float64 `json:"ratio"`
	Threshold float64 `json:"threshold"`
	Pass      bool    `json:"pass"`
}

// Evaluate checks a coverage ratio against a threshold in [0, 1].
func Evaluate(ratio, threshold float64) (*Decision, error) {
	if threshold < 0 || threshold > 1 {
		return nil, errors.Errorf("threshold must be between 0 and 1, got %g", threshold)
	}
	return &Decision{
		Ratio:     ratio,
		Threshold: threshold,
		Pass:      ratio+epsilon >= threshold,
	}, nil
}

// ExitCode maps the decision to a process exit code.
func (d *Decision) ExitCode() int {
	if d.Pass {
		return ExitPass
	}
	return ExitFail
}

// Message renders a one-line human summary of the decision.
func (d *Decision) Message() string {
	if d.Pass {
		return fmt.Sprintf("coverage %.1f%% meets threshold %.1f%%", d.Ratio*100, d.Threshold*100)
	}
	return fmt.Sprintf("coverage %.1f%% is below threshold %.1f%% (short by %.1f%%)",
		d.Ratio*100, d.Threshold*100, (d.Threshold-d.Ratio)*100)
}
