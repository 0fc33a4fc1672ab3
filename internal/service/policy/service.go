package policy

import (
	"github.com/workforcehq/attendance-bridge/internal/domain/policy"
)

// Deviation is the kind of punch deviation being evaluated.
type Deviation string

const (
	DeviationLate      Deviation = "LATE"
	DeviationOvertime  Deviation = "OVERTIME"
	DeviationUnderTime Deviation = "UNDER_TIME"
	DeviationEarlyTime Deviation = "EARLY_TIME"
)

// Result is the outcome of evaluating one deviation against a configuration.
type Result struct {
	Violated        bool
	Kind            Deviation
	RawMinutes      int
	ReportedMinutes int
}

// Evaluate classifies a raw minute delta for one deviation kind under the
// given configuration. Deterministic and side-effect-free; delta must already
// be non-negative (the caller computes the direction).
//
// A kind the configuration disallows never violates, regardless of magnitude.
// The threshold is an exclusive lower bound: a delta strictly greater than
// the threshold violates. LATE and OVERTIME round up to the kind's granule,
// UNDER_TIME and EARLY_TIME round down.
func Evaluate(kind Deviation, deltaMinutes int, cfg policy.AttendanceConfiguration) Result {
	res := Result{Kind: kind, RawMinutes: deltaMinutes, ReportedMinutes: deltaMinutes}

	allowed, threshold := gate(kind, cfg)
	if !allowed || deltaMinutes <= threshold {
		return res
	}

	res.Violated = true
	res.ReportedMinutes = Round(kind, deltaMinutes, cfg)
	return res
}

// Round applies only the kind's rounding rule to a raw delta, without the
// threshold check. Used where a violation is triggered by something other
// than the configured threshold.
func Round(kind Deviation, deltaMinutes int, cfg policy.AttendanceConfiguration) int {
	switch kind {
	case DeviationLate:
		return round(deltaMinutes, cfg.RoundLate, cfg.RoundLateMinutes, true)
	case DeviationOvertime:
		return round(deltaMinutes, cfg.RoundOvertime, cfg.RoundOvertimeMinutes, true)
	case DeviationUnderTime:
		return round(deltaMinutes, cfg.RoundUnderTime, cfg.RoundUnderTimeMinutes, false)
	case DeviationEarlyTime:
		return round(deltaMinutes, cfg.RoundEarlyTime, cfg.RoundEarlyTimeMinutes, false)
	}
	return deltaMinutes
}

func gate(kind Deviation, cfg policy.AttendanceConfiguration) (allowed bool, threshold int) {
	switch kind {
	case DeviationLate:
		return cfg.AllowLate, cfg.GracePeriodMinutes
	case DeviationOvertime:
		return cfg.AllowOvertime, cfg.OvertimeThresholdMinutes
	case DeviationUnderTime:
		return cfg.AllowUnderTime, cfg.UnderTimeThresholdMinutes
	case DeviationEarlyTime:
		return cfg.AllowEarlyTime, cfg.EarlyTimeThresholdMinutes
	}
	return false, 0
}

func round(delta int, enabled bool, unit int, up bool) int {
	if !enabled || unit <= 1 {
		return delta
	}
	if up {
		return ((delta + unit - 1) / unit) * unit
	}
	return (delta / unit) * unit
}
