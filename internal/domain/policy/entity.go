package policy

import "time"

// AttendanceConfiguration holds the thresholds and rounding rules that govern
// how punch deviations are classified. One row may exist per organization;
// exactly one global row (OrganizationID == nil) acts as the fallback.
type AttendanceConfiguration struct {
	ID             string
	OrganizationID *string // nil on the global fallback row

	AllowEarlyTime bool
	AllowLate      bool
	AllowUnderTime bool
	AllowOvertime  bool

	// Minimum minute deltas; a delta must be strictly greater than the
	// threshold before the deviation counts as a violation.
	EarlyTimeThresholdMinutes int
	GracePeriodMinutes        int
	UnderTimeThresholdMinutes int
	OvertimeThresholdMinutes  int

	RoundEarlyTime        bool
	RoundEarlyTimeMinutes int
	RoundLate             bool
	RoundLateMinutes      int
	RoundUnderTime        bool
	RoundUnderTimeMinutes int
	RoundOvertime         bool
	RoundOvertimeMinutes  int

	// Penalties applied by the day-close job when a punch never arrived.
	NoTimeInDeduction         bool
	NoTimeInDeductionMinutes  int
	NoTimeOutDeduction        bool
	NoTimeOutDeductionMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsGlobal reports whether this is the global fallback row.
func (c AttendanceConfiguration) IsGlobal() bool {
	return c.OrganizationID == nil
}
