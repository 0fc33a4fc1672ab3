package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforcehq/attendance-bridge/internal/domain/attendance"
	"github.com/workforcehq/attendance-bridge/internal/domain/policy"
)

func testConfig() policy.AttendanceConfiguration {
	return policy.AttendanceConfiguration{
		AllowEarlyTime: true,
		AllowLate:      true,
		AllowUnderTime: true,
		AllowOvertime:  true,

		EarlyTimeThresholdMinutes: 15,
		GracePeriodMinutes:        15,
		UnderTimeThresholdMinutes: 10,
		OvertimeThresholdMinutes:  30,

		RoundLate:             true,
		RoundLateMinutes:      15,
		RoundUnderTime:        true,
		RoundUnderTimeMinutes: 10,
		RoundOvertime:         true,
		RoundOvertimeMinutes:  30,
	}
}

func testWindow() ShiftWindow {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return ShiftWindow{Start: start, End: start.Add(8 * time.Hour)}
}

func TestApply_FirstPunchOnTimeOpensDefault(t *testing.T) {
	w := testWindow()

	out := Apply(nil, w.Start.Add(-2*time.Minute), w, false, testConfig())

	assert.Equal(t, ActionOpenDay, out.Action)
	assert.Equal(t, []attendance.Status{attendance.StatusDefault}, out.Statuses)
	assert.Nil(t, out.LateMinutes)
}

func TestApply_FirstPunchLateBeyondGrace(t *testing.T) {
	w := testWindow()

	out := Apply(nil, w.Start.Add(27*time.Minute), w, false, testConfig())

	assert.Equal(t, ActionOpenDay, out.Action)
	assert.Equal(t, []attendance.Status{attendance.StatusLate}, out.Statuses)
	require.NotNil(t, out.LateMinutes)
	assert.Equal(t, 30, *out.LateMinutes, "27 minutes rounds up to the 15-minute granule")
}

func TestApply_FirstPunchWithinGraceStaysDefault(t *testing.T) {
	w := testWindow()

	// 15 minutes equals the grace period; the bound is exclusive.
	out := Apply(nil, w.Start.Add(15*time.Minute), w, false, testConfig())

	assert.Equal(t, []attendance.Status{attendance.StatusDefault}, out.Statuses)
	assert.Nil(t, out.LateMinutes)
}

func TestApply_HolidayPunchIsOvertimeNotLate(t *testing.T) {
	w := testWindow()

	// Hours past shift start, but on a holiday lateness is meaningless.
	out := Apply(nil, w.Start.Add(3*time.Hour), w, true, testConfig())

	assert.Equal(t, ActionOpenDay, out.Action)
	assert.Equal(t, []attendance.Status{attendance.StatusOvertime}, out.Statuses)
	assert.Nil(t, out.LateMinutes)
}

func TestApply_SecondPunchEarlyFlagsUnderTime(t *testing.T) {
	w := testWindow()
	in := w.Start
	open := &attendance.Attendance{ID: "att-1", TimeIn: &in}

	out := Apply(open, w.End.Add(-25*time.Minute), w, false, testConfig())

	assert.Equal(t, ActionCloseDay, out.Action)
	assert.Equal(t, []attendance.Status{attendance.StatusUnderTime}, out.Statuses)
	require.NotNil(t, out.UnderTimeMinutes)
	assert.Equal(t, 20, *out.UnderTimeMinutes, "25 minutes rounds down to the 10-minute granule")
}

func TestApply_SecondPunchPastEndFlagsOvertime(t *testing.T) {
	w := testWindow()
	in := w.Start
	open := &attendance.Attendance{ID: "att-1", TimeIn: &in}

	tests := []struct {
		name      string
		after     time.Duration
		statuses  []attendance.Status
		wantMin   int
		wantFlags bool
	}{
		{name: "exactly 30 minutes after does not trigger", after: 30 * time.Minute,
			statuses: []attendance.Status{attendance.StatusDefault}},
		{name: "31 minutes after triggers", after: 31 * time.Minute,
			statuses:  []attendance.Status{attendance.StatusOvertime},
			wantMin:   60, // rounds up to the 30-minute granule
			wantFlags: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Apply(open, w.End.Add(tt.after), w, false, testConfig())

			assert.Equal(t, ActionCloseDay, out.Action)
			assert.Equal(t, tt.statuses, out.Statuses)
			if tt.wantFlags {
				require.NotNil(t, out.OvertimeMinutes)
				assert.Equal(t, tt.wantMin, *out.OvertimeMinutes)
			} else {
				assert.Nil(t, out.OvertimeMinutes)
			}
		})
	}
}

func TestApply_SecondPunchOvertimeDisallowed(t *testing.T) {
	w := testWindow()
	in := w.Start
	open := &attendance.Attendance{ID: "att-1", TimeIn: &in}
	cfg := testConfig()
	cfg.AllowOvertime = false

	out := Apply(open, w.End.Add(2*time.Hour), w, false, cfg)

	assert.Equal(t, ActionCloseDay, out.Action)
	assert.Equal(t, []attendance.Status{attendance.StatusDefault}, out.Statuses)
	assert.Nil(t, out.OvertimeMinutes)
}

func TestApply_ClosedDayIsTerminal(t *testing.T) {
	w := testWindow()
	in, outAt := w.Start, w.End
	closed := &attendance.Attendance{ID: "att-1", TimeIn: &in, TimeOut: &outAt}

	out := Apply(closed, w.End.Add(time.Hour), w, false, testConfig())

	assert.Equal(t, ActionRecordOnly, out.Action)
	assert.Empty(t, out.Statuses)
}
