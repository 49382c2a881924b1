package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// at converts milliseconds since a fixed epoch into a timestamp.
func at(ms int64) time.Time {
	return time.Unix(1_700_000_000, 0).Add(time.Duration(ms) * time.Millisecond)
}

// TestDebouncer_Scenario walks through fire, suppress, re-fire, type switch and stop.
func TestDebouncer_Scenario(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(DefaultCatalog(), 5*time.Second)

	steps := []struct {
		typ  Type
		ms   int64
		want Action
	}{
		{Drowsiness, 0, ActionFire},
		{Drowsiness, 2000, ActionSuppress},
		{Drowsiness, 6000, ActionFire},
		{Yawn, 6100, ActionFire},
		{None, 7000, ActionStopAll},
	}

	for i, step := range steps {
		got := d.Observe(step.typ, at(step.ms))
		require.Equal(t, step.want, got.Action, "step %d (%s at %d)", i, step.typ, step.ms)
	}
}

// TestDebouncer_FireCarriesMessage checks that a fire decision holds the catalog message.
func TestDebouncer_FireCarriesMessage(t *testing.T) {
	t.Parallel()

	catalog := Catalog{Yawn: "wake up"}
	d := NewDebouncer(catalog, 0)

	got := d.Observe(Yawn, at(0))
	require.Equal(t, Decision{Action: ActionFire, Type: Yawn, Message: "wake up"}, got)
	require.Equal(t, DefaultWindow, d.Window())
}

// TestDebouncer_WindowBoundary verifies the elapsed-time rule is strict.
func TestDebouncer_WindowBoundary(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(nil, 5*time.Second)

	require.Equal(t, ActionFire, d.Observe(Yawn, at(0)).Action)
	require.Equal(t, ActionSuppress, d.Observe(Yawn, at(0)).Action)
	require.Equal(t, ActionSuppress, d.Observe(Yawn, at(5000)).Action)
	require.Equal(t, ActionFire, d.Observe(Yawn, at(5001)).Action)
}

// TestDebouncer_TypeSwitchAlwaysFires ensures a different type is never swallowed by another type's timer.
func TestDebouncer_TypeSwitchAlwaysFires(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(nil, time.Minute)

	require.Equal(t, ActionFire, d.Observe(Yawn, at(0)).Action)
	require.Equal(t, ActionFire, d.Observe(AbsentViolation, at(1000)).Action)
	require.Equal(t, ActionFire, d.Observe(Yawn, at(1500)).Action)
	require.Equal(t, ActionFire, d.Observe(AbsentViolation, at(2000)).Action)
}

// TestDebouncer_TimerResetOnlyBySameType checks other types' firings do not touch a type's timestamp.
func TestDebouncer_TimerResetOnlyBySameType(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(nil, 5*time.Second)

	d.Observe(Yawn, at(0))
	d.Observe(Drowsiness, at(1000))
	d.Observe(Drowsiness, at(2000))

	state := d.State()
	require.Equal(t, at(0), state.LastFiredAt[Yawn])
	require.Equal(t, at(1000), state.LastFiredAt[Drowsiness])
	require.Equal(t, Drowsiness, state.LastFired)
}

// TestDebouncer_StopOnlyOnce verifies repeated none observations stop exactly once.
func TestDebouncer_StopOnlyOnce(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(nil, 5*time.Second)

	require.Equal(t, ActionSuppress, d.Observe(None, at(0)).Action)
	require.Equal(t, ActionFire, d.Observe(CopyAttempt, at(100)).Action)
	require.Equal(t, ActionStopAll, d.Observe(None, at(200)).Action)
	require.Equal(t, ActionSuppress, d.Observe(None, at(300)).Action)
	require.Equal(t, ActionSuppress, d.Observe(None, at(400)).Action)

	state := d.State()
	require.False(t, state.Active)
	require.Equal(t, None, state.LastFired)
}

// TestDebouncer_RenewedAfterStop checks that a type fires again right after a stop.
func TestDebouncer_RenewedAfterStop(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(nil, 5*time.Second)

	require.Equal(t, ActionFire, d.Observe(Yawn, at(0)).Action)
	require.Equal(t, ActionStopAll, d.Observe(None, at(1000)).Action)
	require.Equal(t, ActionFire, d.Observe(Yawn, at(2000)).Action)
}

// TestDebouncer_UnknownTypeActsAsNone ensures unrecognized types never fire.
func TestDebouncer_UnknownTypeActsAsNone(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(nil, 5*time.Second)

	require.Equal(t, ActionSuppress, d.Observe(Type("tab_switch"), at(0)).Action)
	require.Equal(t, ActionFire, d.Observe(Yawn, at(100)).Action)
	require.Equal(t, ActionStopAll, d.Observe(Type("tab_switch"), at(200)).Action)
	require.Equal(t, ActionSuppress, d.Observe(Type("tab_switch"), at(300)).Action)
}

// TestDebouncer_AtMostOneActive drives a long mixed sequence and checks the single-active invariant.
func TestDebouncer_AtMostOneActive(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(nil, 3*time.Second)
	sequence := []Type{
		Yawn, Yawn, Drowsiness, None, None, CopyAttempt, Type("bogus"),
		GazeViolation, GazeViolation, GazeViolation, GazeViolation, SystemViolation, None,
	}

	var active Type

	for i, typ := range sequence {
		got := d.Observe(typ, at(int64(i)*1000))

		switch got.Action {
		case ActionFire:
			// A fire supersedes whatever was active.
			active = got.Type
		case ActionStopAll:
			require.NotEqual(t, None, active, "stop without active alert at step %d", i)

			active = None
		case ActionSuppress:
		}

		state := d.State()
		require.Equal(t, active != None, state.Active, "step %d", i)
	}
}

// TestState_Clone verifies that Clone does not share the timestamp map.
func TestState_Clone(t *testing.T) {
	t.Parallel()

	s := State{
		LastFired:   Yawn,
		LastFiredAt: map[Type]time.Time{Yawn: at(0)},
		Active:      true,
	}

	c := s.Clone()
	c.LastFiredAt[Yawn] = at(1)

	require.Equal(t, at(0), s.LastFiredAt[Yawn])
	require.Equal(t, s.LastFired, c.LastFired)
	require.True(t, c.Active)
}

// TestAction_String covers log names of the actions.
func TestAction_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "fire", ActionFire.String())
	require.Equal(t, "stop", ActionStopAll.String())
	require.Equal(t, "suppress", ActionSuppress.String())
}
