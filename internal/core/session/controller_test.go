package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/tick"
)

type recordingNotifier struct {
	calls [][2]Phase
	err   error
}

func (notifier *recordingNotifier) PhaseComplete(completed, next Phase) error {
	notifier.calls = append(notifier.calls, [2]Phase{completed, next})
	return notifier.err
}

func newTestController(t *testing.T, boundary BoundaryMode) (*Controller, *tick.Manual, *recordingNotifier) {
	t.Helper()
	ticks := &tick.Manual{}
	notifier := &recordingNotifier{}
	controller := New(model.DefaultSessionConfig(), Options{
		Ticks:    ticks,
		Notifier: notifier,
		Boundary: boundary,
	})
	t.Cleanup(controller.Close)
	return controller, ticks, notifier
}

func TestNew_StartsIdle(t *testing.T) {
	controller, ticks, _ := newTestController(t, BoundaryOriginal)

	snap := controller.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.Active())
	assert.Empty(t, snap.SessionID)
	assert.Equal(t, model.SessionConfig{FocusMinutes: 25, BreakMinutes: 5}, snap.Config)
	assert.False(t, ticks.Enabled())
}

func TestNew_NormalizesConfig(t *testing.T) {
	controller := New(model.SessionConfig{FocusMinutes: 3, BreakMinutes: 40}, Options{})
	defer controller.Close()

	assert.Equal(t, model.SessionConfig{FocusMinutes: 5, BreakMinutes: 15}, controller.Snapshot().Config)
}

// Scenario A.
func TestToggleRun_StartsFocusSession(t *testing.T) {
	controller, ticks, _ := newTestController(t, BoundaryOriginal)

	controller.ToggleRun()
	snap := controller.Snapshot()
	assert.Equal(t, StateRunning, snap.State)
	assert.Equal(t, PhaseFocusing, snap.Phase)
	assert.Equal(t, 1500, snap.Remaining)
	assert.Equal(t, 25, snap.PhaseMinutes)
	assert.Zero(t, snap.Progress)
	assert.NotEmpty(t, snap.SessionID)
	assert.True(t, ticks.Enabled())
	assert.Equal(t, time.Second, ticks.Cadence())

	require.Equal(t, 1, ticks.Fire(1))
	snap = controller.Snapshot()
	assert.Equal(t, PhaseFocusing, snap.Phase)
	assert.Equal(t, 1499, snap.Remaining)
	assert.InDelta(t, 0.0667, snap.Progress, 0.001)
}

// Scenario B.
func TestTick_PhaseTransitionKeepsOffByOne(t *testing.T) {
	controller, ticks, notifier := newTestController(t, BoundaryOriginal)
	controller.ToggleRun()

	ticks.Fire(1500)
	snap := controller.Snapshot()
	require.Equal(t, 0, snap.Remaining)
	assert.Equal(t, PhaseFocusing, snap.Phase)
	assert.InDelta(t, 100, snap.Progress, 0.0001)
	assert.Empty(t, notifier.calls)

	ticks.Fire(1)
	snap = controller.Snapshot()
	assert.Equal(t, PhaseOnBreak, snap.Phase)
	assert.Equal(t, 5*60-1, snap.Remaining)
	assert.Equal(t, 5, snap.PhaseMinutes)
	assert.Equal(t, [][2]Phase{{PhaseFocusing, PhaseOnBreak}}, notifier.calls)
}

func TestTick_NormalizedBoundaryStartsAtFullDuration(t *testing.T) {
	controller, ticks, notifier := newTestController(t, BoundaryNormalized)
	controller.ToggleRun()

	ticks.Fire(1501)
	snap := controller.Snapshot()
	assert.Equal(t, PhaseOnBreak, snap.Phase)
	assert.Equal(t, 5*60, snap.Remaining)
	assert.Zero(t, snap.Progress)
	assert.Len(t, notifier.calls, 1)

	ticks.Fire(1)
	assert.Equal(t, 5*60-1, controller.Snapshot().Remaining)
}

func TestTick_CyclesBackToFocus(t *testing.T) {
	controller, ticks, notifier := newTestController(t, BoundaryOriginal)
	controller.ToggleRun()

	// 1500 to reach zero, one to switch, 299 to drain the break, one to switch back
	ticks.Fire(1500 + 1 + 299 + 1)
	snap := controller.Snapshot()
	assert.Equal(t, PhaseFocusing, snap.Phase)
	assert.Equal(t, 1499, snap.Remaining)
	assert.Equal(t, [][2]Phase{
		{PhaseFocusing, PhaseOnBreak},
		{PhaseOnBreak, PhaseFocusing},
	}, notifier.calls)
}

func TestTick_NewPhaseGetsNewSessionID(t *testing.T) {
	controller, ticks, _ := newTestController(t, BoundaryOriginal)
	controller.ToggleRun()
	first := controller.Snapshot().SessionID

	ticks.Fire(1501)
	assert.NotEqual(t, first, controller.Snapshot().SessionID)
}

func TestTick_NotifierErrorDoesNotAffectState(t *testing.T) {
	controller, ticks, notifier := newTestController(t, BoundaryOriginal)
	notifier.err = errors.New("playback rejected")
	controller.ToggleRun()

	ticks.Fire(1501)
	snap := controller.Snapshot()
	assert.Equal(t, PhaseOnBreak, snap.Phase)
	assert.Equal(t, 299, snap.Remaining)
	assert.Equal(t, StateRunning, snap.State)
}

func TestTick_NotifierPanicIsContained(t *testing.T) {
	ticks := &tick.Manual{}
	controller := New(model.DefaultSessionConfig(), Options{
		Ticks: ticks,
		Notifier: NotifierFunc(func(Phase, Phase) error {
			panic("no audio device")
		}),
	})
	defer controller.Close()
	controller.ToggleRun()

	assert.NotPanics(t, func() { ticks.Fire(1501) })
	assert.Equal(t, PhaseOnBreak, controller.Snapshot().Phase)
}

func TestTick_IgnoredWhenNotRunning(t *testing.T) {
	controller, _, notifier := newTestController(t, BoundaryOriginal)

	controller.Tick()
	assert.Equal(t, StateIdle, controller.Snapshot().State)

	controller.ToggleRun()
	controller.ToggleRun()
	before := controller.Snapshot()
	controller.Tick()
	assert.Equal(t, before.Remaining, controller.Snapshot().Remaining)
	assert.Empty(t, notifier.calls)
}

// Scenario C.
func TestToggleRun_PauseFreezesSession(t *testing.T) {
	controller, ticks, _ := newTestController(t, BoundaryOriginal)
	controller.ToggleRun()
	ticks.Fire(10)

	controller.ToggleRun()
	snap := controller.Snapshot()
	assert.Equal(t, StatePaused, snap.State)
	assert.True(t, snap.Active())
	assert.Equal(t, 1490, snap.Remaining)
	assert.False(t, ticks.Enabled())

	assert.Equal(t, 0, ticks.Fire(5))
	assert.Equal(t, 1490, controller.Snapshot().Remaining)

	controller.ToggleRun()
	snap = controller.Snapshot()
	assert.Equal(t, StateRunning, snap.State)
	assert.Equal(t, 1490, snap.Remaining)
	assert.True(t, ticks.Enabled())
}

func TestToggleRun_TwiceWithoutTickReturnsToStart(t *testing.T) {
	controller, ticks, _ := newTestController(t, BoundaryOriginal)

	controller.ToggleRun()
	id := controller.Snapshot().SessionID
	controller.ToggleRun()
	snap := controller.Snapshot()
	assert.Equal(t, StatePaused, snap.State)
	assert.Equal(t, 1500, snap.Remaining)

	controller.ToggleRun()
	ticks.Fire(3)
	controller.ToggleRun()
	snap = controller.Snapshot()
	assert.Equal(t, 1497, snap.Remaining)
	assert.Equal(t, id, snap.SessionID)
}

func TestStop_FromAnyState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Controller, *tick.Manual)
	}{
		{name: "idle", setup: func(*Controller, *tick.Manual) {}},
		{name: "running", setup: func(c *Controller, ticks *tick.Manual) {
			c.ToggleRun()
			ticks.Fire(42)
		}},
		{name: "paused", setup: func(c *Controller, ticks *tick.Manual) {
			c.ToggleRun()
			ticks.Fire(42)
			c.ToggleRun()
		}},
		{name: "on break", setup: func(c *Controller, ticks *tick.Manual) {
			c.ToggleRun()
			ticks.Fire(1600)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, ticks, _ := newTestController(t, BoundaryOriginal)
			tt.setup(controller, ticks)

			controller.Stop()
			snap := controller.Snapshot()
			assert.Equal(t, StateIdle, snap.State)
			assert.Empty(t, snap.SessionID)
			assert.Zero(t, snap.Remaining)
			assert.False(t, ticks.Enabled())
		})
	}
}

// Scenario D.
func TestAdjustFocus(t *testing.T) {
	controller, _, _ := newTestController(t, BoundaryOriginal)

	controller.AdjustFocus(5)
	assert.Equal(t, 30, controller.Snapshot().Config.FocusMinutes)

	controller.ToggleRun()
	controller.AdjustFocus(5)
	controller.AdjustBreak(1)
	snap := controller.Snapshot()
	assert.Equal(t, 30, snap.Config.FocusMinutes)
	assert.Equal(t, 5, snap.Config.BreakMinutes)
	controller.Stop()

	controller.AdjustFocus(30)
	controller.AdjustFocus(100)
	assert.Equal(t, 60, controller.Snapshot().Config.FocusMinutes)

	controller.AdjustFocus(-100)
	assert.Equal(t, 5, controller.Snapshot().Config.FocusMinutes)
}

func TestAdjust_ClampedForAnyDelta(t *testing.T) {
	controller, _, _ := newTestController(t, BoundaryOriginal)

	for delta := -70; delta <= 70; delta++ {
		controller.AdjustFocus(delta)
		controller.AdjustBreak(delta)
		snap := controller.Snapshot()
		assert.GreaterOrEqual(t, snap.Config.FocusMinutes, 5)
		assert.LessOrEqual(t, snap.Config.FocusMinutes, 60)
		assert.Zero(t, snap.Config.FocusMinutes%5)
		assert.GreaterOrEqual(t, snap.Config.BreakMinutes, 1)
		assert.LessOrEqual(t, snap.Config.BreakMinutes, 15)
	}
}

func TestAdjust_WhilePausedAppliesAtNextPhase(t *testing.T) {
	controller, ticks, _ := newTestController(t, BoundaryOriginal)
	controller.ToggleRun()
	ticks.Fire(100)
	controller.ToggleRun()

	controller.AdjustBreak(5)
	controller.AdjustFocus(-20)
	snap := controller.Snapshot()
	assert.Equal(t, 1400, snap.Remaining, "allocated time is untouched")
	assert.Equal(t, 5, snap.PhaseMinutes)
	assert.Equal(t, float64(0), snap.Progress, "progress clamps when the phase shrank")

	controller.ToggleRun()
	ticks.Fire(1400 + 1)
	snap = controller.Snapshot()
	assert.Equal(t, PhaseOnBreak, snap.Phase)
	assert.Equal(t, 10*60-1, snap.Remaining)
}

// Scenario E.
func TestStop_ThenStartUsesConfiguredDuration(t *testing.T) {
	controller, ticks, _ := newTestController(t, BoundaryOriginal)
	controller.ToggleRun()
	ticks.Fire(300)

	controller.Stop()
	controller.AdjustFocus(10)
	controller.ToggleRun()

	snap := controller.Snapshot()
	assert.Equal(t, PhaseFocusing, snap.Phase)
	assert.Equal(t, 35*60, snap.Remaining)
}

func TestProgress_MonotonicWithinPhase(t *testing.T) {
	ticks := &tick.Manual{}
	controller := New(model.SessionConfig{FocusMinutes: 5, BreakMinutes: 1}, Options{Ticks: ticks})
	defer controller.Close()
	controller.ToggleRun()

	last := controller.Snapshot()
	resets := 0
	for i := 0; i < 1000; i++ {
		ticks.Fire(1)
		snap := controller.Snapshot()
		assert.GreaterOrEqual(t, snap.Progress, float64(0))
		assert.LessOrEqual(t, snap.Progress, float64(100))
		if snap.Phase == last.Phase {
			assert.GreaterOrEqual(t, snap.Progress, last.Progress)
		} else {
			resets++
			assert.Less(t, snap.Progress, last.Progress)
		}
		last = snap
	}
	assert.Greater(t, resets, 0)
}

func TestSubscribe_ReceivesEvents(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ticks := &tick.Manual{}
	controller := New(model.SessionConfig{FocusMinutes: 5, BreakMinutes: 1}, Options{
		Ticks: ticks,
		Now:   func() time.Time { return now },
	})
	events := controller.Subscribe(16)

	controller.ToggleRun()
	event := <-events
	assert.Equal(t, EventStateChange, event.Type)
	assert.Equal(t, StateRunning, event.Snapshot.State)
	assert.Equal(t, now, event.At)

	ticks.Fire(1)
	event = <-events
	assert.Equal(t, EventTick, event.Type)
	assert.Equal(t, 299, event.Snapshot.Remaining)

	controller.ToggleRun()
	controller.AdjustBreak(2)
	assert.Equal(t, EventStateChange, (<-events).Type)
	event = <-events
	assert.Equal(t, EventConfigChange, event.Type)
	assert.Equal(t, 3, event.Snapshot.Config.BreakMinutes)

	controller.Close()
	_, ok := <-events
	assert.False(t, ok)
}

func TestSubscribe_PhaseChangeEvent(t *testing.T) {
	ticks := &tick.Manual{}
	controller := New(model.SessionConfig{FocusMinutes: 5, BreakMinutes: 1}, Options{Ticks: ticks})
	defer controller.Close()
	controller.ToggleRun()
	ticks.Fire(300)

	events := controller.Subscribe(4)
	ticks.Fire(1)

	event := <-events
	assert.Equal(t, EventPhaseChange, event.Type)
	assert.Equal(t, PhaseFocusing, event.Completed)
	assert.Equal(t, PhaseOnBreak, event.Snapshot.Phase)
	assert.Equal(t, EventTick, (<-events).Type)
}

func TestSubscribe_SlowObserverDoesNotBlock(t *testing.T) {
	controller, ticks, _ := newTestController(t, BoundaryOriginal)
	_ = controller.Subscribe(1)

	controller.ToggleRun()
	done := make(chan struct{})
	go func() {
		ticks.Fire(50)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticks blocked on a full observer")
	}
	assert.Equal(t, 1450, controller.Snapshot().Remaining)
}

func TestClose_IgnoresLaterCommands(t *testing.T) {
	controller, ticks, _ := newTestController(t, BoundaryOriginal)
	controller.ToggleRun()
	controller.Close()

	controller.ToggleRun()
	controller.AdjustFocus(5)
	assert.False(t, ticks.Enabled())
	assert.Equal(t, 25, controller.Snapshot().Config.FocusMinutes)

	_, ok := <-controller.Subscribe(1)
	assert.False(t, ok)
}

func TestParseBoundary(t *testing.T) {
	mode, err := ParseBoundary("")
	require.NoError(t, err)
	assert.Equal(t, BoundaryOriginal, mode)

	mode, err = ParseBoundary("normalized")
	require.NoError(t, err)
	assert.Equal(t, BoundaryNormalized, mode)

	_, err = ParseBoundary("sideways")
	assert.Error(t, err)
}

func TestPhase(t *testing.T) {
	config := model.SessionConfig{FocusMinutes: 40, BreakMinutes: 8}
	assert.Equal(t, "Focusing", PhaseFocusing.String())
	assert.Equal(t, "On Break", PhaseOnBreak.String())
	assert.Equal(t, PhaseOnBreak, PhaseFocusing.Next())
	assert.Equal(t, PhaseFocusing, PhaseOnBreak.Next())
	assert.Equal(t, 40, PhaseFocusing.Minutes(config))
	assert.Equal(t, 8, PhaseOnBreak.Minutes(config))
}
