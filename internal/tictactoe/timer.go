package tictactoe

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

// Timer counts whole seconds since the first move of a round. It owns no
// goroutine: elapsed time only advances when Tick is called.
type Timer struct {
	elapsed   int
	startedAt time.Time
}

// Start records the first-move reference. It is a no-op while running.
func (that *Timer) Start(now time.Time) {
	if that.IsRunning() {
		return
	}

	that.startedAt = now
}

// Tick advances elapsed time to now. Stale or repeated references never move
// it backwards. Reports whether the elapsed seconds changed.
func (that *Timer) Tick(now time.Time) bool {
	if !that.IsRunning() {
		return false
	}

	delta := now.Sub(that.startedAt)
	if delta < 0 {
		return false
	}

	seconds := int(delta / time.Second)
	if seconds <= that.elapsed {
		return false
	}

	that.elapsed = seconds

	return true
}

// Stop freezes the timer after a final tick. Safe to call when already stopped.
func (that *Timer) Stop(now time.Time) {
	that.Tick(now)
	that.startedAt = time.Time{}
}

func (that *Timer) Reset() {
	that.elapsed = 0
	that.startedAt = time.Time{}
}

func (that *Timer) IsRunning() bool {
	return !that.startedAt.IsZero()
}

func (that *Timer) Elapsed() int {
	return that.elapsed
}

func (that *Timer) State() entity.TimerState {
	state := entity.TimerState{ElapsedSeconds: that.elapsed}
	if that.IsRunning() {
		state.StartedAt = that.startedAt.UnixMilli()
	}

	return state
}

func (that *Timer) restore(state entity.TimerState) {
	that.elapsed = state.ElapsedSeconds
	that.startedAt = time.Time{}

	if state.StartedAt > 0 {
		that.startedAt = time.UnixMilli(state.StartedAt)
	}
}

// FormatElapsed renders seconds as MM:SS, or H:MM:SS from one hour on.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := seconds / 3600
	minutes := seconds % 3600 / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}

	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
