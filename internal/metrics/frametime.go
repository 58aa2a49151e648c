// Package metrics tracks frame rendering statistics for the editor.
package metrics

import (
	"time"

	"github.com/VividCortex/ewma"
)

// FrameTimer keeps an exponentially weighted moving average of frame
// render times. All methods run on the single event-loop goroutine, so
// no locking is needed.
type FrameTimer struct {
	avg    ewma.MovingAverage
	frames int
	last   time.Duration
	max    time.Duration
}

// NewFrameTimer creates a frame timer with the default EWMA decay.
func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		avg: ewma.NewMovingAverage(),
	}
}

// Record adds one frame's render duration.
func (ft *FrameTimer) Record(d time.Duration) {
	ft.avg.Add(d.Seconds() * 1000)
	ft.frames++
	ft.last = d
	if d > ft.max {
		ft.max = d
	}
}

// AverageMs returns the moving-average frame time in milliseconds.
func (ft *FrameTimer) AverageMs() float64 {
	return ft.avg.Value()
}

// Frames returns how many frames have been recorded.
func (ft *FrameTimer) Frames() int {
	return ft.frames
}

// Last returns the most recent frame duration.
func (ft *FrameTimer) Last() time.Duration {
	return ft.last
}

// Max returns the slowest frame seen.
func (ft *FrameTimer) Max() time.Duration {
	return ft.max
}
