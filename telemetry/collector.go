// Package telemetry aggregates per-frame particle system activity into
// windowed statistics and writes them to CSV for offline analysis.
package telemetry

import (
	"time"

	"github.com/pthm-cable/ember/particle"
)

// Collector accumulates one effect's frame records within time windows and
// produces WindowStats. One collector per system; not goroutine-safe.
type Collector struct {
	effect              string
	windowDurationTicks int
	dt                  float32

	windowStartTick int

	spawned int
	dropped int
	reaped  int

	liveSamples   []float64
	updateSamples []float64 // milliseconds
}

// NewCollector creates a stats collector for one named effect.
// windowDurationSec is the window span in simulation seconds, dt the
// seconds per tick.
func NewCollector(effect string, windowDurationSec float64, dt float32) *Collector {
	ticks := int(windowDurationSec / float64(dt))
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{
		effect:              effect,
		windowDurationTicks: ticks,
		dt:                  dt,
		liveSamples:         make([]float64, 0, ticks),
		updateSamples:       make([]float64, 0, ticks),
	}
}

// RecordFrame records one Update's outcome: its frame stats, the live
// count after the update, and how long the update took.
func (c *Collector) RecordFrame(fs particle.FrameStats, live int, elapsed time.Duration) {
	c.spawned += fs.Spawned
	c.dropped += fs.Dropped
	c.reaped += fs.Reaped
	c.liveSamples = append(c.liveSamples, float64(live))
	c.updateSamples = append(c.updateSamples, float64(elapsed.Nanoseconds())/1e6)
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats for the finished window and resets the
// counters for the next one.
func (c *Collector) Flush(currentTick int) WindowStats {
	ws := WindowStats{
		Effect:        c.effect,
		WindowEndTick: currentTick,
		SimTimeSec:    float64(currentTick) * float64(c.dt),
		Spawned:       c.spawned,
		Dropped:       c.dropped,
		Reaped:        c.reaped,
	}

	var liveMax float64
	ws.LiveMean, ws.LiveStd, ws.LiveP50, ws.LiveP90, _, liveMax = summarize(c.liveSamples)
	ws.LiveMax = int(liveMax)
	ws.UpdateMsMean, _, _, _, ws.UpdateMsP95, ws.UpdateMsMax = summarize(c.updateSamples)

	if total := c.spawned + c.dropped; total > 0 {
		ws.DropRate = float64(c.dropped) / float64(total)
	}

	c.windowStartTick = currentTick
	c.spawned = 0
	c.dropped = 0
	c.reaped = 0
	c.liveSamples = c.liveSamples[:0]
	c.updateSamples = c.updateSamples[:0]

	return ws
}
