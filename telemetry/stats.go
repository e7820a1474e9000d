package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated per-effect statistics for a time window.
type WindowStats struct {
	Effect        string  `csv:"effect"`
	WindowEndTick int     `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Totals over the window
	Spawned int `csv:"spawned"`
	Dropped int `csv:"dropped"`
	Reaped  int `csv:"reaped"`

	// Live count distribution, sampled every frame
	LiveMean float64 `csv:"live_mean"`
	LiveStd  float64 `csv:"live_std"`
	LiveP50  float64 `csv:"live_p50"`
	LiveP90  float64 `csv:"live_p90"`
	LiveMax  int     `csv:"live_max"`

	// Pool pressure: dropped / (spawned + dropped)
	DropRate float64 `csv:"drop_rate"`

	// Update cost distribution in milliseconds
	UpdateMsMean float64 `csv:"update_ms_mean"`
	UpdateMsP95  float64 `csv:"update_ms_p95"`
	UpdateMsMax  float64 `csv:"update_ms_max"`
}

// summarize computes mean, std, and quantiles for a sample set. Quantile
// wants sorted input; the samples are copied so callers keep their order.
func summarize(values []float64) (mean, std, p50, p90, p95, max float64) {
	if len(values) == 0 {
		return
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	p95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	max = sorted[len(sorted)-1]
	return
}

// LogSummary writes the window to the default structured logger.
func (ws WindowStats) LogSummary() {
	slog.Info("telemetry window",
		"effect", ws.Effect,
		"tick", ws.WindowEndTick,
		"sim_time", ws.SimTimeSec,
		"spawned", ws.Spawned,
		"dropped", ws.Dropped,
		"reaped", ws.Reaped,
		"live_mean", ws.LiveMean,
		"live_max", ws.LiveMax,
		"drop_rate", ws.DropRate,
		"update_ms_p95", ws.UpdateMsP95,
	)
}
