package engine

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/fleetops-data/deviation.report/internal/geo"
)

// DeviationStats is a rollup of computed deviations for one call sign
// over the current history window (since the last reset).
type DeviationStats struct {
	CallSign         string  `json:"call_sign"`
	Count            int     `json:"count"`
	MeanFeet         float64 `json:"mean_feet"`
	MaxFeet          float64 `json:"max_feet"`
	P50Feet          float64 `json:"p50_feet"`
	P85Feet          float64 `json:"p85_feet"`
	P98Feet          float64 `json:"p98_feet"`
	CumulativeDevSum float64 `json:"cumulative_dev_sum"`
}

// Stats computes the deviation rollup for a call sign. The second
// return is false when the call sign has never reported. Reports that
// went through the degraded path (no deviation computed) are excluded
// from the quantiles but still counted in history.
func (e *Engine) Stats(callSign string) (DeviationStats, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reports, ok := e.history[callSign]
	if !ok {
		return DeviationStats{}, false
	}

	deviations := make([]float64, 0, len(reports))
	for _, r := range reports {
		if r.DeviationFeet != nil {
			deviations = append(deviations, *r.DeviationFeet)
		}
	}

	stats := DeviationStats{
		CallSign:         callSign,
		Count:            len(deviations),
		CumulativeDevSum: geo.Round2(e.devSums[callSign]),
	}
	if len(deviations) == 0 {
		return stats, true
	}

	sort.Float64s(deviations)
	stats.MeanFeet = geo.Round2(stat.Mean(deviations, nil))
	stats.MaxFeet = deviations[len(deviations)-1]
	stats.P50Feet = geo.Round2(stat.Quantile(0.50, stat.Empirical, deviations, nil))
	stats.P85Feet = geo.Round2(stat.Quantile(0.85, stat.Empirical, deviations, nil))
	stats.P98Feet = geo.Round2(stat.Quantile(0.98, stat.Empirical, deviations, nil))
	return stats, true
}
