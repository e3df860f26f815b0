// Package engine implements the flight-path deviation engine: it
// enriches incoming position reports with lateral deviation from the
// drone's reference path, maintains the per-call-sign penalty
// accumulator, and owns all report state (history, latest slots).
package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fleetops-data/deviation.report/internal/geo"
	"github.com/fleetops-data/deviation.report/internal/refpath"
	"github.com/fleetops-data/deviation.report/internal/timeutil"
)

// DefaultThresholdFeet is the deviation tolerance below which no
// penalty accrues.
const DefaultThresholdFeet = 25.0

// Outcome classifies what the engine did with an ingested report.
type Outcome string

const (
	// OutcomeEnriched: known call sign with full coordinates; the
	// report carries deviation fields.
	OutcomeEnriched Outcome = "enriched"
	// OutcomeSkipped: call sign present but unknown, or coordinates
	// missing; the report is stored without deviation fields.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNoCallSign: no call sign; the report only lands in the
	// global latest slot.
	OutcomeNoCallSign Outcome = "no_call_sign"
)

// Engine is the single-instance service object owning all mutable
// report state. One mutex guards the latest slots, history, and
// accumulators so each ingest is one atomic unit; without it,
// concurrent reports would lose accumulator updates.
type Engine struct {
	paths     *refpath.Store
	clock     timeutil.Clock
	threshold float64

	mu       sync.Mutex
	latest   *PositionReport
	latestBy map[string]*PositionReport
	history  map[string][]*PositionReport
	devSums  map[string]float64
}

// New constructs an engine around a loaded reference path store. A nil
// clock falls back to the real one.
func New(paths *refpath.Store, clock timeutil.Clock, thresholdFeet float64) *Engine {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Engine{
		paths:     paths,
		clock:     clock,
		threshold: thresholdFeet,
		latestBy:  make(map[string]*PositionReport),
		history:   make(map[string][]*PositionReport),
		devSums:   make(map[string]float64),
	}
}

// Ingest enriches and records one report. The report must come from
// ParseReport and is not mutated after Ingest returns.
//
// The global latest slot is overwritten by every report regardless of
// call sign; interleaved traffic from different drones leaves only the
// chronologically last one there. The per-call-sign latest slots exist
// for that reason.
func (e *Engine) Ingest(report *PositionReport) Outcome {
	report.ID = uuid.New().String()
	report.ReceivedAt = e.clock.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	outcome := OutcomeSkipped
	line, known := e.paths.Path(report.CallSign)
	if known && report.HasCoordinates() {
		pt := geo.Point{Lon: *report.Position.Longitude, Lat: *report.Position.Latitude}
		deviation := geo.Round2(geo.DegreesToFeet(line.DistanceDegrees(pt)))
		report.DeviationFeet = &deviation

		// Only the excess above the tolerance accumulates. The sum is
		// unbounded until an explicit reset.
		if deviation > e.threshold {
			e.devSums[report.CallSign] += deviation - e.threshold
		}
		cumulative := geo.Round2(e.devSums[report.CallSign])
		report.CumulativeDevSum = &cumulative
		outcome = OutcomeEnriched
	}

	if report.CallSign != "" {
		e.history[report.CallSign] = append(e.history[report.CallSign], report)
		e.latestBy[report.CallSign] = report
	} else {
		outcome = OutcomeNoCallSign
	}
	e.latest = report

	return outcome
}

// Latest returns the most recently ingested report overall, from any
// drone. The second return is false until the first report arrives.
func (e *Engine) Latest() (*PositionReport, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest, e.latest != nil
}

// LatestFor returns the most recent report for one call sign.
func (e *Engine) LatestFor(callSign string) (*PositionReport, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	report, ok := e.latestBy[callSign]
	return report, ok
}

// History returns the full ordered history for a call sign. The second
// return is false when the call sign has never reported, which is
// distinct from an empty list.
func (e *Engine) History(callSign string) ([]*PositionReport, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	reports, ok := e.history[callSign]
	if !ok {
		return nil, false
	}
	out := make([]*PositionReport, len(reports))
	copy(out, reports)
	return out, true
}

// CumulativeDevSum returns the current rounded accumulator value for a
// call sign. Call signs that never exceeded the threshold read 0.
func (e *Engine) CumulativeDevSum(callSign string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return geo.Round2(e.devSums[callSign])
}

// Reset clears the latest slots, all history, and every accumulator as
// one atomic operation. It is the only way accumulator values decrease.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.latest = nil
	e.latestBy = make(map[string]*PositionReport)
	e.history = make(map[string][]*PositionReport)
	e.devSums = make(map[string]float64)
}

// CallSigns returns the known fleet in sorted order.
func (e *Engine) CallSigns() []string {
	return e.paths.CallSigns()
}

// Known reports whether a call sign has a reference path.
func (e *Engine) Known(callSign string) bool {
	return e.paths.Known(callSign)
}
