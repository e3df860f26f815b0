package engine

import (
	"testing"
)

func TestStatsMiss(t *testing.T) {
	eng := newTestEngine(t)
	if _, ok := eng.Stats("DUSKY18"); ok {
		t.Fatal("stats should miss before any report")
	}
}

func TestStatsRollup(t *testing.T) {
	eng := newTestEngine(t)

	for _, feet := range []float64{10, 20, 30, 40, 50} {
		eng.Ingest(reportAt("DUSKY18", feet))
	}

	stats, ok := eng.Stats("DUSKY18")
	if !ok {
		t.Fatal("expected stats")
	}

	if stats.CallSign != "DUSKY18" {
		t.Errorf("call sign = %q, want DUSKY18", stats.CallSign)
	}
	if stats.Count != 5 {
		t.Errorf("count = %d, want 5", stats.Count)
	}
	if stats.MeanFeet != 30.00 {
		t.Errorf("mean = %v, want 30.00", stats.MeanFeet)
	}
	if stats.MaxFeet != 50.00 {
		t.Errorf("max = %v, want 50.00", stats.MaxFeet)
	}
	if stats.P50Feet != 30.00 {
		t.Errorf("p50 = %v, want 30.00", stats.P50Feet)
	}
	// Excess over 25: 5 + 15 + 25 = 45.
	if stats.CumulativeDevSum != 45.00 {
		t.Errorf("cumulative = %v, want 45.00", stats.CumulativeDevSum)
	}
}

func TestStatsExcludesDegradedReports(t *testing.T) {
	eng := newTestEngine(t)

	eng.Ingest(reportAt("DUSKY18", 30))
	// A report without coordinates lands in history but not in the
	// deviation rollup.
	eng.Ingest(&PositionReport{CallSign: "DUSKY18"})

	stats, ok := eng.Stats("DUSKY18")
	if !ok {
		t.Fatal("expected stats")
	}
	if stats.Count != 1 {
		t.Errorf("count = %d, want 1 (degraded report excluded)", stats.Count)
	}
	if stats.MaxFeet != 30.00 {
		t.Errorf("max = %v, want 30.00", stats.MaxFeet)
	}
}

func TestStatsAllDegraded(t *testing.T) {
	eng := newTestEngine(t)
	eng.Ingest(&PositionReport{CallSign: "DUSKY99"})

	stats, ok := eng.Stats("DUSKY99")
	if !ok {
		t.Fatal("expected stats for call sign with history")
	}
	if stats.Count != 0 || stats.MaxFeet != 0 {
		t.Errorf("stats = %+v, want zero rollup", stats)
	}
}
