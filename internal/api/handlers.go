package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/fleetops-data/deviation.report/internal/engine"
	"github.com/fleetops-data/deviation.report/internal/httputil"
	"github.com/fleetops-data/deviation.report/internal/monitoring"
)

// maxBodyBytes bounds intake payloads; a position report is a few
// hundred bytes in practice.
const maxBodyBytes = 1 << 20

// handleData serves the /data endpoint: POST ingests one report, GET
// returns the global latest slot.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.receiveData(w, r)
	case http.MethodGet:
		s.showLatest(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// receiveData validates, enriches, and records one position report.
// Nothing is mutated on a client input error.
func (s *Server) receiveData(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httputil.BadRequest(w, "failed to read request body")
		return
	}

	report, err := engine.ParseReport(body)
	if err != nil {
		httputil.BadRequest(w, "No JSON data received")
		return
	}

	outcome := s.engine.Ingest(report)

	var deviation float64
	if report.DeviationFeet != nil {
		deviation = *report.DeviationFeet
	}
	s.metrics.ObserveReport(report.CallSign, string(outcome), deviation)
	if outcome == engine.OutcomeSkipped {
		monitoring.Logf("report for %q stored without deviation (unknown call sign or missing coordinates)", report.CallSign)
	}

	httputil.WriteJSONOK(w, engine.Ack{
		Message:      "Data received and verified",
		CallSign:     report.CallSign,
		TimeMeasured: report.TimeMeasured,
	})
}

// showLatest returns the most recently ingested report from any drone.
// The slot is global: interleaved traffic leaves only the
// chronologically last report here.
func (s *Server) showLatest(w http.ResponseWriter, _ *http.Request) {
	report, ok := s.engine.Latest()
	if !ok {
		httputil.NotFound(w, "no reports received yet")
		return
	}
	httputil.WriteJSONOK(w, report)
}

// handleLatestFor returns the most recent report for one call sign.
// With no call sign in the path it falls back to the global slot.
func (s *Server) handleLatestFor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	callSign := strings.TrimPrefix(r.URL.Path, "/data/latest/")
	if callSign == "" {
		s.showLatest(w, r)
		return
	}
	report, ok := s.engine.LatestFor(callSign)
	if !ok {
		httputil.NotFound(w, "No data found for this call_sign")
		return
	}
	httputil.WriteJSONOK(w, report)
}

// handleHistory returns the full ordered history for one call sign, or
// 404 if the call sign has never reported (distinct from empty).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	callSign := strings.TrimPrefix(r.URL.Path, "/data/")
	reports, ok := s.engine.History(callSign)
	if !ok {
		httputil.NotFound(w, "No data found for this call_sign")
		return
	}
	httputil.WriteJSONOK(w, reports)
}

// handleReset clears the latest slots, all history, and every
// accumulator. Irreversible.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	s.engine.Reset()
	monitoring.Logf("history and accumulators reset")
	httputil.WriteJSONOK(w, map[string]string{"message": "history reset"})
}

// handleCallSigns lists the known fleet.
func (s *Server) handleCallSigns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string][]string{"call_signs": s.engine.CallSigns()})
}

// handleStats returns the deviation rollup for one call sign.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	callSign := strings.TrimPrefix(r.URL.Path, "/stats/")
	stats, ok := s.engine.Stats(callSign)
	if !ok {
		httputil.NotFound(w, "No data found for this call_sign")
		return
	}
	httputil.WriteJSONOK(w, stats)
}
