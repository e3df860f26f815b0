// Package refpath loads reference flight paths from tabular sources
// into an immutable in-memory store keyed by drone call sign.
//
// The store is built once at startup. Any missing or malformed source
// is a load error: the fleet cannot operate without path data, so
// there is no partial or lazy fallback.
package refpath

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fleetops-data/deviation.report/internal/geo"
	"github.com/fleetops-data/deviation.report/internal/security"
)

// Waypoint is one row of a reference path source. Altitude is loaded
// and validated but not used in deviation math.
type Waypoint struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// Store maps call signs to their reference polylines. Read-only after
// Load returns.
type Store struct {
	paths map[string]geo.Polyline
}

// Load reads one tabular source per call sign from dir and builds the
// store. The loader is chosen by file extension: .csv for CSV sheets,
// .db or .sqlite for SQLite waypoint tables.
func Load(dir string, sources map[string]string) (*Store, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no reference path sources configured")
	}

	paths := make(map[string]geo.Polyline, len(sources))
	for callSign, name := range sources {
		full := filepath.Join(dir, name)

		// Source names come from configuration; a name like
		// "../secrets.csv" must not read outside the path directory.
		if err := security.ValidatePathWithinDirectory(full, dir); err != nil {
			return nil, fmt.Errorf("reference path for %s: %w", callSign, err)
		}

		var waypoints []Waypoint
		var err error
		switch strings.ToLower(filepath.Ext(name)) {
		case ".csv":
			waypoints, err = readCSV(full)
		case ".db", ".sqlite":
			waypoints, err = readSQLite(full)
		default:
			err = fmt.Errorf("unsupported source format %q", filepath.Ext(name))
		}
		if err != nil {
			return nil, fmt.Errorf("reference path for %s: %w", callSign, err)
		}

		// Paths are stored as (longitude, latitude) polylines; the
		// same axis order is used when projecting live positions.
		points := make([]geo.Point, len(waypoints))
		for i, wp := range waypoints {
			points[i] = geo.Point{Lon: wp.Longitude, Lat: wp.Latitude}
		}
		line, err := geo.NewPolyline(points)
		if err != nil {
			return nil, fmt.Errorf("reference path for %s: %w", callSign, err)
		}
		paths[callSign] = line
	}

	return &Store{paths: paths}, nil
}

// FromPolylines builds a store directly from in-memory polylines.
// Production code loads from tabular sources via Load; this is for
// tests and embedders that already hold path geometry.
func FromPolylines(paths map[string]geo.Polyline) *Store {
	copied := make(map[string]geo.Polyline, len(paths))
	for cs, line := range paths {
		copied[cs] = line
	}
	return &Store{paths: copied}
}

// Path returns the reference polyline for a call sign, and whether the
// call sign is known to the store.
func (s *Store) Path(callSign string) (geo.Polyline, bool) {
	line, ok := s.paths[callSign]
	return line, ok
}

// Known reports whether the call sign has a reference path.
func (s *Store) Known(callSign string) bool {
	_, ok := s.paths[callSign]
	return ok
}

// CallSigns returns the known call signs in sorted order.
func (s *Store) CallSigns() []string {
	out := make([]string, 0, len(s.paths))
	for cs := range s.paths {
		out = append(out, cs)
	}
	sort.Strings(out)
	return out
}
