package refpath

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// readCSV reads a waypoint sheet with a header row naming at least
// Latitude, Longitude, and Altitude (case-insensitive). Rows with any
// of the three blank are dropped; row order is preserved. A non-blank
// cell that does not parse as a number makes the whole file malformed.
func readCSV(path string) ([]Waypoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	// Sheets exported from survey tools carry extra columns; only the
	// three recognized ones are read.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	latCol, lonCol, altCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "latitude":
			latCol = i
		case "longitude":
			lonCol = i
		case "altitude":
			altCol = i
		}
	}
	if latCol < 0 || lonCol < 0 || altCol < 0 {
		return nil, fmt.Errorf("header missing Latitude/Longitude/Altitude columns: %v", header)
	}

	var waypoints []Waypoint
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		lat, latOK, err := parseCell(record, latCol)
		if err != nil {
			return nil, fmt.Errorf("line %d: latitude: %w", line, err)
		}
		lon, lonOK, err := parseCell(record, lonCol)
		if err != nil {
			return nil, fmt.Errorf("line %d: longitude: %w", line, err)
		}
		alt, altOK, err := parseCell(record, altCol)
		if err != nil {
			return nil, fmt.Errorf("line %d: altitude: %w", line, err)
		}
		if !latOK || !lonOK || !altOK {
			continue
		}
		waypoints = append(waypoints, Waypoint{Latitude: lat, Longitude: lon, Altitude: alt})
	}

	return waypoints, nil
}

// parseCell returns the numeric value of a cell, whether it was
// present, and a parse error for non-blank garbage.
func parseCell(record []string, col int) (float64, bool, error) {
	if col >= len(record) {
		return 0, false, nil
	}
	cell := strings.TrimSpace(record[col])
	if cell == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse %q: %w", cell, err)
	}
	return v, true, nil
}
