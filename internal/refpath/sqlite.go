package refpath

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// readSQLite reads waypoints from a SQLite source file. The file must
// hold a waypoints table with latitude, longitude, and altitude
// columns; rows with any NULL are dropped and insertion (rowid) order
// is preserved.
func readSQLite(path string) ([]Waypoint, error) {
	// sql.Open would happily create an empty database for a missing
	// file; a missing source must be a load error instead.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT latitude, longitude, altitude FROM waypoints ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query waypoints: %w", err)
	}
	defer rows.Close()

	var waypoints []Waypoint
	for rows.Next() {
		var lat, lon, alt sql.NullFloat64
		if err := rows.Scan(&lat, &lon, &alt); err != nil {
			return nil, fmt.Errorf("scan waypoint: %w", err)
		}
		if !lat.Valid || !lon.Valid || !alt.Valid {
			continue
		}
		waypoints = append(waypoints, Waypoint{
			Latitude:  lat.Float64,
			Longitude: lon.Float64,
			Altitude:  alt.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read waypoints: %w", err)
	}

	return waypoints, nil
}
