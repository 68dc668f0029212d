package domain

import (
	"errors"
	"fmt"
)

// MinLineStops is the minimum number of stops a line must keep
const MinLineStops = 2

// Validate checks the cross-link and identity invariants of the model and
// returns every violation found, joined.
func (m *ModelData) Validate() error {
	var errs []error

	lineIDs := make(map[int]string, len(m.Lines))
	for _, line := range m.Lines {
		if other, ok := lineIDs[line.ID]; ok {
			errs = append(errs, fmt.Errorf("line %q: id %d already used by line %q", line.Name, line.ID, other))
		}
		lineIDs[line.ID] = line.Name

		if len(line.Stops) < MinLineStops {
			errs = append(errs, fmt.Errorf("line %q: has %d stops, need at least %d", line.Name, len(line.Stops), MinLineStops))
		}
		for i, stop := range line.Stops {
			if stop.Line != line {
				errs = append(errs, fmt.Errorf("line %q: stop %d (%s) points at another line", line.Name, i, stop.StationName()))
			}
			if stop.Station == nil {
				errs = append(errs, fmt.Errorf("line %q: stop %d has no station", line.Name, i))
			}
		}
	}

	stationIDs := make(map[int]string, len(m.Stations))
	for _, station := range m.Stations {
		if other, ok := stationIDs[station.ID]; ok {
			errs = append(errs, fmt.Errorf("station %q: id %d already used by station %q", station.Name, station.ID, other))
		}
		stationIDs[station.ID] = station.Name

		for _, stop := range station.Stops {
			if stop.Station != station {
				errs = append(errs, fmt.Errorf("station %q: holds a stop of station %q", station.Name, stop.StationName()))
			}
		}
	}

	return errors.Join(errs...)
}
