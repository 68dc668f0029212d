package editor

import "metromaps/internal/domain"

// minStopsToClose is the shortest line a station may be closed on
const minStopsToClose = 3

// Closure describes an applied CloseStation
type Closure struct {
	Station *domain.Station
	Lines   []*domain.Line

	// StationRemoved is set when the station lost its last stop and was
	// dropped from the model.
	StationRemoved bool
}

// CloseStation removes station from every line in lines. A station left
// without stops is removed from the model.
//
// Nothing is changed when any line has fewer than three stops, does not
// serve the station, or is listed twice.
func CloseStation(model *domain.ModelData, station *domain.Station, lines []*domain.Line) *Closure {
	if model == nil || station == nil || len(lines) == 0 || hasDuplicateLines(lines) {
		return nil
	}

	for _, line := range lines {
		if len(line.Stops) < minStopsToClose {
			return nil
		}
		if domain.FindStop(line.Stops, station.Name) == -1 {
			return nil
		}
	}

	for _, line := range lines {
		i := domain.FindStop(line.Stops, station.Name)
		if i == -1 || len(line.Stops) < minStopsToClose {
			continue
		}
		stop := line.RemoveStopAt(i)
		station.RemoveStop(stop)
	}

	closure := &Closure{Station: station, Lines: lines}
	if len(station.Stops) == 0 {
		closure.StationRemoved = model.RemoveStation(station)
	}
	return closure
}
