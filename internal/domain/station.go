package domain

// Station is a geographic node served by zero or more lines
type Station struct {
	ID       int
	Name     string
	Location Coordinate

	// Stops holds one entry per occurrence of the station on a line.
	// Set semantics: a stop appears at most once.
	Stops []*Stop
}

// NewStation creates a station without stops
func NewStation(id int, name string, location Coordinate) *Station {
	return &Station{
		ID:       id,
		Name:     name,
		Location: location,
		Stops:    make([]*Stop, 0),
	}
}

// HasStop reports whether stop is in the station's stop set
func (s *Station) HasStop(stop *Stop) bool {
	for _, st := range s.Stops {
		if st == stop {
			return true
		}
	}
	return false
}

// AddStop adds stop to the set, skipping it when already present
func (s *Station) AddStop(stop *Stop) {
	if s.HasStop(stop) {
		return
	}
	s.Stops = append(s.Stops, stop)
}

// RemoveStop removes stop from the set and reports whether it was present
func (s *Station) RemoveStop(stop *Stop) bool {
	for i, st := range s.Stops {
		if st == stop {
			s.Stops = append(s.Stops[:i], s.Stops[i+1:]...)
			return true
		}
	}
	return false
}

// Lines returns the distinct lines serving the station, in stop order
func (s *Station) Lines() []*Line {
	lines := make([]*Line, 0, len(s.Stops))
	seen := make(map[*Line]struct{}, len(s.Stops))
	for _, stop := range s.Stops {
		if stop.Line == nil {
			continue
		}
		if _, ok := seen[stop.Line]; ok {
			continue
		}
		seen[stop.Line] = struct{}{}
		lines = append(lines, stop.Line)
	}
	return lines
}
