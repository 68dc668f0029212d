package domain

// Stop is the occurrence of a station on one line
type Stop struct {
	Station *Station
	Line    *Line

	// Location overrides the station location when set
	Location *Coordinate
}

// NewStop creates a stop for station on line. The stop is not linked into
// either container.
func NewStop(station *Station, line *Line) *Stop {
	return &Stop{Station: station, Line: line}
}

// SetLocation sets the per-stop location override
func (s *Stop) SetLocation(c Coordinate) {
	s.Location = &c
}

// EffectiveLocation returns the stop override or, failing that, the station location
func (s *Stop) EffectiveLocation() Coordinate {
	if s.Location != nil {
		return *s.Location
	}
	if s.Station != nil {
		return s.Station.Location
	}
	return Coordinate{}
}

// StationName returns the name of the stop's station, or "" for a detached stop
func (s *Stop) StationName() string {
	if s.Station == nil {
		return ""
	}
	return s.Station.Name
}
