package domain

// Line is an ordered route through stations
type Line struct {
	ID       int
	Name     string
	Color    string
	Circular bool
	Stops    []*Stop
}

// NewLine creates a line without stops
func NewLine(id int, name, color string, circular bool) *Line {
	return &Line{
		ID:       id,
		Name:     name,
		Color:    color,
		Circular: circular,
		Stops:    make([]*Stop, 0),
	}
}

// First returns the first terminal stop, or nil for an empty line
func (l *Line) First() *Stop {
	if len(l.Stops) == 0 {
		return nil
	}
	return l.Stops[0]
}

// Last returns the last terminal stop, or nil for an empty line
func (l *Line) Last() *Stop {
	if len(l.Stops) == 0 {
		return nil
	}
	return l.Stops[len(l.Stops)-1]
}

// IsTerminal reports whether station is the first or last station of the line
func (l *Line) IsTerminal(station *Station) bool {
	if len(l.Stops) == 0 || station == nil {
		return false
	}
	return l.First().Station == station || l.Last().Station == station
}

// StationNames returns the station names along the line, in order
func (l *Line) StationNames() []string {
	names := make([]string, len(l.Stops))
	for i, stop := range l.Stops {
		names[i] = stop.StationName()
	}
	return names
}

// Adopt re-homes stop onto the line: the stop is appended, its line pointer
// set, and it is (re-)added to its station's stop set.
func (l *Line) Adopt(stop *Stop) {
	stop.Line = l
	l.Stops = append(l.Stops, stop)
	if stop.Station != nil {
		stop.Station.AddStop(stop)
	}
}

// RemoveStopAt removes the stop at index i from the line sequence only
func (l *Line) RemoveStopAt(i int) *Stop {
	stop := l.Stops[i]
	l.Stops = append(l.Stops[:i], l.Stops[i+1:]...)
	return stop
}
