package domain

// ModelData is the root aggregate of a metro map
type ModelData struct {
	Lines    []*Line
	Stations []*Station
}

// NewModelData creates an empty model
func NewModelData() *ModelData {
	return &ModelData{
		Lines:    make([]*Line, 0),
		Stations: make([]*Station, 0),
	}
}

// AddStation appends a station to the model
func (m *ModelData) AddStation(station *Station) {
	m.Stations = append(m.Stations, station)
}

// AddLine appends a line to the model
func (m *ModelData) AddLine(line *Line) {
	m.Lines = append(m.Lines, line)
}

// RemoveLine removes line from the model and reports whether it was present.
// The line's stops are left untouched.
func (m *ModelData) RemoveLine(line *Line) bool {
	for i, l := range m.Lines {
		if l == line {
			m.Lines = append(m.Lines[:i], m.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveStation removes station from the model and reports whether it was present
func (m *ModelData) RemoveStation(station *Station) bool {
	for i, s := range m.Stations {
		if s == station {
			m.Stations = append(m.Stations[:i], m.Stations[i+1:]...)
			return true
		}
	}
	return false
}

// Link appends a new stop for station at the end of line, registering it on
// both sides. The stop location is copied from the station.
func (m *ModelData) Link(line *Line, station *Station) *Stop {
	stop := NewStop(station, line)
	stop.SetLocation(station.Location)
	line.Stops = append(line.Stops, stop)
	station.AddStop(stop)
	return stop
}

// Station returns the first station named name, or nil
func (m *ModelData) Station(name string) *Station {
	return FindStation(m.Stations, name)
}

// Line returns the first line named name, or nil
func (m *ModelData) Line(name string) *Line {
	return FindLine(m.Lines, name)
}

// StationByID returns the station with the given id, or nil
func (m *ModelData) StationByID(id int) *Station {
	for _, s := range m.Stations {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// LineNames returns the names of all lines in model order
func (m *ModelData) LineNames() []string {
	names := make([]string, len(m.Lines))
	for i, l := range m.Lines {
		names[i] = l.Name
	}
	return names
}

// StationNames returns the names of all stations in model order
func (m *ModelData) StationNames() []string {
	names := make([]string, len(m.Stations))
	for i, s := range m.Stations {
		names[i] = s.Name
	}
	return names
}
