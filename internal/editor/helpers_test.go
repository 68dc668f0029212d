package editor

import (
	"sort"
	"strings"
	"testing"

	"metromaps/internal/domain"
)

// lineSpec describes a line as "A-B-C"
type lineSpec struct {
	id    int
	name  string
	route string
}

// buildModel creates stations in order of first appearance and links every
// line through them.
func buildModel(t *testing.T, specs ...lineSpec) *domain.ModelData {
	t.Helper()
	m := domain.NewModelData()
	for _, spec := range specs {
		line := domain.NewLine(spec.id, spec.name, "#FF5733", false)
		for _, name := range strings.Split(spec.route, "-") {
			station := m.Station(name)
			if station == nil {
				n := len(m.Stations)
				station = domain.NewStation(n, name, domain.NewCoordinate(47.49+float64(n)/100, 19.06))
				m.AddStation(station)
			}
			m.Link(line, station)
		}
		m.AddLine(line)
	}
	assertConsistent(t, m)
	return m
}

func stations(m *domain.ModelData, names ...string) []*domain.Station {
	out := make([]*domain.Station, len(names))
	for i, name := range names {
		out[i] = m.Station(name)
	}
	return out
}

func lines(m *domain.ModelData, names ...string) []*domain.Line {
	out := make([]*domain.Line, len(names))
	for i, name := range names {
		out[i] = m.Line(name)
	}
	return out
}

// assertRoutes checks the exact set of lines and their routes
func assertRoutes(t *testing.T, m *domain.ModelData, want map[string]string) {
	t.Helper()
	got := make(map[string]string, len(m.Lines))
	for _, line := range m.Lines {
		got[line.Name] = strings.Join(line.StationNames(), "-")
	}
	if len(got) != len(m.Lines) {
		t.Errorf("duplicate line names in %v", m.LineNames())
	}
	if len(got) != len(want) {
		t.Errorf("expected %d lines, got %d: %v", len(want), len(got), got)
	}
	for name, route := range want {
		if got[name] != route {
			t.Errorf("line %s: expected %s, got %q", name, route, got[name])
		}
	}
}

// assertStations checks the exact set of station names in the model
func assertStations(t *testing.T, m *domain.ModelData, want ...string) {
	t.Helper()
	got := m.StationNames()
	sort.Strings(got)
	sort.Strings(want)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected stations %v, got %v", want, got)
	}
}

// assertConsistent checks the model invariants plus the reverse links:
// every stop of a line is registered at its station, and every stop held by
// a station is on a line of the model.
func assertConsistent(t *testing.T, m *domain.ModelData) {
	t.Helper()
	if err := m.Validate(); err != nil {
		t.Fatalf("model invariants violated: %v", err)
	}

	onLine := make(map[*domain.Stop]bool)
	for _, line := range m.Lines {
		for _, stop := range line.Stops {
			onLine[stop] = true
			if !stop.Station.HasStop(stop) {
				t.Errorf("line %s: stop at %s not registered at its station", line.Name, stop.StationName())
			}
		}
	}
	for _, station := range m.Stations {
		for _, stop := range station.Stops {
			if !onLine[stop] {
				t.Errorf("station %s: holds a stop that is on no line", station.Name)
			}
		}
	}
}

func stopCount(m *domain.ModelData, name string) int {
	return len(m.Station(name).Stops)
}
