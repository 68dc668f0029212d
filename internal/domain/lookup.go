package domain

// FindStop returns the index of the first stop whose station is named name,
// or -1 if there is none.
func FindStop(stops []*Stop, name string) int {
	for i, stop := range stops {
		if stop.Station != nil && stop.Station.Name == name {
			return i
		}
	}
	return -1
}

// FindStation returns the first station named name, or nil
func FindStation(stations []*Station, name string) *Station {
	for _, station := range stations {
		if station != nil && station.Name == name {
			return station
		}
	}
	return nil
}

// FindLine returns the first line named name, or nil
func FindLine(lines []*Line, name string) *Line {
	for _, line := range lines {
		if line != nil && line.Name == name {
			return line
		}
	}
	return nil
}
