package codec

import (
	"errors"
	"fmt"

	"metromaps/internal/domain"
)

// Document is the serialized form of a map
type Document struct {
	Stations []StationDoc `json:"stations" yaml:"stations"`
	Lines    []LineDoc    `json:"lines" yaml:"lines"`
}

// StationDoc is a serialized station
type StationDoc struct {
	ID   int     `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
}

// LineDoc is a serialized line
type LineDoc struct {
	ID       int       `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Color    string    `json:"color" yaml:"color"`
	Circular bool      `json:"circular,omitempty" yaml:"circular,omitempty"`
	Stops    []StopDoc `json:"stops" yaml:"stops"`
}

// StopDoc references a station by id; Lat/Lon override the station location
type StopDoc struct {
	Station int      `json:"station" yaml:"station"`
	Lat     *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty" yaml:"lon,omitempty"`
}

// NewDocument serializes model. Stop locations equal to their station's are
// omitted.
func NewDocument(model *domain.ModelData) *Document {
	doc := &Document{
		Stations: make([]StationDoc, 0, len(model.Stations)),
		Lines:    make([]LineDoc, 0, len(model.Lines)),
	}

	for _, s := range model.Stations {
		doc.Stations = append(doc.Stations, StationDoc{
			ID:   s.ID,
			Name: s.Name,
			Lat:  s.Location.Lat,
			Lon:  s.Location.Lon,
		})
	}

	for _, l := range model.Lines {
		ld := LineDoc{
			ID:       l.ID,
			Name:     l.Name,
			Color:    l.Color,
			Circular: l.Circular,
			Stops:    make([]StopDoc, 0, len(l.Stops)),
		}
		for _, stop := range l.Stops {
			sd := StopDoc{Station: stop.Station.ID}
			if stop.Location != nil && *stop.Location != stop.Station.Location {
				lat, lon := stop.Location.Lat, stop.Location.Lon
				sd.Lat, sd.Lon = &lat, &lon
			}
			ld.Stops = append(ld.Stops, sd)
		}
		doc.Lines = append(doc.Lines, ld)
	}

	return doc
}

// Model builds the map described by the document
func (d *Document) Model() (*domain.ModelData, error) {
	model := domain.NewModelData()

	for _, sd := range d.Stations {
		if sd.Name == "" {
			return nil, fmt.Errorf("station %d: missing name", sd.ID)
		}
		if model.StationByID(sd.ID) != nil {
			return nil, fmt.Errorf("station %q: duplicate id %d", sd.Name, sd.ID)
		}
		loc := domain.NewCoordinate(sd.Lat, sd.Lon)
		if !loc.Valid() {
			return nil, fmt.Errorf("station %q: invalid location %v", sd.Name, loc)
		}
		model.AddStation(domain.NewStation(sd.ID, sd.Name, loc))
	}

	for _, ld := range d.Lines {
		if len(ld.Stops) < domain.MinLineStops {
			return nil, fmt.Errorf("line %q: needs at least %d stops, got %d", ld.Name, domain.MinLineStops, len(ld.Stops))
		}
		line := domain.NewLine(ld.ID, ld.Name, ld.Color, ld.Circular)
		for i, sd := range ld.Stops {
			station := model.StationByID(sd.Station)
			if station == nil {
				return nil, fmt.Errorf("line %q: stop %d references unknown station %d", ld.Name, i, sd.Station)
			}
			stop := model.Link(line, station)
			if sd.Lat != nil || sd.Lon != nil {
				if sd.Lat == nil || sd.Lon == nil {
					return nil, fmt.Errorf("line %q: stop %d: location needs both lat and lon", ld.Name, i)
				}
				stop.SetLocation(domain.NewCoordinate(*sd.Lat, *sd.Lon))
			}
		}
		model.AddLine(line)
	}

	if err := model.Validate(); err != nil {
		return nil, errors.Join(errors.New("inconsistent map"), err)
	}
	return model, nil
}
