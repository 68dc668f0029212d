// Package domain defines the core domain types for the metro map editor.
//
// This package contains the mutable transit-map graph that the editor operates
// on: stations, lines, the stops that join them, and the model aggregate that
// owns both.
//
// # Core Types
//
// Coordinate is an immutable latitude/longitude pair.
//
// Station is a geographic node. It carries an unordered set of Stops, one per
// occurrence of the station on a line.
//
// Line is an ordered route through stations, modeled as a sequence of Stops.
// The first and last Stops are the line's terminals.
//
// Stop is a station's occurrence on a specific line. A Stop points back at
// both its Station and its Line, and may override the station's location.
//
// ModelData is the root aggregate holding the ordered list of Lines and the
// ordered list of Stations.
//
// # Cross-links
//
// Every Stop is referenced from two containers: its Line's Stops sequence and
// its Station's Stops set. The helpers on Station, Line and ModelData keep both
// sides of a link in sync; Validate reports any violation of the invariants:
//
//   - every Stop in line.Stops has stop.Line == line
//   - every Stop in station.Stops has stop.Station == station
//   - line ids and station ids are unique
//   - every line has at least two stops
//
// # Lookup
//
// FindStop and FindStation search by station name, which is the identifier
// used by external callers.
//
// # Edits
//
// Edit is the journal record of one applied editing operation.
package domain
