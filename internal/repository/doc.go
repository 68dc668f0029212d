// Package repository defines the data access interfaces for the map editor.
//
// This package provides the repository abstraction layer for persisting
// and retrieving the metro map. The actual implementation is in the
// sqlite subpackage.
//
// # Repository Interface
//
// The Repository interface loads and replaces the complete map and keeps a
// journal of applied edits.
//
// # SQLite Implementation
//
// The sqlite implementation stores the map relationally:
//
// - stations: id, name, location
// - lines: id, name, colour, circular flag, model order
// - stops: line, position along the line, station, optional location override
// - edits: the append-only edit journal
//
// A save replaces all three map tables inside one transaction, so a reader
// never sees half a map. Loading rebuilds the cross-linked domain graph from
// the stops table.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
