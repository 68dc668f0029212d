// Package service implements the editing workflow of the map editor.
//
// This package sits between the HTTP handlers (and the CLI) and the
// repository layer. It owns the live map, resolves station and line names,
// runs the editor operations and records their effects.
//
// # MapService
//
// MapService holds one ModelData behind a mutex. Every edit runs on a working
// copy of the map; only when the editor applied a change is the copy saved,
// journaled and swapped in. A no-op edit leaves both the live map and the
// database untouched and returns ErrNotApplied.
//
// Applied edits are also described as GTFS-RT service alerts in the alert
// feed, and announced on the EventBus.
//
// # Event System
//
// MapService publishes events via EventBus for real-time updates to connected
// clients via Server-Sent Events (SSE): station_closed, replacement_created,
// alternative_created and map_imported.
//
// # Errors
//
// Name lookups fail with ErrStationNotFound or ErrLineNotFound, bad documents
// and formats with ErrInvalidInput. Callers match them with errors.Is.
package service
