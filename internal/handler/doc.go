// Package handler implements the HTTP API of the map editor.
//
// # Handlers
//
// MapHandler serves the live map, applies editing operations and exposes the
// edit journal and the GTFS-RT alert feed. NewRouter mounts it on a chi
// router together with the SSE stream.
//
// # API Design
//
//	GET  /api/map                 map document
//	GET  /api/lines               lines with their routes
//	GET  /api/stations            stations with the lines serving them
//	POST /api/closures            {station, lines}
//	POST /api/replacements        {stations, lines}
//	POST /api/alternatives        {from, to}
//	GET  /api/edits?limit=n       edit journal, newest first
//	GET  /api/alerts              alert feed as JSON
//	GET  /api/alerts.pb           alert feed as GTFS-RT protobuf
//	POST /api/import/{format}     replace the map (yaml or json)
//	GET  /api/export/{format}     download the map
//	GET  /events                  Server-Sent Events
//	GET  /health                  liveness with a database check
//
// Request bodies are validated before processing.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure. Unknown names
// map to 404, edits the editor declined to 422 and malformed input to 400.
package handler
