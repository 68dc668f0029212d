// Package alert publishes applied map edits as GTFS-Realtime service alerts.
//
// Every closure, replacement or alternative service applied to the map adds
// one Alert entity to a Feed. The feed is served as a FULL_DATASET
// FeedMessage, either in protobuf wire format or as protojson.
//
// Informed entities use line ids as route_id and station ids as stop_id, so
// consumers can join them against a static feed generated from the same map.
package alert
