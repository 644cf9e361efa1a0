// Package status fans engine events out to external surfaces.
//
// The dispatch coordinator emits two event kinds: a selection notification
// the moment a cue is chosen, and a status notification when a device send
// completes. This package multiplexes those events to whichever surfaces
// are configured: the WebSocket hub, the MQTT bus, and InfluxDB telemetry.
// It also binds the inbound MQTT select topic to the coordinator so brokers
// can drive the engine.
package status
