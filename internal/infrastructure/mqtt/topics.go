package mqtt

import "fmt"

// Topic prefixes for the cueboard MQTT surface.
//
// Outbound topics fan out engine state to consoles and dashboards; inbound
// topics let external systems drive the engine without the HTTP API.
const (
	// TopicPrefix is the base for all cueboard topics.
	TopicPrefix = "cueboard"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "cueboard/system"
)

// Topics provides builders for cueboard MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// Selected returns the topic for cue selection events. Published the moment
// a cue is selected, before the device send fires.
//
// Example: cueboard/selected
func (Topics) Selected() string {
	return fmt.Sprintf("%s/selected", TopicPrefix)
}

// Status returns the topic for device send results. Retained so new
// subscribers immediately see the last outcome.
//
// Example: cueboard/status
func (Topics) Status() string {
	return fmt.Sprintf("%s/status", TopicPrefix)
}

// RunCompleted returns the topic for completed runs of one cue.
//
// Example: cueboard/cue/blackout/run
func (Topics) RunCompleted(cueName string) string {
	return fmt.Sprintf("%s/cue/%s/run", TopicPrefix, cueName)
}

// Select returns the inbound topic for cue selection commands. The payload
// is the cue name.
//
// Example: cueboard/select
func (Topics) Select() string {
	return fmt.Sprintf("%s/select", TopicPrefix)
}

// SystemStatus returns the system status topic, used for online/offline
// presence including the Last Will message.
//
// Example: cueboard/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
