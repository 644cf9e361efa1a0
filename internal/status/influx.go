package status

import (
	"github.com/ovationworks/cueboard-core/internal/executor"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/influxdb"
)

// InfluxMetrics adapts the InfluxDB client to the runner's metrics hook.
type InfluxMetrics struct {
	client *influxdb.Client
}

// NewInfluxMetrics creates the telemetry adapter.
func NewInfluxMetrics(client *influxdb.Client) *InfluxMetrics {
	return &InfluxMetrics{client: client}
}

// RecordSend writes one completed cue run as a time-series point. The
// write is non-blocking; telemetry never delays the next cue.
func (m *InfluxMetrics) RecordSend(cueName string, trigger executor.Trigger, ok bool, durationMS int64) {
	m.client.WriteSendMetric(cueName, string(trigger), ok, durationMS)
}

// RecordDebounce writes the number of selections one debounce window folded
// into a single device send.
func (m *InfluxMetrics) RecordDebounce(cueName string, coalesced int) {
	m.client.WriteDebounceMetric(cueName, coalesced)
}
