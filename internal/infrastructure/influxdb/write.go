package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSendMetric records one completed device send, tagged by cue and by
// the surface that triggered it ("api", "osc", "mqtt", "batch"). The write
// is batched and asynchronous.
func (c *Client) WriteSendMetric(cueName string, trigger string, ok bool, durationMS int64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"cue_sends",
		map[string]string{
			"cue":     cueName,
			"trigger": trigger,
		},
		map[string]interface{}{
			"ok":          ok,
			"duration_ms": durationMS,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDebounceMetric records how many selections one debounce window
// coalesced into a single device send. A consistently high count means the
// operator outpaces the device by a wide margin.
func (c *Client) WriteDebounceMetric(cueName string, coalesced int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"debounce",
		map[string]string{
			"cue": cueName,
		},
		map[string]interface{}{
			"coalesced": coalesced,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
