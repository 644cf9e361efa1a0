// Package influxdb records cueboard send telemetry as time series: per-send
// latency and outcome, batch run durations, and how many selections each
// debounce window coalesced.
//
// Writes go through influxdb-client-go's non-blocking batched API, so
// telemetry stays off the dispatch hot path. A slow or absent metrics store
// never delays a device send; async write failures surface only through the
// SetOnError callback.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteSendMetric("blackout", "api", true, 42)
package influxdb
