// Package mqtt connects cueboard-core to its optional fan-out bus.
//
// Selection events and device send results go out to consoles and
// dashboards, and external show-control systems can select cues by
// publishing to the inbound select topic. The engine works fully without
// a broker; MQTT only widens the audience.
//
// The client auto-reconnects with backoff, restores subscriptions after a
// reconnect, and arms a Last Will on the system status topic so consumers
// can tell a crash from a graceful shutdown.
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.Select(), 1,
//	    func(topic string, payload []byte) error {
//	        return handleSelect(payload)
//	    })
package mqtt
