//go:build integration

package mqtt

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/ovationworks/cueboard-core/internal/infrastructure/config"
)

// Integration tests for MQTT broker behaviour.
// These tests require a running MQTT broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...

func integrationConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "cueboard-integration-test",
			TLS:      false,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestIntegration_ConnectAndClose(t *testing.T) {
	client, err := Connect(integrationConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestIntegration_PublishSubscribeRoundTrip(t *testing.T) {
	cfg := integrationConfig()
	cfg.Broker.ClientID = "cueboard-test-roundtrip"

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	var received atomic.Value
	topic := "cueboard/test/roundtrip"
	err = client.Subscribe(topic, 1, func(topic string, payload []byte) error {
		received.Store(string(payload))
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := client.Publish(topic, []byte(`{"ok":true}`), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if v, ok := received.Load().(string); ok && v == `{"ok":true}` {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("message never arrived")
}

func TestIntegration_SelectTopicRoundTrip(t *testing.T) {
	cfg := integrationConfig()
	cfg.Broker.ClientID = "cueboard-test-select"

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	var got atomic.Value
	if err := client.Subscribe(Topics{}.Select(), 1, func(topic string, payload []byte) error {
		got.Store(string(payload))
		return nil
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := client.Publish(Topics{}.Select(), []byte("blackout"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if v, ok := got.Load().(string); ok && v == "blackout" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("select command never arrived")
}
