package mqtt

import (
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// Topic Builder Tests
// =============================================================================

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Selected", topics.Selected(), "cueboard/selected"},
		{"Status", topics.Status(), "cueboard/status"},
		{"Select", topics.Select(), "cueboard/select"},
		{"RunCompleted", topics.RunCompleted("blackout"), "cueboard/cue/blackout/run"},
		{"SystemStatus", topics.SystemStatus(), "cueboard/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

// =============================================================================
// Validation Tests (no broker required)
// =============================================================================

func TestPublish_Validation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Publish("", []byte("x"), 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("cueboard/status", []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("bad qos: got %v, want ErrInvalidQoS", err)
	}

	huge := make([]byte, maxPayloadSize+1)
	if err := c.Publish("cueboard/status", huge, 1, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("oversized payload: got %v, want ErrPublishFailed", err)
	}
	if err := c.Publish("cueboard/status", []byte("x"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: got %v, want ErrNotConnected", err)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	handler := func(topic string, payload []byte) error { return nil }

	if err := c.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("cueboard/select", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("bad qos: got %v, want ErrInvalidQoS", err)
	}
	if err := c.Subscribe("cueboard/select", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler: got %v, want ErrSubscribeFailed", err)
	}
	if err := c.Subscribe("cueboard/select", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: got %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Handler Wrapping Tests
// =============================================================================

// fakeMessage satisfies the paho Message interface for handler tests.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type recordingLogger struct {
	errors []string
	warns  []string
}

func (l *recordingLogger) Error(msg string, args ...any) { l.errors = append(l.errors, msg) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.warns = append(l.warns, msg) }

func TestWrapHandler_RecoversPanic(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	log := &recordingLogger{}
	c.SetLogger(log)

	wrapped := c.wrapHandler(func(topic string, payload []byte) error {
		panic("handler blew up")
	})

	wrapped(nil, fakeMessage{topic: "cueboard/select", payload: []byte("blackout")})

	if len(log.errors) != 1 {
		t.Fatalf("logged errors = %d, want 1", len(log.errors))
	}
}

func TestWrapHandler_LogsHandlerError(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	log := &recordingLogger{}
	c.SetLogger(log)

	wrapped := c.wrapHandler(func(topic string, payload []byte) error {
		return errors.New("bad payload")
	})

	wrapped(nil, fakeMessage{topic: "cueboard/select", payload: []byte("{")})

	if len(log.warns) != 1 {
		t.Fatalf("logged warnings = %d, want 1", len(log.warns))
	}
	if len(log.errors) != 0 {
		t.Fatalf("logged errors = %d, want 0", len(log.errors))
	}
}

// =============================================================================
// Payload Tests
// =============================================================================

func TestPresencePayloads(t *testing.T) {
	online := presencePayload("cueboard-1", "online", "")
	if !strings.Contains(online, `"status":"online"`) || !strings.Contains(online, `"client_id":"cueboard-1"`) {
		t.Errorf("online payload = %s", online)
	}
	if strings.Contains(online, `"reason"`) {
		t.Errorf("online payload carries a reason: %s", online)
	}

	offline := presencePayload("cueboard-1", "offline", "graceful_shutdown")
	if !strings.Contains(offline, `"status":"offline"`) || !strings.Contains(offline, `"reason":"graceful_shutdown"`) {
		t.Errorf("offline payload = %s", offline)
	}
}
