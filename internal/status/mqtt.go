package status

import (
	"encoding/json"
	"strings"

	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/dispatch"
	"github.com/ovationworks/cueboard-core/internal/executor"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/mqtt"
)

// Publisher is the outbound MQTT surface the notifier needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Subscriber is the inbound MQTT surface the select binding needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Selector accepts cue selections, normally the dispatch coordinator.
type Selector interface {
	Select(c cue.Cue, trigger executor.Trigger)
}

// CueLookup resolves a cue name against the current table.
type CueLookup interface {
	Get(name string) (cue.Cue, error)
}

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// selectedMessage is the payload published on cue selection.
type selectedMessage struct {
	CueName string `json:"cue_name"`
}

// MQTTNotifier publishes coordinator events to the MQTT bus. Selection
// events go out fire-and-forget; send results are retained so late joiners
// see the last outcome.
type MQTTNotifier struct {
	publisher Publisher
	qos       byte
	logger    Logger
}

// NewMQTTNotifier creates an MQTTNotifier publishing at the given QoS.
func NewMQTTNotifier(publisher Publisher, qos byte, logger Logger) *MQTTNotifier {
	return &MQTTNotifier{publisher: publisher, qos: qos, logger: logger}
}

// NotifySelected publishes the selection to cueboard/selected.
func (n *MQTTNotifier) NotifySelected(c cue.Cue) {
	payload, err := json.Marshal(selectedMessage{CueName: c.Name})
	if err != nil {
		return
	}
	if err := n.publisher.Publish(mqtt.Topics{}.Selected(), payload, n.qos, false); err != nil {
		n.logger.Warn("publishing selection failed", "cue", c.Name, "error", err)
	}
}

// NotifyStatus publishes the send result twice: retained on cueboard/status
// for late joiners, and fire-and-forget on the per-cue run topic so
// dashboards can subscribe to a single cue's history.
func (n *MQTTNotifier) NotifyStatus(s dispatch.Status) {
	payload, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := n.publisher.Publish(mqtt.Topics{}.Status(), payload, n.qos, true); err != nil {
		n.logger.Warn("publishing status failed", "cue", s.CueName, "error", err)
	}
	if err := n.publisher.Publish(mqtt.Topics{}.RunCompleted(s.CueName), payload, n.qos, false); err != nil {
		n.logger.Warn("publishing run completion failed", "cue", s.CueName, "error", err)
	}
}

// BindSelectTopic subscribes to the inbound select topic and forwards cue
// names to the selector. Unknown cue names are logged and dropped; a broker
// full of stale dashboards must not crash the engine.
func BindSelectTopic(sub Subscriber, table CueLookup, selector Selector, qos byte, logger Logger) error {
	return sub.Subscribe(mqtt.Topics{}.Select(), qos, func(topic string, payload []byte) error {
		name := strings.TrimSpace(string(payload))
		if name == "" {
			return nil
		}
		c, err := table.Get(name)
		if err != nil {
			logger.Warn("select for unknown cue", "cue", name)
			return nil
		}
		selector.Select(c, executor.TriggerMQTT)
		return nil
	})
}
