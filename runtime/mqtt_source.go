package runtime

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/value"
)

// MQTTSource is a types.EventSource that stages every message received on
// Topic as Text into Slot (spec §6: "how events reach IOPad slots is a
// host concern" — an MQTT broker is one concrete host).
type MQTTSource struct {
	Broker string
	Topic  string
	Slot   graph.SlotId

	client mqtt.Client
}

func (m *MQTTSource) Start(deliver func(graph.SlotId, value.Value)) error {
	opts := mqtt.NewClientOptions().AddBroker(m.Broker)
	m.client = mqtt.NewClient(opts)
	if token := m.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to mqtt broker %s: %w", m.Broker, token.Error())
	}
	token := m.client.Subscribe(m.Topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		deliver(m.Slot, value.Text(string(msg.Payload())))
	})
	token.Wait()
	return token.Error()
}

func (m *MQTTSource) Stop() error {
	if m.client != nil && m.client.IsConnected() {
		m.client.Disconnect(250)
	}
	return nil
}
