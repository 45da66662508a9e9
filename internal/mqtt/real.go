package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/standup-mate/internal/logic"
)

const (
	clientID       = "standup-mate"
	outboxLimit    = 64
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// RealPublisher publishes to an actual MQTT broker.
// Messages published while the connection is down are held in an outbox
// and replayed once the client reconnects.
type RealPublisher struct {
	client paho.Client
	topic  string

	// mu orders direct publishes after the replay of the outbox.
	// online is set once the connect handler has queued the replay.
	mu     sync.Mutex
	online bool
	outbox *outbox
}

func newPublisher(client paho.Client) *RealPublisher {
	return &RealPublisher{
		client: client,
		topic:  Topic,
		outbox: newOutbox(outboxLimit),
	}
}

// NewRealPublisher creates a publisher for the given broker.
// A broker that is unreachable at startup is not fatal: the client keeps
// retrying in the background and messages wait in the outbox.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := newPublisher(nil)

	will, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE", Reason: "LWT"})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		log.Printf("mqtt: broker %s not reachable yet, retrying in background", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

func (p *RealPublisher) onConnect(c paho.Client) {
	reconnected, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"})
	if err != nil {
		log.Printf("mqtt: format reconnect event: %v", err)
	}

	// Queue the replay before any new message can go out directly.
	p.mu.Lock()
	msgs, dropped := p.outbox.take()
	if reconnected != nil {
		msgs = append([]pending{{topic: TopicSystem, payload: reconnected, qos: 1, retained: true}}, msgs...)
	}
	tokens := make([]paho.Token, len(msgs))
	for i, m := range msgs {
		tokens[i] = c.Publish(m.topic, m.qos, m.retained, m.payload)
	}
	p.online = true
	p.mu.Unlock()

	log.Printf("mqtt: connected, replaying %d buffered messages (%d dropped)", len(msgs), dropped)

	for i, token := range tokens {
		if !token.WaitTimeout(publishTimeout) || token.Error() != nil {
			log.Printf("mqtt: replay to %s failed", msgs[i].topic)
		}
	}
}

func (p *RealPublisher) onConnectionLost(_ paho.Client, err error) {
	p.mu.Lock()
	p.online = false
	p.mu.Unlock()
	log.Printf("mqtt: connection lost: %v", err)
}

// IsConnected reports whether the connection is open and the outbox replayed.
func (p *RealPublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online && p.client.IsConnectionOpen()
}

// Publish sends a posture event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.send(pending{topic: p.topic, payload: payload})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) so startup and shutdown are not lost
	return p.send(pending{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

// send publishes m, or buffers it until the connect handler has replayed
// the outbox.
func (p *RealPublisher) send(m pending) error {
	p.mu.Lock()
	if !p.online || !p.client.IsConnectionOpen() {
		p.outbox.add(m)
		p.mu.Unlock()
		return nil
	}
	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	p.mu.Unlock()

	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timeout", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", m.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.mu.Lock()
	if n := p.outbox.size(); n > 0 {
		log.Printf("mqtt: closing with %d unsent messages", n)
	}
	p.mu.Unlock()

	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
