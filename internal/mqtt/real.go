package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/pinmap/internal/pins"
)

// bufferCapacity bounds the messages kept while the broker is unreachable.
const bufferCapacity = 64

// RealPublisher publishes to an actual MQTT broker. Messages published
// while disconnected are buffered and replayed on (re)connect.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher for the given broker. The connection
// is established in the background; Publish calls made before it is up are
// buffered.
func NewRealPublisher(broker, clientID string) *RealPublisher {
	p := &RealPublisher{buf: newRingBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			log.Info().Str("broker", broker).Msg("mqtt: connected")
			p.flush()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn().Err(err).Msg("mqtt: connection lost")
		})

	will, err := FormatSystemPayload(SystemEvent{Event: "OFFLINE", Reason: "LWT"})
	if err != nil {
		log.Error().Err(err).Msg("mqtt: format last will, connecting without one")
	} else {
		opts.SetBinaryWill(TopicSystem, will, 1, true)
	}

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// PublishPinMap sends the resolved pin map, retained, QoS 1.
func (p *RealPublisher) PublishPinMap(m pins.Map, ts time.Time) error {
	return p.publish(bufferedMsg{
		topic:    TopicAssignments,
		payload:  FormatPayload(m, ts),
		qos:      1,
		retained: true,
	})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events
	return p.publish(bufferedMsg{
		topic:    TopicSystem,
		payload:  payload,
		qos:      1,
		retained: event.Retained,
	})
}

func (p *RealPublisher) publish(msg bufferedMsg) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.buf.push(msg)
		n := p.buf.len()
		p.mu.Unlock()
		log.Debug().Str("topic", msg.topic).Int("buffered", n).Msg("mqtt: not connected, buffering")
		// The connect handler may have drained before the push.
		if p.client.IsConnectionOpen() {
			p.flush()
		}
		return nil
	}
	return p.send(msg)
}

func (p *RealPublisher) send(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s: timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

func (p *RealPublisher) flush() {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	if len(msgs) > 0 {
		log.Info().Int("count", len(msgs)).Msg("mqtt: replaying buffered messages")
	}
	for _, msg := range msgs {
		if err := p.send(msg); err != nil {
			log.Error().Err(err).Msg("mqtt: replay failed")
		}
	}
}

// IsConnected reports whether the client currently has a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker. Messages still buffered because the
// broker never came back are dropped and reported in the returned error.
func (p *RealPublisher) Close() error {
	p.mu.Lock()
	dropped := p.buf.drainAll()
	p.mu.Unlock()

	p.client.Disconnect(1000) // 1 second timeout

	if len(dropped) > 0 {
		topics := make([]string, len(dropped))
		for i, msg := range dropped {
			topics[i] = msg.topic
		}
		log.Warn().Int("count", len(dropped)).Strs("topics", topics).Msg("mqtt: dropping unsent messages on close")
		return fmt.Errorf("mqtt: %d buffered messages not delivered", len(dropped))
	}
	return nil
}
