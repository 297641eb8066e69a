// Package bridge mirrors MQTT traffic between a companion module and a
// host broker.
//
// Data of topics subscribed on the companion is published to
// <prefix>data/<topic> on the host broker. Messages published on the host
// broker to <prefix>publish/<topic> are published by the companion to <topic>.
package bridge

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/companion.go/pkg/companion"
	"github.com/robotalks/companion.go/pkg/mqtt"
)

// Topic prefixes on the host broker.
const (
	DataTopicPrefix    = "data/"
	PublishTopicPrefix = "publish/"
)

// DefaultInterval is the default poll interval per topic.
const DefaultInterval = time.Second

// Broker is the host side of the bridge.
type Broker interface {
	Publish(topic string, payload []byte) error
	Subscribe(filter string, handler mqtt.Handler) (io.Closer, error)
}

// Bridge runs the mirroring.
type Bridge struct {
	Device   *companion.Device
	Broker   Broker
	Topics   []string
	Interval time.Duration

	pollers []*companion.Poller
}

// New creates a Bridge.
func New(d *companion.Device, broker Broker, topics ...string) *Bridge {
	return &Bridge{Device: d, Broker: broker, Topics: topics, Interval: DefaultInterval}
}

// Name implements framework.Named.
func (b *Bridge) Name() string {
	return "bridge"
}

// Setup subscribes all topics on the companion and creates the pollers.
func (b *Bridge) Setup(ctx context.Context) error {
	b.pollers = b.pollers[:0]
	for _, topic := range b.Topics {
		if err := b.Device.Subscribe(ctx, topic); err != nil {
			return fmt.Errorf("subscribe %q on companion: %w", topic, err)
		}
		b.pollers = append(b.pollers, companion.NewPoller(b.Device, topic, b.Interval))
	}
	return nil
}

// Run implements Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	if err := b.Setup(ctx); err != nil {
		return err
	}
	sub, err := b.Broker.Subscribe(PublishTopicPrefix+"#", func(topic string, payload []byte) {
		b.Forward(ctx, topic, payload)
	})
	if err != nil {
		return err
	}
	defer sub.Close()

	interval := b.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.PollOnce(ctx)
		}
	}
}

// PollOnce checks every topic which is due and mirrors new data.
// It returns the number of messages mirrored.
func (b *Bridge) PollOnce(ctx context.Context) int {
	var mirrored int
	for _, p := range b.pollers {
		arrived, due, err := p.Poll(ctx)
		if err != nil {
			glog.Errorf("poll %q: %v", p.Topic, err)
			continue
		}
		if !due || !arrived {
			continue
		}
		data, err := b.Device.SubscriptionData(ctx, p.Topic)
		if err != nil {
			glog.Errorf("fetch %q: %v", p.Topic, err)
			continue
		}
		if err := b.Broker.Publish(DataTopicPrefix+p.Topic, data); err != nil {
			glog.Errorf("mirror %q: %v", p.Topic, err)
			continue
		}
		glog.V(1).Infof("mirrored %q (%d bytes)", p.Topic, len(data))
		mirrored++
	}
	return mirrored
}

// Forward publishes a host broker message through the companion.
func (b *Bridge) Forward(ctx context.Context, topic string, payload []byte) error {
	if !strings.HasPrefix(topic, PublishTopicPrefix) {
		return nil
	}
	topic = topic[len(PublishTopicPrefix):]
	if err := b.Device.Publish(ctx, topic, string(payload)); err != nil {
		glog.Errorf("forward %q: %v", topic, err)
		return err
	}
	glog.V(1).Infof("forwarded %q (%d bytes)", topic, len(payload))
	return nil
}

// QueueBroker adapts mqtt.Queue to Broker.
type QueueBroker struct {
	Queue *mqtt.Queue
}

// Publish implements Broker.
func (b *QueueBroker) Publish(topic string, payload []byte) error {
	token := b.Queue.Pub(topic, payload)
	token.Wait()
	return token.Error()
}

// Subscribe implements Broker.
func (b *QueueBroker) Subscribe(filter string, handler mqtt.Handler) (io.Closer, error) {
	sub := b.Queue.Sub(filter, handler)
	sub.Token.Wait()
	if err := sub.Token.Error(); err != nil {
		return nil, err
	}
	return sub, nil
}
