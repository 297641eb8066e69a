package companion

import (
	"context"
	"strconv"

	"github.com/robotalks/companion.go/pkg/ulwi"
)

// Credentials authenticate the companion with an MQTT broker.
type Credentials struct {
	Username string
	Password string
}

// EnableMQTT connects the companion to a broker. creds is optional.
func (d *Device) EnableMQTT(ctx context.Context, server string, secure bool, creds *Credentials) error {
	fields := []string{flagTrue, server, boolFlag(secure)}
	if creds != nil {
		fields = append(fields, creds.Username, creds.Password)
	}
	return d.ack(ctx, ulwi.NewCommand(CmdMQTTConfigure, fields...))
}

// DisableMQTT disconnects the companion from the broker.
func (d *Device) DisableMQTT(ctx context.Context) error {
	return d.ack(ctx, ulwi.NewCommand(CmdMQTTConfigure, flagFalse))
}

// MQTTConnected reports whether the companion is connected to the broker.
func (d *Device) MQTTConnected(ctx context.Context) (bool, error) {
	index, err := d.Engine.Query(ctx, ulwi.NewCommand(CmdMQTTIsConnected), boolCandidates, ReplyTimeout)
	if err != nil {
		return false, err
	}
	return boolResult(index)
}

// Publish publishes content at QoS 0 without retain.
func (d *Device) Publish(ctx context.Context, topic, content string) error {
	return d.PublishWith(ctx, topic, content, 0, false)
}

// PublishWith publishes content with QoS and retain flag.
func (d *Device) PublishWith(ctx context.Context, topic, content string, qos byte, retain bool) error {
	return d.ack(ctx, ulwi.NewCommand(CmdMQTTPublish, topic, content, strconv.Itoa(int(qos)), boolFlag(retain)))
}

// Subscribe subscribes a topic on the companion.
func (d *Device) Subscribe(ctx context.Context, topic string) error {
	return d.ack(ctx, ulwi.NewCommand(CmdMQTTSubscribe, topic))
}

// Unsubscribe unsubscribes a topic on the companion.
func (d *Device) Unsubscribe(ctx context.Context, topic string) error {
	return d.ack(ctx, ulwi.NewCommand(CmdMQTTUnsubscribe, topic))
}

// NewDataArrived reports whether a subscribed topic has unread data.
func (d *Device) NewDataArrived(ctx context.Context, topic string) (arrived bool, err error) {
	e := d.Engine
	err = e.Exchange(ctx, ulwi.NewCommand(CmdMQTTNewData, topic), func(ctx context.Context) error {
		index, err := e.Match(ctx, boolCandidates, ReplyTimeout)
		if err != nil {
			return err
		}
		// the rest of the reply line is not needed.
		if _, err := ulwi.Drain(e.Transport); err != nil {
			return err
		}
		arrived, err = boolResult(index)
		return err
	})
	return
}

// SubscriptionData returns the latest data received on topic.
func (d *Device) SubscriptionData(ctx context.Context, topic string) ([]byte, error) {
	return d.Engine.QueryFramed(ctx, ulwi.NewCommand(CmdMQTTGetSubData, topic), ulwi.Channel1, BulkTimeout, 8)
}
