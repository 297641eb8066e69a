package mqtt

import (
	"context"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/companion.go/pkg/cli/sh"
	"github.com/robotalks/companion.go/pkg/companion"
)

// TopicData is the output of mqtt.read.
type TopicData struct {
	Topic   string `json:"topic"`
	Arrived bool   `json:"arrived"`
	Data    string `json:"data,omitempty"`
}

func requireTopic(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("TOPIC required")
	}
	return nil
}

// ReadTopic fetches the data of topic if new data arrived.
func ReadTopic(ctx context.Context, d *companion.Device, topic string) (*TopicData, error) {
	result := &TopicData{Topic: topic}
	arrived, err := d.NewDataArrived(ctx, topic)
	if err != nil || !arrived {
		return result, err
	}
	data, err := d.SubscriptionData(ctx, topic)
	if err != nil {
		return result, err
	}
	result.Arrived, result.Data = true, string(data)
	return result, nil
}

var (
	// EnableCmd connects the companion to a broker.
	EnableCmd = ishell.Cmd{
		Name: "mqtt.enable",
		Help: "SERVER [secure] [USER PASSWORD]",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			if len(c.Args) < 1 {
				return nil, fmt.Errorf("SERVER required")
			}
			args := c.Args[1:]
			var secure bool
			if len(args) > 0 && args[0] == "secure" {
				secure, args = true, args[1:]
			}
			var creds *companion.Credentials
			if len(args) >= 2 {
				creds = &companion.Credentials{Username: args[0], Password: args[1]}
			}
			return nil, d.EnableMQTT(ctx, c.Args[0], secure, creds)
		}),
	}

	// DisableCmd disconnects the companion from the broker.
	DisableCmd = ishell.Cmd{
		Name: "mqtt.disable",
		Help: "",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			return nil, d.DisableMQTT(ctx)
		}),
	}

	// ConnectedCmd shows whether the broker is connected.
	ConnectedCmd = ishell.Cmd{
		Name: "mqtt.connected",
		Help: "",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			return d.MQTTConnected(ctx)
		}),
	}

	// PublishCmd publishes a message.
	PublishCmd = ishell.Cmd{
		Name:    "mqtt.pub",
		Aliases: []string{"pub"},
		Help:    "TOPIC CONTENT [QOS] [retain]",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			if len(c.Args) < 2 {
				return nil, fmt.Errorf("TOPIC and CONTENT required")
			}
			var qos int
			if len(c.Args) > 2 {
				val, err := strconv.Atoi(c.Args[2])
				if err != nil || val < 0 || val > 2 {
					return nil, fmt.Errorf("invalid QOS %q", c.Args[2])
				}
				qos = val
			}
			retain := len(c.Args) > 3 && c.Args[3] == "retain"
			return nil, d.PublishWith(ctx, c.Args[0], c.Args[1], byte(qos), retain)
		}),
	}

	// SubscribeCmd subscribes a topic.
	SubscribeCmd = ishell.Cmd{
		Name:    "mqtt.sub",
		Aliases: []string{"sub"},
		Help:    "TOPIC",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			if err := requireTopic(c.Args); err != nil {
				return nil, err
			}
			return nil, d.Subscribe(ctx, c.Args[0])
		}),
	}

	// UnsubscribeCmd unsubscribes a topic.
	UnsubscribeCmd = ishell.Cmd{
		Name:    "mqtt.unsub",
		Aliases: []string{"unsub"},
		Help:    "TOPIC",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			if err := requireTopic(c.Args); err != nil {
				return nil, err
			}
			return nil, d.Unsubscribe(ctx, c.Args[0])
		}),
	}

	// ReadCmd reads new data of a subscribed topic.
	ReadCmd = ishell.Cmd{
		Name:    "mqtt.read",
		Aliases: []string{"read"},
		Help:    "TOPIC",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			if err := requireTopic(c.Args); err != nil {
				return nil, err
			}
			return ReadTopic(ctx, d, c.Args[0])
		}),
	}
)

func init() {
	sh.AddCmds(&EnableCmd, &DisableCmd, &ConnectedCmd, &PublishCmd,
		&SubscribeCmd, &UnsubscribeCmd, &ReadCmd)
}
