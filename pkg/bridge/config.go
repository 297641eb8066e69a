package bridge

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/robotalks/companion.go/pkg/companion"
	"github.com/robotalks/companion.go/pkg/mqtt"
)

// Config defines the configuration of the bridge.
type Config struct {
	// BrokerURL of the host broker, e.g. mqtt://host:port/topic-prefix/
	BrokerURL string
	// Topics subscribed on the companion, comma separated.
	Topics   string
	Interval time.Duration
}

var defaultConfig = Config{
	BrokerURL: "mqtt://localhost:1883/companion/",
	Interval:  DefaultInterval,
}

func init() {
	if val := os.Getenv("COMPANION_BROKER"); val != "" {
		defaultConfig.BrokerURL = val
	}
	if val := os.Getenv("COMPANION_TOPICS"); val != "" {
		defaultConfig.Topics = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BrokerURL, "broker", defaultConfig.BrokerURL, "Host MQTT broker URL.")
	flag.StringVar(&defaultConfig.Topics, "topics", defaultConfig.Topics, "Comma separated topics to subscribe on the companion.")
	flag.DurationVar(&defaultConfig.Interval, "poll-interval", defaultConfig.Interval, "Minimum interval between polls of a topic.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// TopicList splits Topics.
func (c *Config) TopicList() []string {
	var topics []string
	for _, topic := range strings.Split(c.Topics, ",") {
		if topic = strings.TrimSpace(topic); topic != "" {
			topics = append(topics, topic)
		}
	}
	return topics
}

// NewBridge connects the host broker and creates the Bridge.
func (c *Config) NewBridge(d *companion.Device) (*Bridge, error) {
	q, err := mqtt.NewQueueFromURL(c.BrokerURL)
	if err != nil {
		return nil, err
	}
	token := q.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	b := New(d, &QueueBroker{Queue: q}, c.TopicList()...)
	b.Interval = c.Interval
	return b, nil
}

// MustNewBridge creates the Bridge or fails.
func (c *Config) MustNewBridge(d *companion.Device) *Bridge {
	b, err := c.NewBridge(d)
	if err != nil {
		log.Fatalln(err)
	}
	return b
}
