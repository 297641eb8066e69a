// Package env configures the link to a companion module from command line
// flags and environment variables.
package env

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/companion.go/pkg/companion"
	"github.com/robotalks/companion.go/pkg/link"
	"github.com/robotalks/companion.go/pkg/ulwi"
)

// Config provides common options to open a companion link.
type Config struct {
	// LinkURL specifies the transport, e.g.
	//   /dev/ttyUSB0
	//   serial:///dev/ttyUSB0?baud=9600
	//   ws://host:port/path
	LinkURL string

	// PollInterval is the idle sleep while waiting for replies.
	PollInterval time.Duration
}

var defaultConfig = Config{
	LinkURL:      "/dev/ttyUSB0",
	PollInterval: ulwi.DefaultPollInterval,
}

func init() {
	if val := os.Getenv("COMPANION_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Companion link: serial device path, serial:// or ws:// URL.")
	flag.DurationVar(&defaultConfig.PollInterval, "link-poll", defaultConfig.PollInterval, "Idle poll interval while waiting for replies.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Link is an opened link. Stream must be run for replies to arrive.
type Link struct {
	Stream *link.Stream
	Device *companion.Device
}

// OpenStream opens the transport specified by LinkURL.
func (c *Config) OpenStream() (*link.Stream, error) {
	u, err := url.Parse(c.LinkURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL: %w", err)
	}
	switch u.Scheme {
	case "":
		return link.OpenSerial(u.Path, link.DefaultBaudRate)
	case "serial":
		baud := link.DefaultBaudRate
		if val := u.Query().Get("baud"); val != "" {
			if baud, err = strconv.Atoi(val); err != nil {
				return nil, fmt.Errorf("invalid baud rate %q: %w", val, err)
			}
		}
		return link.OpenSerial(u.Path, baud)
	case "ws", "wss":
		return link.DialWebsocket(c.LinkURL)
	}
	return nil, fmt.Errorf("unknown link URL scheme: %q", u.Scheme)
}

// Open opens the link and creates the Device on it.
func (c *Config) Open() (*Link, error) {
	s, err := c.OpenStream()
	if err != nil {
		return nil, err
	}
	e := ulwi.NewEngine(s)
	e.PollInterval = c.PollInterval
	return &Link{Stream: s, Device: companion.New(e)}, nil
}

// MustOpen opens the link or fails.
func (c *Config) MustOpen() *Link {
	l, err := c.Open()
	if err != nil {
		log.Fatalln(err)
	}
	return l
}
