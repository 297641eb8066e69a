package wifi

import (
	"context"
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/companion.go/pkg/cli/sh"
	"github.com/robotalks/companion.go/pkg/companion"
)

var (
	// ScanCmd lists hotspots in range.
	ScanCmd = ishell.Cmd{
		Name:    "wifi.scan",
		Aliases: []string{"ws"},
		Help:    "",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			return d.ListHotspots(ctx)
		}),
	}

	// InRangeCmd checks a hotspot is in range.
	InRangeCmd = ishell.Cmd{
		Name:    "wifi.inrange",
		Aliases: []string{"wr"},
		Help:    "SSID",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			if len(c.Args) < 1 {
				return nil, fmt.Errorf("SSID required")
			}
			return d.WifiInRange(ctx, c.Args[0])
		}),
	}

	// ConnectCmd joins a hotspot.
	ConnectCmd = ishell.Cmd{
		Name:    "wifi.connect",
		Aliases: []string{"wc"},
		Help:    "SSID [PASSWORD]",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			if len(c.Args) < 1 {
				return nil, fmt.Errorf("SSID required")
			}
			var password string
			if len(c.Args) > 1 {
				password = c.Args[1]
			}
			return nil, d.ConnectWifi(ctx, c.Args[0], password)
		}),
	}

	// StatusCmd shows the Wi-Fi connection status.
	StatusCmd = ishell.Cmd{
		Name:    "wifi.status",
		Aliases: []string{"wst"},
		Help:    "",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			st, err := d.WifiStatus(ctx)
			return st.String(), err
		}),
	}

	// DisconnectCmd leaves the hotspot.
	DisconnectCmd = ishell.Cmd{
		Name:    "wifi.disconnect",
		Aliases: []string{"wd"},
		Help:    "",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			return nil, d.DisconnectWifi(ctx)
		}),
	}

	// IPCmd shows the IP address.
	IPCmd = ishell.Cmd{
		Name:    "ip",
		Help:    "",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			return d.IP(ctx)
		}),
	}
)

func init() {
	sh.AddCmds(&ScanCmd, &InRangeCmd, &ConnectCmd, &StatusCmd, &DisconnectCmd, &IPCmd)
}
