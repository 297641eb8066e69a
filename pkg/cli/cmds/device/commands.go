package device

import (
	"context"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/companion.go/pkg/cli/sh"
	"github.com/robotalks/companion.go/pkg/companion"
)

// VersionInfo is the output of the version command.
type VersionInfo struct {
	Version    string `json:"version"`
	Compatible bool   `json:"compatible"`
}

var (
	// NopCmd checks the companion is responsive.
	NopCmd = ishell.Cmd{
		Name:    "nop",
		Aliases: []string{"ping"},
		Help:    "",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			ok, err := d.SmokeTest(ctx)
			if err == nil && !ok {
				err = companion.ErrUnresponsive
			}
			return nil, err
		}),
	}

	// VersionCmd reads the firmware version.
	VersionCmd = ishell.Cmd{
		Name:    "version",
		Aliases: []string{"ver"},
		Help:    "",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			ver, compatible, err := d.Version(ctx)
			if err != nil {
				return nil, err
			}
			return &VersionInfo{Version: ver, Compatible: compatible}, nil
		}),
	}

	// ResetCmd resets the companion.
	ResetCmd = ishell.Cmd{
		Name:    "reset",
		Aliases: []string{"rst"},
		Help:    "",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			return nil, d.Reset(ctx)
		}),
	}
)

func init() {
	sh.AddCmds(&NopCmd, &VersionCmd, &ResetCmd)
}
