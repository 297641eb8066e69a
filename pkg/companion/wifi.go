package companion

import (
	"context"
	"strings"

	"github.com/robotalks/companion.go/pkg/ulwi"
)

// ListHotspots returns the raw list of access points in range.
func (d *Device) ListHotspots(ctx context.Context) (string, error) {
	data, err := d.Engine.QueryLine(ctx, ulwi.NewCommand(CmdListAP), ulwi.Terminator, ScanTimeout, 64)
	return strings.TrimSuffix(string(data), ulwi.Terminator), err
}

// WifiInRange scans and reports whether ssid is listed.
func (d *Device) WifiInRange(ctx context.Context, ssid string) (bool, error) {
	return d.Engine.QueryFind(ctx, ulwi.NewCommand(CmdListAP), ssid, ScanTimeout, 64)
}

// ConnectWifi starts joining an access point. No reply is expected,
// use WifiStatus for progress.
func (d *Device) ConnectWifi(ctx context.Context, ssid, password string) error {
	return d.Engine.Exec(ctx, ulwi.NewCommand(CmdConnectAP, ssid, password))
}

// WifiStatus returns the status of the last join attempt.
func (d *Device) WifiStatus(ctx context.Context) (ulwi.Status, error) {
	return d.status(ctx, ulwi.NewCommand(CmdStatusAP))
}

// DisconnectWifi leaves the current access point.
func (d *Device) DisconnectWifi(ctx context.Context) error {
	return d.Engine.Exec(ctx, ulwi.NewCommand(CmdDisconnectAP))
}

// IP returns the station address, empty if not replied.
func (d *Device) IP(ctx context.Context) (string, error) {
	data, err := d.Engine.QueryLine(ctx, ulwi.NewCommand(CmdGetIP), ulwi.Terminator, ReplyTimeout, 32)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(string(data), ulwi.Terminator) {
		return "", ErrUnresponsive
	}
	return strings.TrimSuffix(string(data), ulwi.Terminator), nil
}
