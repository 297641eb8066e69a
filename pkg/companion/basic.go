package companion

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/companion.go/pkg/ulwi"
)

// SmokeTest checks the companion answers at all.
func (d *Device) SmokeTest(ctx context.Context) (bool, error) {
	index, err := d.Engine.Query(ctx, ulwi.NewCommand(CmdNop), nopCandidates, ReplyTimeout)
	return index == 0, err
}

// VerifyVersion checks the companion speaks LibraryVersion.
func (d *Device) VerifyVersion(ctx context.Context) (bool, error) {
	_, ok, err := d.Version(ctx)
	return ok, err
}

// Version returns the version line replied by the companion and whether
// it equals LibraryVersion.
func (d *Device) Version(ctx context.Context) (string, bool, error) {
	data, err := d.Engine.QueryLine(ctx, ulwi.NewCommand(CmdVersion), ulwi.Terminator, ReplyTimeout, 8)
	if err != nil {
		return "", false, err
	}
	version := string(data)
	if version != LibraryVersion {
		glog.V(1).Infof("version mismatch: %q, expect %q", version, LibraryVersion)
		return version, false, nil
	}
	return version, true, nil
}

// Reset restarts the companion and waits for it to settle.
func (d *Device) Reset(ctx context.Context) error {
	if err := d.Engine.Exec(ctx, ulwi.NewCommand(CmdReset)); err != nil {
		return err
	}
	d.Engine.Sleep(ResetSettleTime)
	return nil
}
