package companion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/companion.go/pkg/ulwi"
	"github.com/robotalks/companion.go/pkg/ulwi/ulwitest"
)

func newTestDevice() (*Device, *ulwitest.Peer) {
	e, peer := ulwitest.NewEngine()
	return New(e), peer
}

func requireLastCommand(t *testing.T, peer *ulwitest.Peer, mnemonic string, fields ...string) {
	cmd := peer.LastCommand()
	require.NotNil(t, cmd)
	require.Equal(t, mnemonic, cmd.Mnemonic)
	if len(fields) == 0 {
		require.Empty(t, cmd.Fields)
	} else {
		require.Equal(t, fields, cmd.Fields)
	}
}

func TestSmokeTest(t *testing.T) {
	d, peer := newTestDevice()
	ok, err := d.SmokeTest(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "nop\r\n", string(peer.Written()))

	peer.Reply(CmdNop, 3*time.Millisecond, "\r\n")
	ok, err = d.SmokeTest(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyVersion(t *testing.T) {
	d, peer := newTestDevice()
	peer.Reply(CmdVersion, time.Millisecond, "0.1.0\r\n")
	ok, err := d.VerifyVersion(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ver\r\n", string(peer.Written()))

	peer.Reply(CmdVersion, time.Millisecond, "0.2.0\r\n")
	version, ok, err := d.Version(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "0.2.0\r\n", version)
}

func TestReset(t *testing.T) {
	d, peer := newTestDevice()
	start := peer.Clock.Now()
	require.NoError(t, d.Reset(context.Background()))
	requireLastCommand(t, peer, CmdReset)
	require.Equal(t, ResetSettleTime, peer.Clock.Now().Sub(start))
}

func TestStatusQueries(t *testing.T) {
	cases := []struct {
		reply  string
		expect ulwi.Status
	}{
		{"S\r\n", ulwi.Successful},
		{"U\r\n", ulwi.Unsuccessful},
		{"P\r\n", ulwi.InProgress},
		{"N\r\n", ulwi.NotAttempted},
	}
	for _, tc := range cases {
		d, peer := newTestDevice()
		peer.Reply(CmdStatusAP, time.Millisecond, tc.reply).Reply(CmdHTTPStatus, time.Millisecond, tc.reply)
		status, err := d.WifiStatus(context.Background())
		require.NoError(t, err)
		require.Equal(t, tc.expect, status)
		status, err = d.HTTPProgress(context.Background(), 4)
		require.NoError(t, err)
		require.Equal(t, tc.expect, status)
		requireLastCommand(t, peer, CmdHTTPStatus, "4")
	}

	d, peer := newTestDevice()
	start := peer.Clock.Now()
	status, err := d.WifiStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, ulwi.Unresponsive, status)
	require.Equal(t, ReplyTimeout, peer.Clock.Now().Sub(start))
}

func TestWifi(t *testing.T) {
	d, peer := newTestDevice()
	ctx := context.Background()
	require.NoError(t, d.ConnectWifi(ctx, "home net", "secret"))
	require.Equal(t, "cap home net\x1fsecret\r\n", string(peer.Written()))

	err := d.ConnectWifi(ctx, "bad\x1fssid", "pw")
	require.True(t, errors.Is(err, ulwi.ErrMalformed))

	peer.Reply(CmdListAP, 100*time.Millisecond, "home net\x1foffice\r\n")
	list, err := d.ListHotspots(ctx)
	require.NoError(t, err)
	require.Equal(t, "home net\x1foffice", list)

	found, err := d.WifiInRange(ctx, "office")
	require.NoError(t, err)
	require.True(t, found)
	start := peer.Clock.Now()
	found, err = d.WifiInRange(ctx, "cafe")
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, ScanTimeout, peer.Clock.Now().Sub(start))

	require.NoError(t, d.DisconnectWifi(ctx))
	requireLastCommand(t, peer, CmdDisconnectAP)
}

func TestIP(t *testing.T) {
	d, peer := newTestDevice()
	_, err := d.IP(context.Background())
	require.Equal(t, ErrUnresponsive, err)

	peer.Reply(CmdGetIP, time.Millisecond, "192.168.1.20\r\n")
	ip, err := d.IP(context.Background())
	require.NoError(t, err)
	require.Equal(t, "192.168.1.20", ip)
}

func TestAckErrors(t *testing.T) {
	cases := []struct {
		reply  string
		expect error
	}{
		{"S\r\n", nil},
		{"U\r\n", ErrRejected},
		{"short\r\n", &ReplyError{Token: "short"}},
		{"long\r\n", &ReplyError{Token: "long"}},
	}
	for _, tc := range cases {
		d, peer := newTestDevice()
		peer.Reply(CmdMQTTSubscribe, time.Millisecond, tc.reply)
		require.Equal(t, tc.expect, d.Subscribe(context.Background(), "a/b"))
	}
	d, _ := newTestDevice()
	require.Equal(t, ErrUnresponsive, d.Subscribe(context.Background(), "a/b"))
}
