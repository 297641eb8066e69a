package bridge

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/companion.go/pkg/companion"
	"github.com/robotalks/companion.go/pkg/mqtt"
	"github.com/robotalks/companion.go/pkg/ulwi"
	"github.com/robotalks/companion.go/pkg/ulwi/ulwitest"
)

type testBroker struct {
	lock      sync.Mutex
	published map[string][]byte
	filters   []string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func (b *testBroker) Publish(topic string, payload []byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.published == nil {
		b.published = make(map[string][]byte)
	}
	b.published[topic] = payload
	return nil
}

func (b *testBroker) Subscribe(filter string, handler mqtt.Handler) (io.Closer, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.filters = append(b.filters, filter)
	return nopCloser{}, nil
}

func newTestBridge(topics ...string) (*Bridge, *testBroker, *ulwitest.Peer) {
	e, peer := ulwitest.NewEngine()
	broker := &testBroker{}
	return New(companion.New(e), broker, topics...), broker, peer
}

func TestBridgeMirrorsData(t *testing.T) {
	b, broker, peer := newTestBridge("home/temp", "home/door")
	peer.Reply(companion.CmdMQTTSubscribe, time.Millisecond, "S\r\n").
		Handle(companion.CmdMQTTNewData, time.Millisecond, func(cmd *ulwi.Command) []byte {
			if cmd.Fields[0] == "home/temp" {
				return []byte("T\r\n")
			}
			return []byte("F\r\n")
		}).
		Reply(companion.CmdMQTTGetSubData, time.Millisecond, ulwitest.Framed(ulwi.Channel1, "21.5"))
	ctx := context.Background()

	require.NoError(t, b.Setup(ctx))
	subscribed := peer.Commands()
	require.Len(t, subscribed, 2)
	require.Equal(t, []string{"home/temp"}, subscribed[0].Fields)
	require.Equal(t, []string{"home/door"}, subscribed[1].Fields)

	require.Equal(t, 1, b.PollOnce(ctx))
	require.Equal(t, map[string][]byte{"data/home/temp": []byte("21.5")}, broker.published)

	// throttled until the interval passes.
	commands := len(peer.Commands())
	require.Zero(t, b.PollOnce(ctx))
	require.Len(t, peer.Commands(), commands)

	peer.Clock.Advance(b.Interval)
	require.Equal(t, 1, b.PollOnce(ctx))
}

func TestBridgeSetupFailure(t *testing.T) {
	b, _, peer := newTestBridge("home/temp")
	peer.Reply(companion.CmdMQTTSubscribe, time.Millisecond, "U\r\n")
	err := b.Setup(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "home/temp")
}

func TestBridgeForward(t *testing.T) {
	b, _, peer := newTestBridge()
	peer.Reply(companion.CmdMQTTPublish, time.Millisecond, "S\r\n")
	ctx := context.Background()

	require.NoError(t, b.Forward(ctx, "publish/home/light", []byte("on")))
	cmd := peer.LastCommand()
	require.Equal(t, companion.CmdMQTTPublish, cmd.Mnemonic)
	require.Equal(t, []string{"home/light", "on", "0", "F"}, cmd.Fields)

	require.NoError(t, b.Forward(ctx, "other/topic", []byte("x")))
	require.Len(t, peer.Commands(), 1)

	require.Error(t, b.Forward(ctx, "publish/home/light", []byte("a\r\nb")))
	require.Len(t, peer.Commands(), 1)
}
