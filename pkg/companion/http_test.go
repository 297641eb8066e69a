package companion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/companion.go/pkg/ulwi"
	"github.com/robotalks/companion.go/pkg/ulwi/ulwitest"
)

func TestSetupHTTP(t *testing.T) {
	cases := []struct {
		name   string
		reply  string
		handle Handle
		err    error
	}{
		{"handle", "3\r\n", 3, nil},
		{"rejected", "U\r\n", InvalidHandle, ErrRejected},
		{"no reply", "", InvalidHandle, ErrUnresponsive},
		{"unterminated", "1", InvalidHandle, ErrUnresponsive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, peer := newTestDevice()
			peer.Reply(CmdHTTPInit, time.Millisecond, tc.reply)
			h, err := d.SetupHTTP(context.Background(), HTTPGet, "http://example.com/a?b=c")
			require.Equal(t, tc.err, err)
			require.Equal(t, tc.handle, h)
			require.Equal(t, "ihr G\x1fhttp://example.com/a?b=c\r\n", string(peer.Written()))
		})
	}

	d, peer := newTestDevice()
	peer.Reply(CmdHTTPInit, time.Millisecond, "x\r\n")
	h, err := d.SetupHTTP(context.Background(), HTTPPost, "http://example.com")
	require.Error(t, err)
	require.Equal(t, InvalidHandle, h)
}

func TestHTTPExchange(t *testing.T) {
	d, peer := newTestDevice()
	ctx := context.Background()
	peer.Reply(CmdHTTPInit, time.Millisecond, "0\r\n").
		Reply(CmdHTTPPostParams, time.Millisecond, "S\r\n").
		Reply(CmdHTTPHeaders, time.Millisecond, "S\r\n").
		Reply(CmdHTTPTransmit, time.Millisecond, "S\r\n").
		Reply(CmdHTTPDelResponse, time.Millisecond, "S\r\n").
		Handle(CmdHTTPGetResponse, 5*time.Millisecond, func(cmd *ulwi.Command) []byte {
			switch cmd.Fields[1] {
			case "S":
				return []byte("\r\n" + ulwitest.Framed(ulwi.Channel1, "201"))
			case "H":
				return []byte(ulwitest.Framed(ulwi.Channel1, "Content-Type: text/plain\r\n"))
			}
			return []byte("noise" + ulwitest.Framed(ulwi.Channel1, "hello\r\nworld") + "\r\n")
		})

	h, err := d.SetupHTTP(ctx, HTTPPost, "http://example.com")
	require.NoError(t, err)
	require.Equal(t, Handle(0), h)

	require.NoError(t, d.SetHTTPPostParams(ctx, h, "a=1&b=2"))
	requireLastCommand(t, peer, CmdHTTPPostParams, "0", "a=1&b=2")
	require.NoError(t, d.SetHTTPHeaders(ctx, h, "X-Key: v"))
	requireLastCommand(t, peer, CmdHTTPHeaders, "0", "X-Key: v")
	require.NoError(t, d.TransmitHTTP(ctx, h))
	requireLastCommand(t, peer, CmdHTTPTransmit, "0")

	code, err := d.HTTPStatusCode(ctx, h)
	require.NoError(t, err)
	require.Equal(t, 201, code)
	requireLastCommand(t, peer, CmdHTTPGetResponse, "0", "S", "F")

	headers, err := d.HTTPReply(ctx, h, HTTPHeaders, false)
	require.NoError(t, err)
	require.Equal(t, "Content-Type: text/plain\r\n", string(headers))
	requireLastCommand(t, peer, CmdHTTPGetResponse, "0", "H", "F")

	body, err := d.HTTPReply(ctx, h, HTTPBody, true)
	require.NoError(t, err)
	require.Equal(t, "hello\r\nworld", string(body))
	requireLastCommand(t, peer, CmdHTTPGetResponse, "0", "C", "T")

	require.NoError(t, d.DeleteHTTPReply(ctx, h))
	requireLastCommand(t, peer, CmdHTTPDelResponse, "0")
}

func TestHTTPStatusCodeRejected(t *testing.T) {
	d, peer := newTestDevice()
	peer.Reply(CmdHTTPGetResponse, time.Millisecond, ulwitest.Framed(ulwi.Channel1, "U"))
	code, err := d.HTTPStatusCode(context.Background(), 2)
	require.Equal(t, ErrRejected, err)
	require.Equal(t, -1, code)

	d, _ = newTestDevice()
	code, err = d.HTTPStatusCode(context.Background(), 2)
	require.Equal(t, ErrUnresponsive, err)
	require.Equal(t, -1, code)
}
