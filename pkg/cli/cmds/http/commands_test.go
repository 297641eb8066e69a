package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/companion.go/pkg/companion"
	"github.com/robotalks/companion.go/pkg/ulwi"
	"github.com/robotalks/companion.go/pkg/ulwi/ulwitest"
)

func TestFetch(t *testing.T) {
	e, peer := ulwitest.NewEngine()
	d := companion.New(e)
	progress := []string{"P", "", "P", "S"}
	peer.Reply(companion.CmdHTTPInit, time.Millisecond, "2\r\n").
		Reply(companion.CmdHTTPTransmit, time.Millisecond, "S\r\n").
		Handle(companion.CmdHTTPStatus, time.Millisecond, func(*ulwi.Command) []byte {
			st := progress[0]
			progress = progress[1:]
			return []byte(st + "\r\n")
		}).
		Handle(companion.CmdHTTPGetResponse, time.Millisecond, func(cmd *ulwi.Command) []byte {
			if cmd.Fields[1] == "S" {
				return []byte(ulwitest.Framed(ulwi.Channel1, "200"))
			}
			return []byte(ulwitest.Framed(ulwi.Channel1, "hello"))
		})

	result, err := Fetch(context.Background(), d, companion.HTTPGet, "http://example.com", "")
	require.NoError(t, err)
	require.Equal(t, &FetchResult{Status: 200, Body: "hello"}, result)
	require.Empty(t, progress)
	last := peer.LastCommand()
	require.Equal(t, companion.CmdHTTPGetResponse, last.Mnemonic)
	require.Equal(t, []string{"2", "C", "T"}, last.Fields)
}

func TestFetchFailed(t *testing.T) {
	e, peer := ulwitest.NewEngine()
	d := companion.New(e)
	peer.Reply(companion.CmdHTTPInit, time.Millisecond, "0\r\n").
		Reply(companion.CmdHTTPPostParams, time.Millisecond, "S\r\n").
		Reply(companion.CmdHTTPTransmit, time.Millisecond, "S\r\n").
		Reply(companion.CmdHTTPStatus, time.Millisecond, "U\r\n").
		Reply(companion.CmdHTTPDelResponse, time.Millisecond, "S\r\n")

	_, err := Fetch(context.Background(), d, companion.HTTPPost, "http://example.com", "a=1")
	require.EqualError(t, err, "request 0: unsuccessful")
	require.Equal(t, []string{"0", "a=1"}, peer.Commands()[1].Fields)
	last := peer.LastCommand()
	require.Equal(t, companion.CmdHTTPDelResponse, last.Mnemonic)
	require.Equal(t, []string{"0"}, last.Fields)
}

func TestFetchDeletesOnFailure(t *testing.T) {
	cases := []struct {
		name   string
		routes func(*ulwitest.Peer)
	}{
		{"post params rejected", func(p *ulwitest.Peer) {
			p.Reply(companion.CmdHTTPPostParams, time.Millisecond, "U\r\n")
		}},
		{"transmit rejected", func(p *ulwitest.Peer) {
			p.Reply(companion.CmdHTTPPostParams, time.Millisecond, "S\r\n").
				Reply(companion.CmdHTTPTransmit, time.Millisecond, "U\r\n")
		}},
		{"status code rejected", func(p *ulwitest.Peer) {
			p.Reply(companion.CmdHTTPPostParams, time.Millisecond, "S\r\n").
				Reply(companion.CmdHTTPTransmit, time.Millisecond, "S\r\n").
				Reply(companion.CmdHTTPStatus, time.Millisecond, "S\r\n").
				Reply(companion.CmdHTTPGetResponse, time.Millisecond, ulwitest.Framed(ulwi.Channel1, "U"))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, peer := ulwitest.NewEngine()
			d := companion.New(e)
			peer.Reply(companion.CmdHTTPInit, time.Millisecond, "5\r\n").
				Reply(companion.CmdHTTPDelResponse, time.Millisecond, "S\r\n")
			tc.routes(peer)

			_, err := Fetch(context.Background(), d, companion.HTTPPost, "http://example.com", "a=1")
			require.Equal(t, companion.ErrRejected, err)
			last := peer.LastCommand()
			require.Equal(t, companion.CmdHTTPDelResponse, last.Mnemonic)
			require.Equal(t, []string{"5"}, last.Fields)
		})
	}
}

func TestFetchSetupFailureNothingToDelete(t *testing.T) {
	e, peer := ulwitest.NewEngine()
	d := companion.New(e)
	peer.Reply(companion.CmdHTTPInit, time.Millisecond, "U\r\n")

	_, err := Fetch(context.Background(), d, companion.HTTPGet, "http://example.com", "")
	require.Equal(t, companion.ErrRejected, err)
	require.Len(t, peer.Commands(), 1)
}

func TestParseArgs(t *testing.T) {
	h, err := parseHandle([]string{"4"})
	require.NoError(t, err)
	require.Equal(t, companion.Handle(4), h)
	_, err = parseHandle(nil)
	require.Error(t, err)
	_, err = parseHandle([]string{"-1"})
	require.Error(t, err)

	content, err := parseContent("headers")
	require.NoError(t, err)
	require.Equal(t, companion.HTTPHeaders, content)
	_, err = parseContent("status")
	require.Error(t, err)
}
