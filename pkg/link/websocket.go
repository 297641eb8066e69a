package link

import (
	"fmt"
	"net/url"

	"golang.org/x/net/websocket"
)

// DialWebsocket connects to a serial-over-websocket bridge and wraps the
// connection in a Stream. Frames are binary and carry raw UART bytes.
func DialWebsocket(rawURL string) (*Stream, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	origin := "http://" + u.Host
	if u.Scheme == "wss" {
		origin = "https://" + u.Host
	}
	conn, err := websocket.Dial(u.String(), "", origin)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}
	conn.PayloadType = websocket.BinaryFrame
	return NewStream(conn), nil
}
