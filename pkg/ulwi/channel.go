package ulwi

// Channel is a flow control marker pair bracketing a bulk payload
// inline on the byte stream.
type Channel struct {
	Start byte
	Stop  byte
}

// Predefined channels.
var (
	// Channel1 carries large payloads like HTTP replies.
	Channel1 = Channel{Start: 0x11, Stop: 0x13}
	// Channel2 is reserved for fast replies.
	Channel2 = Channel{Start: 0x12, Stop: 0x14}
)

// windowState tells what a byte means relative to the channel window.
type windowState int

const (
	windowOutside windowState = iota // byte is outside the window, discard
	windowInside                     // byte is payload
	windowClosed                     // stop marker seen
)

// window tracks the start/stop markers of a Channel.
type window struct {
	ch      Channel
	started bool
	stopped bool
}

func (w *window) admit(b byte) windowState {
	switch {
	case w.stopped:
		return windowClosed
	case b == w.ch.Stop:
		w.stopped = true
		return windowClosed
	case b == w.ch.Start:
		// markers are never payload.
		w.started = true
		return windowOutside
	case w.started:
		return windowInside
	}
	return windowOutside
}
