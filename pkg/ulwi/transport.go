package ulwi

import "io"

// Transport is the byte link to the companion.
// It has no protocol knowledge and is owned by a single Engine.
type Transport interface {
	io.Writer
	// TryReadByte returns the next received byte without blocking.
	// ok is false when nothing is pending.
	TryReadByte() (b byte, ok bool, err error)
}

// Drain discards all bytes currently pending on the transport
// and returns the number discarded.
func Drain(t Transport) (int, error) {
	var n int
	for {
		_, ok, err := t.TryReadByte()
		if err != nil || !ok {
			return n, err
		}
		n++
	}
}
