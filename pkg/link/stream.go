// Package link provides ulwi transports over serial ports and network bridges.
package link

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/golang/glog"
)

// DefaultBufferSize is the number of received bytes a Stream holds
// before the read pump blocks.
const DefaultBufferSize = 4096

// Stream implements ulwi.Transport over a blocking io.ReadWriter.
// Run pumps received bytes into a buffer which TryReadByte consumes
// without blocking.
type Stream struct {
	ReadWriter io.ReadWriter
	// ReadTimeout set to true if ReadWriter returns timeout errors or
	// zero length reads when idle, these are not treated as failures.
	ReadTimeout bool

	byteCh chan byte

	errLock sync.RWMutex
	err     error
}

// NewStream creates a Stream.
func NewStream(rw io.ReadWriter) *Stream {
	return NewStreamSize(rw, DefaultBufferSize)
}

// NewStreamSize creates a Stream with receive buffer size.
func NewStreamSize(rw io.ReadWriter, size int) *Stream {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Stream{ReadWriter: rw, byteCh: make(chan byte, size)}
}

// Err returns the error which stopped the read pump.
func (s *Stream) Err() error {
	s.errLock.RLock()
	defer s.errLock.RUnlock()
	return s.err
}

func (s *Stream) setErr(err error) {
	s.errLock.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errLock.Unlock()
}

// TryReadByte implements ulwi.Transport.
// After the pump stops, buffered bytes are still delivered before the
// pump error is reported.
func (s *Stream) TryReadByte() (byte, bool, error) {
	select {
	case b := <-s.byteCh:
		return b, true, nil
	default:
		return 0, false, s.Err()
	}
}

// Write implements io.Writer.
func (s *Stream) Write(p []byte) (int, error) {
	if err := s.Err(); err != nil {
		return 0, err
	}
	return s.ReadWriter.Write(p)
}

// Close closes the underlying ReadWriter if it's an io.Closer.
func (s *Stream) Close() error {
	if closer, ok := s.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Run pumps bytes until ctx is done or the ReadWriter fails.
func (s *Stream) Run(ctx context.Context) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			s.setErr(err)
			return err
		}
		n, err := s.ReadWriter.Read(buf)
		for _, b := range buf[:n] {
			select {
			case s.byteCh <- b:
			case <-ctx.Done():
				s.setErr(ctx.Err())
				return ctx.Err()
			}
		}
		if err != nil {
			if s.ReadTimeout && os.IsTimeout(err) {
				continue
			}
			glog.Warningf("link read failed: %v", err)
			s.setErr(err)
			return err
		}
	}
}
