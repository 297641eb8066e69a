package link

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/companion.go/pkg/ulwi"
)

type chanReadWriter struct {
	readCh  chan []byte
	writeCh chan []byte
}

func newChanReadWriter() *chanReadWriter {
	return &chanReadWriter{readCh: make(chan []byte, 4), writeCh: make(chan []byte, 4)}
}

func (c *chanReadWriter) Read(p []byte) (int, error) {
	b, ok := <-c.readCh
	if !ok {
		return 0, io.EOF
	}
	return copy(p, b), nil
}

func (c *chanReadWriter) Write(p []byte) (int, error) {
	c.writeCh <- append([]byte(nil), p...)
	return len(p), nil
}

func waitPending(t *testing.T, s *Stream, n int) {
	deadline := time.Now().Add(time.Second)
	for len(s.byteCh) < n {
		if time.Now().After(deadline) {
			t.Fatalf("expect %d bytes pending, got %d", n, len(s.byteCh))
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStreamPump(t *testing.T) {
	rw := newChanReadWriter()
	s := NewStream(rw)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	_, ok, err := s.TryReadByte()
	require.NoError(t, err)
	require.False(t, ok)

	rw.readCh <- []byte("S\r\n")
	waitPending(t, s, 3)
	for _, expect := range []byte("S\r\n") {
		b, ok, err := s.TryReadByte()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, expect, b)
	}

	n, err := s.Write([]byte("nop\r\n"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "nop\r\n", string(<-rw.writeCh))

	rw.readCh <- []byte("x")
	waitPending(t, s, 1)
	close(rw.readCh)
	require.Equal(t, io.EOF, <-errCh)
	b, ok, err := s.TryReadByte()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, byte('x'), b)
	_, ok, err = s.TryReadByte()
	require.False(t, ok)
	require.Equal(t, io.EOF, err)
	_, err = s.Write([]byte("nop\r\n"))
	require.Equal(t, io.EOF, err)
}

func TestStreamWithEngine(t *testing.T) {
	rw := newChanReadWriter()
	s := NewStream(rw)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	go func() {
		for line := range rw.writeCh {
			if string(line) == "ver\r\n" {
				rw.readCh <- []byte("\x000.1")
				rw.readCh <- []byte(".0\r\n")
			}
		}
	}()

	e := ulwi.NewEngine(s)
	data, err := e.QueryLine(ctx, ulwi.NewCommand("ver"), "\r\n", time.Second, 8)
	require.NoError(t, err)
	require.Equal(t, "0.1.0\r\n", string(data))
	close(rw.writeCh)
}
