package ulwi

import (
	"bytes"
	"context"
	"time"
)

// consumeFunc is called for each received byte, returns true to finish.
type consumeFunc func(byte) bool

// poll feeds transport bytes to consume until it finishes, the timeout
// elapses or ctx is done. It returns whether consume finished.
// The deadline is measured from entry and checked after every byte and
// every idle period, idle periods being at most PollInterval.
func (e *Engine) poll(ctx context.Context, timeout time.Duration, consume consumeFunc) (bool, error) {
	clock, interval := e.clock(), e.pollInterval()
	deadline := clock.Now().Add(timeout)
	for {
		b, ok, err := e.Transport.TryReadByte()
		if err != nil {
			return false, err
		}
		if ok && consume(b) {
			return true, nil
		}
		remaining := deadline.Sub(clock.Now())
		if remaining <= 0 {
			return false, nil
		}
		if ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if remaining > interval {
			remaining = interval
		}
		clock.Sleep(remaining)
	}
}

// Match waits for one of the candidates and returns its index,
// or NoMatch if the timeout elapses first.
func (e *Engine) Match(ctx context.Context, c Candidates, timeout time.Duration) (int, error) {
	m, err := NewMatcher(c)
	if err != nil {
		return NoMatch, err
	}
	index := NoMatch
	_, err = e.poll(ctx, timeout, func(b byte) bool {
		index = m.Feed(b)
		return index != NoMatch
	})
	e.traceMatch(c, index)
	return index, err
}

// MatchGuarded is Match but only bytes inside the window of ch are
// matched. The stop marker ends the operation with NoMatch.
func (e *Engine) MatchGuarded(ctx context.Context, c Candidates, ch Channel, timeout time.Duration) (int, error) {
	m, err := NewMatcher(c)
	if err != nil {
		return NoMatch, err
	}
	w := window{ch: ch}
	index := NoMatch
	_, err = e.poll(ctx, timeout, func(b byte) bool {
		switch w.admit(b) {
		case windowClosed:
			return true
		case windowInside:
			index = m.Feed(b)
			return index != NoMatch
		}
		return false
	})
	e.traceMatch(c, index)
	return index, err
}

// RecvString accumulates bytes until target appears in them or the timeout
// elapses. NUL bytes are padding and dropped. The accumulated bytes are
// returned in both cases; callers check for target themselves.
func (e *Engine) RecvString(ctx context.Context, target string, timeout time.Duration, sizeHint int) ([]byte, error) {
	buf := make([]byte, 0, sizeHint)
	if target == "" {
		return buf, nil
	}
	t := []byte(target)
	_, err := e.poll(ctx, timeout, func(b byte) bool {
		if b == 0 {
			return false
		}
		buf = append(buf, b)
		return bytes.HasSuffix(buf, t)
	})
	e.traceRecv(buf)
	return buf, err
}

// RecvFind reports whether target appeared before the timeout.
func (e *Engine) RecvFind(ctx context.Context, target string, timeout time.Duration, sizeHint int) (bool, error) {
	buf, err := e.RecvString(ctx, target, timeout, sizeHint)
	return bytes.Contains(buf, []byte(target)), err
}

// RecvFramed returns the payload between the start and stop markers of ch.
// Bytes outside the window are discarded. On timeout the partial payload
// is returned.
func (e *Engine) RecvFramed(ctx context.Context, ch Channel, timeout time.Duration, sizeHint int) ([]byte, error) {
	buf := make([]byte, 0, sizeHint)
	w := window{ch: ch}
	_, err := e.poll(ctx, timeout, func(b byte) bool {
		switch w.admit(b) {
		case windowClosed:
			return true
		case windowInside:
			buf = append(buf, b)
		}
		return false
	})
	e.traceRecv(buf)
	return buf, err
}
