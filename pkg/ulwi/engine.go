package ulwi

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultPollInterval is the idle sleep between transport polls.
const DefaultPollInterval = time.Millisecond

// Engine runs command/response exchanges over a Transport.
//
// The receive primitives (Match, RecvString, ...) don't lock and are meant
// to be called from within Exchange. The Query helpers wrap a complete
// exchange and are safe for concurrent callers; exchanges are serialized
// as the protocol allows only one command in flight.
type Engine struct {
	Transport    Transport
	Clock        Clock
	PollInterval time.Duration

	lock sync.Mutex
}

// ReceiveFunc is the receive step of an exchange.
type ReceiveFunc func(ctx context.Context) error

// NewEngine creates an Engine using the system clock.
func NewEngine(t Transport) *Engine {
	return &Engine{
		Transport:    t,
		Clock:        SystemClock{},
		PollInterval: DefaultPollInterval,
	}
}

func (e *Engine) clock() Clock {
	if e.Clock == nil {
		return SystemClock{}
	}
	return e.Clock
}

func (e *Engine) pollInterval() time.Duration {
	if e.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return e.PollInterval
}

// Sleep waits on the engine clock.
func (e *Engine) Sleep(d time.Duration) {
	e.clock().Sleep(d)
}

// Now reads the engine clock.
func (e *Engine) Now() time.Time {
	return e.clock().Now()
}

// Exchange drains stale input, sends cmd and runs recv (if not nil)
// while holding the engine exclusively.
func (e *Engine) Exchange(ctx context.Context, cmd *Command, recv ReceiveFunc) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	if err := e.send(cmd); err != nil {
		return err
	}
	if recv == nil {
		return nil
	}
	return recv(ctx)
}

func (e *Engine) send(cmd *Command) error {
	b, err := cmd.Bytes()
	if err != nil {
		return err
	}
	n, err := Drain(e.Transport)
	if err != nil {
		return err
	}
	if n > 0 {
		glog.V(3).Infof("drained %d stale bytes", n)
	}
	glog.V(2).Infof("TX %q", cmd.String())
	_, err = e.Transport.Write(b)
	return err
}

// Exec sends a command which has no synchronous reply.
func (e *Engine) Exec(ctx context.Context, cmd *Command) error {
	return e.Exchange(ctx, cmd, nil)
}

// Query sends cmd and matches the reply against candidates.
func (e *Engine) Query(ctx context.Context, cmd *Command, c Candidates, timeout time.Duration) (index int, err error) {
	index = NoMatch
	err = e.Exchange(ctx, cmd, func(ctx context.Context) (err error) {
		index, err = e.Match(ctx, c, timeout)
		return
	})
	return
}

// QueryGuarded sends cmd and matches candidates inside the window of ch.
func (e *Engine) QueryGuarded(ctx context.Context, cmd *Command, c Candidates, ch Channel, timeout time.Duration) (index int, err error) {
	index = NoMatch
	err = e.Exchange(ctx, cmd, func(ctx context.Context) (err error) {
		index, err = e.MatchGuarded(ctx, c, ch, timeout)
		return
	})
	return
}

// QueryLine sends cmd and receives until target.
func (e *Engine) QueryLine(ctx context.Context, cmd *Command, target string, timeout time.Duration, sizeHint int) (data []byte, err error) {
	err = e.Exchange(ctx, cmd, func(ctx context.Context) (err error) {
		data, err = e.RecvString(ctx, target, timeout, sizeHint)
		return
	})
	return
}

// QueryFind sends cmd and reports whether target is received.
func (e *Engine) QueryFind(ctx context.Context, cmd *Command, target string, timeout time.Duration, sizeHint int) (found bool, err error) {
	err = e.Exchange(ctx, cmd, func(ctx context.Context) (err error) {
		found, err = e.RecvFind(ctx, target, timeout, sizeHint)
		return
	})
	return
}

// QueryFramed sends cmd and receives the payload on ch.
func (e *Engine) QueryFramed(ctx context.Context, cmd *Command, ch Channel, timeout time.Duration, sizeHint int) (data []byte, err error) {
	err = e.Exchange(ctx, cmd, func(ctx context.Context) (err error) {
		data, err = e.RecvFramed(ctx, ch, timeout, sizeHint)
		return
	})
	return
}

func (e *Engine) traceMatch(c Candidates, index int) {
	if !glog.V(2) {
		return
	}
	if index == NoMatch {
		glog.Infof("RX timeout waiting for %q", c.String())
		return
	}
	glog.Infof("RX %q", c[index])
}

func (e *Engine) traceRecv(data []byte) {
	glog.V(2).Infof("RX %q", data)
}
