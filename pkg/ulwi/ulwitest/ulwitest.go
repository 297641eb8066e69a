// Package ulwitest provides a simulated clock and companion peer for
// testing code built on package ulwi.
package ulwitest

import (
	"bytes"
	"sync"
	"time"

	"github.com/robotalks/companion.go/pkg/ulwi"
)

// Clock is a ulwi.Clock which only advances on Sleep or Advance.
type Clock struct {
	lock   sync.Mutex
	now    time.Time
	sleeps int
}

// NewClock creates a Clock at an arbitrary fixed epoch.
func NewClock() *Clock {
	return &Clock{now: time.Unix(1000, 0)}
}

// Now implements ulwi.Clock.
func (c *Clock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Sleep implements ulwi.Clock.
func (c *Clock) Sleep(d time.Duration) {
	c.lock.Lock()
	c.now = c.now.Add(d)
	c.sleeps++
	c.lock.Unlock()
}

// Advance moves the clock forward without counting a sleep.
func (c *Clock) Advance(d time.Duration) {
	c.lock.Lock()
	c.now = c.now.Add(d)
	c.lock.Unlock()
}

// Sleeps returns the number of Sleep calls.
func (c *Clock) Sleeps() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.sleeps
}

// Handler produces the reply to a received command.
type Handler func(cmd *ulwi.Command) []byte

type timedByte struct {
	at time.Time
	b  byte
}

type route struct {
	delay   time.Duration
	handler Handler
}

// Peer simulates the companion side of a link. It implements ulwi.Transport.
// Injected bytes become readable once the clock reaches their arrival time.
type Peer struct {
	Clock *Clock

	// ReadErr is returned by TryReadByte once nothing is pending.
	ReadErr error

	lock     sync.Mutex
	pending  []timedByte
	partial  []byte
	written  bytes.Buffer
	commands []*ulwi.Command
	routes   map[string]route
}

// NewPeer creates a Peer on clock.
func NewPeer(clock *Clock) *Peer {
	return &Peer{Clock: clock, routes: make(map[string]route)}
}

// NewEngine creates an engine talking to a new Peer on a new Clock.
func NewEngine() (*ulwi.Engine, *Peer) {
	clock := NewClock()
	peer := NewPeer(clock)
	e := ulwi.NewEngine(peer)
	e.Clock = clock
	return e, peer
}

// Inject queues bytes arriving after delay from now.
func (p *Peer) Inject(delay time.Duration, data []byte) *Peer {
	at := p.Clock.Now().Add(delay)
	p.lock.Lock()
	p.injectLocked(at, data)
	p.lock.Unlock()
	return p
}

// InjectString is Inject with a string.
func (p *Peer) InjectString(delay time.Duration, data string) *Peer {
	return p.Inject(delay, []byte(data))
}

func (p *Peer) injectLocked(at time.Time, data []byte) {
	for _, b := range data {
		p.pending = append(p.pending, timedByte{at: at, b: b})
	}
}

// Handle routes commands with mnemonic to fn, the reply arrives after delay.
func (p *Peer) Handle(mnemonic string, delay time.Duration, fn Handler) *Peer {
	p.lock.Lock()
	p.routes[mnemonic] = route{delay: delay, handler: fn}
	p.lock.Unlock()
	return p
}

// Reply routes commands with mnemonic to a fixed reply.
func (p *Peer) Reply(mnemonic string, delay time.Duration, reply string) *Peer {
	return p.Handle(mnemonic, delay, func(*ulwi.Command) []byte {
		return []byte(reply)
	})
}

// Pending returns the number of bytes not yet read.
func (p *Peer) Pending() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.pending)
}

// Written returns all bytes written by the host.
func (p *Peer) Written() []byte {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]byte(nil), p.written.Bytes()...)
}

// Commands returns all complete commands received.
func (p *Peer) Commands() []*ulwi.Command {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]*ulwi.Command(nil), p.commands...)
}

// LastCommand returns the most recent command or nil.
func (p *Peer) LastCommand() *ulwi.Command {
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(p.commands) == 0 {
		return nil
	}
	return p.commands[len(p.commands)-1]
}

// TryReadByte implements ulwi.Transport.
func (p *Peer) TryReadByte() (byte, bool, error) {
	now := p.Clock.Now()
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(p.pending) > 0 && !p.pending[0].at.After(now) {
		b := p.pending[0].b
		p.pending = p.pending[1:]
		return b, true, nil
	}
	if len(p.pending) == 0 && p.ReadErr != nil {
		return 0, false, p.ReadErr
	}
	return 0, false, nil
}

// Write implements ulwi.Transport.
func (p *Peer) Write(b []byte) (int, error) {
	now := p.Clock.Now()
	p.lock.Lock()
	defer p.lock.Unlock()
	p.written.Write(b)
	p.partial = append(p.partial, b...)
	term := []byte(ulwi.Terminator)
	for {
		pos := bytes.Index(p.partial, term)
		if pos < 0 {
			break
		}
		line := p.partial[:pos+len(term)]
		p.partial = p.partial[pos+len(term):]
		cmd, err := ulwi.ParseCommand(line)
		if err != nil {
			continue
		}
		p.commands = append(p.commands, cmd)
		if r, ok := p.routes[cmd.Mnemonic]; ok {
			p.injectLocked(now.Add(r.delay), r.handler(cmd))
		}
	}
	return len(b), nil
}

// Framed wraps payload in the markers of ch.
func Framed(ch ulwi.Channel, payload string) string {
	return string([]byte{ch.Start}) + payload + string([]byte{ch.Stop})
}
