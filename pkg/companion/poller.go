package companion

import (
	"context"
	"sync"
	"time"
)

// Poller checks a topic for new data no more often than Interval.
type Poller struct {
	Device   *Device
	Topic    string
	Interval time.Duration

	lock     sync.Mutex
	lastPoll time.Time
	polled   bool
}

// NewPoller creates a Poller.
func NewPoller(d *Device, topic string, interval time.Duration) *Poller {
	return &Poller{Device: d, Topic: topic, Interval: interval}
}

// Poll queries the companion if Interval has passed since the last query.
// due is false when the query was skipped, arrived is only meaningful
// when due is true.
func (p *Poller) Poll(ctx context.Context) (arrived, due bool, err error) {
	now := p.Device.Engine.Now()
	p.lock.Lock()
	if p.polled && now.Sub(p.lastPoll) < p.Interval {
		p.lock.Unlock()
		return false, false, nil
	}
	p.lastPoll, p.polled = now, true
	p.lock.Unlock()
	arrived, err = p.Device.NewDataArrived(ctx, p.Topic)
	return arrived, true, err
}
