package ulwi

import "time"

// Clock abstracts time for the polling loops.
type Clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

// SystemClock uses the time package.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep implements Clock.
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
