package scroll

import "time"

// Pacer enforces a minimum interval between effective frames. Callers
// pass monotonic timestamps; callbacks arriving early are turned away.
type Pacer struct {
	interval time.Duration
	last     time.Time
	primed   bool
}

// NewPacer returns a pacer for fps frames per second.
func NewPacer(fps int) *Pacer {
	return &Pacer{interval: FrameInterval(fps)}
}

// Interval is the minimum time between due frames.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Due reports whether a frame should run at now. The first call is always
// due. The remainder of the elapsed time carries over so the cadence stays
// locked to the interval grid.
func (p *Pacer) Due(now time.Time) bool {
	if !p.primed {
		p.primed = true
		p.last = now
		return true
	}
	elapsed := now.Sub(p.last)
	if elapsed < p.interval {
		return false
	}
	p.last = now.Add(-(elapsed % p.interval))
	return true
}

// Reset makes the next call to Due fire immediately.
func (p *Pacer) Reset() {
	p.primed = false
}
