package clock

import "github.com/raceview/raceplay/pkg/model"

// default playback rate bounds
const (
	MinRate = 0.1
	MaxRate = 8.0
)

// PlaybackClock is the session's virtual time cursor. It never leaves
// [minTime, maxTime] and automatically pauses when the end of the
// recording is reached. None of its operations block.
type PlaybackClock struct {
	minTime float64
	maxTime float64
	current float64
	rate    float64
	minRate float64
	maxRate float64
	paused  bool
}

type Option func(c *PlaybackClock)

func WithRateBounds(minRate, maxRate float64) Option {
	return func(c *PlaybackClock) {
		c.minRate = minRate
		c.maxRate = maxRate
	}
}

func WithRate(rate float64) Option {
	return func(c *PlaybackClock) {
		c.rate = rate
	}
}

// New creates a playing clock positioned at minTime.
func New(minTime, maxTime float64, opts ...Option) *PlaybackClock {
	c := &PlaybackClock{
		minTime: minTime,
		maxTime: maxTime,
		current: minTime,
		rate:    1.0,
		minRate: MinRate,
		maxRate: MaxRate,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rate = clamp(c.rate, c.minRate, c.maxRate)
	return c
}

// Advance moves the cursor by wallDt (seconds) scaled with the rate.
// Reaching maxTime pauses the clock; end of recording, not an error.
func (c *PlaybackClock) Advance(wallDt float64) {
	if c.paused {
		return
	}
	c.current += wallDt * c.rate
	if c.current >= c.maxTime {
		c.current = c.maxTime
		c.paused = true
	}
}

// Seek moves the cursor by delta, clamped to the session bounds.
// Legal while playing or paused; the play state is unchanged.
func (c *PlaybackClock) Seek(delta float64) {
	c.current = clamp(c.current+delta, c.minTime, c.maxTime)
}

// SetRate clamps rate into the configured bounds; effective on the next Advance.
func (c *PlaybackClock) SetRate(rate float64) {
	c.rate = clamp(rate, c.minRate, c.maxRate)
}

func (c *PlaybackClock) TogglePause() {
	c.paused = !c.paused
}

func (c *PlaybackClock) CurrentTime() float64 { return c.current }
func (c *PlaybackClock) Rate() float64        { return c.rate }
func (c *PlaybackClock) Paused() bool         { return c.paused }

func (c *PlaybackClock) State() model.ClockState {
	return model.ClockState{
		CurrentTime: c.current,
		Rate:        c.rate,
		Paused:      c.paused,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
