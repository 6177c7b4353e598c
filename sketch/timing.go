package sketch

// clock tracks frame timing. dt stays -1 until a full frame has been
// drawn; elapsed counts from loop entry and never decreases.
type clock struct {
	// step, when positive, replaces measured time with a fixed increment
	// per frame.
	step float64

	start   float64
	last    float64
	elapsed float64
	dt      float64
	ticks   int64
}

func newClock(step float64) clock {
	return clock{step: step, dt: -1}
}

// begin marks loop entry at host time now.
func (c *clock) begin(now float64) {
	c.start = now
	c.last = now
	c.elapsed = 0
	c.dt = -1
	c.ticks = 0
}

// tick advances to the frame starting at host time now.
func (c *clock) tick(now float64) {
	first := c.ticks == 0
	c.ticks++
	if c.step > 0 {
		if !first {
			c.dt = c.step
			c.elapsed += c.step
		}
		return
	}
	if !first {
		c.dt = max(now-c.last, 0)
	}
	c.elapsed = max(c.elapsed, now-c.start)
	c.last = now
}
