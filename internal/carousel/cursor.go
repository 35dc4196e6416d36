package carousel

// Cursor tracks the selected slide in a carousel of Len slides.
type Cursor struct {
	index int
	n     int
	wrap  bool
}

// NewCursor returns a cursor over n slides. With wrap set, moving past either
// end continues from the other end.
func NewCursor(n int, wrap bool) Cursor {
	if n < 0 {
		n = 0
	}
	return Cursor{n: n, wrap: wrap}
}

// Index returns the selected position, or -1 when there are no slides.
func (c Cursor) Index() int {
	if c.n == 0 {
		return -1
	}
	return c.index
}

// Len returns the number of slides.
func (c Cursor) Len() int { return c.n }

// Wrap reports whether the cursor wraps around.
func (c Cursor) Wrap() bool { return c.wrap }

// Next moves one slide forward. It reports whether the position changed.
func (c *Cursor) Next() bool {
	return c.Go(c.step(1))
}

// Prev moves one slide back. It reports whether the position changed.
func (c *Cursor) Prev() bool {
	return c.Go(c.step(-1))
}

func (c *Cursor) step(delta int) int {
	i := c.index + delta
	if c.wrap && c.n > 0 {
		i = ((i % c.n) + c.n) % c.n
	}
	return i
}

// Go jumps to slide i, clamped to the valid range.
func (c *Cursor) Go(i int) bool {
	if c.n == 0 {
		return false
	}
	if i < 0 {
		i = 0
	}
	if i > c.n-1 {
		i = c.n - 1
	}
	changed := i != c.index
	c.index = i
	return changed
}

// First jumps to the first slide.
func (c *Cursor) First() bool { return c.Go(0) }

// Last jumps to the last slide.
func (c *Cursor) Last() bool { return c.Go(c.n - 1) }

// Resize changes the slide count, keeping the position when it is still valid.
func (c *Cursor) Resize(n int) {
	if n < 0 {
		n = 0
	}
	c.n = n
	if c.index > n-1 {
		c.index = n - 1
	}
	if c.index < 0 {
		c.index = 0
	}
}
