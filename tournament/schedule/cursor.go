package schedule

// cursor hands out roster entries forever, refilling its queue from the roster whenever it runs dry
type cursor struct {
	teams  []string
	queue  []string
	rotate bool
}

func newCursor(teams []string, rotate bool) *cursor {
	return &cursor{teams: append([]string(nil), teams...), rotate: rotate}
}

func (c *cursor) next() string {
	if len(c.queue) == 0 {
		c.refill()
	}
	team := c.queue[0]
	c.queue = c.queue[1:]
	return team
}

func (c *cursor) refill() {
	if c.rotate && len(c.teams) > 0 {
		c.teams = append(c.teams[1:], c.teams[0])
	}
	c.queue = append(c.queue, c.teams...)
}
