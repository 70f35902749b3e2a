package cache

import "time"

func (c *LRU[K, V]) SetClock(now func() time.Time) {
	c.now = now
}
