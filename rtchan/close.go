package rtchan

// closeChan implements spec.md §4.6: a one-shot open→closed
// transition that drains recvq before sendq, so a pending receiver
// observes "closed and empty" cleanly while senders are still queued,
// and only then wakes senders, who promptly panic on resumption.
func (c *channel) closeChan() {
	if c == nil {
		panic(panicCloseNil)
	}

	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		panic(panicCloseClosed)
	}
	c.closed.Store(true)

	var wakers []*sudog
	for {
		sg := c.recvq.dequeue()
		if sg == nil {
			break
		}
		wakers = append(wakers, sg)
	}
	for {
		sg := c.sendq.dequeue()
		if sg == nil {
			break
		}
		wakers = append(wakers, sg)
	}
	c.mu.Unlock()

	// Every dequeued sudog gets the nil wake token: a receiver reads
	// that as "closed, zero value"; a sender reads it as "closed,
	// panic". A select sudog's shared wake channel sees the same nil
	// and loops back to re-poll (spec.md §4.5 step 6).
	for _, sg := range wakers {
		ready(sg.wake, nil)
	}
}
