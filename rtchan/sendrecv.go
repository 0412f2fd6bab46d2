package rtchan

// send implements spec.md §4.3. val is the element to send; block
// selects the blocking/non-blocking variant. Panics with the stable
// "send on closed channel" string on a closed channel, whether that's
// discovered immediately or after waking from a park.
func (c *channel) send(val any, block bool) bool {
	if c == nil {
		if !block {
			return false
		}
		BlockForever()
	}
	yieldToGC()

	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		panic(panicSendClosed)
	}

	if c.dataqsiz == 0 {
		return c.sendUnbuffered(val, block)
	}
	return c.sendBuffered(val, block)
}

// sendUnbuffered assumes c.mu is held and c is not closed.
func (c *channel) sendUnbuffered(val any, block bool) bool {
	if sg := c.recvq.dequeue(); sg != nil {
		c.mu.Unlock()
		if sg.elem != nil {
			*sg.elem = val
		}
		ready(sg.wake, sg)
		return true
	}
	if !block {
		c.mu.Unlock()
		return false
	}

	sg := acquireSudog()
	sg.elem = &val
	sg.wake = newParkChan()
	c.sendq.enqueue(sg)
	tok := park(sg.wake, c.mu.Unlock)
	releaseSudog(sg)
	if tok == nil {
		panic(panicSendClosed)
	}
	return true
}

// sendBuffered assumes c.mu is held on entry to the loop body below.
func (c *channel) sendBuffered(val any, block bool) bool {
	for {
		if c.closed.Load() {
			c.mu.Unlock()
			panic(panicSendClosed)
		}
		if c.qcount < c.dataqsiz {
			c.buf.Put(val)
			c.qcount++
			waiter := c.recvq.dequeue()
			c.mu.Unlock()
			if waiter != nil {
				ready(waiter.wake, waiter)
			}
			return true
		}
		if !block {
			c.mu.Unlock()
			return false
		}

		sg := acquireSudog()
		sg.wake = newParkChan()
		c.sendq.enqueue(sg)
		park(sg.wake, c.mu.Unlock)
		releaseSudog(sg)
		c.mu.Lock() // loop: racing closer or receiver may have changed state
	}
}

// recv implements spec.md §4.4. out receives the transferred value
// when non-nil; it may be nil for a pure-synchronization recv on a
// zero-size channel. Returns (selected, received).
func (c *channel) recv(out *any, block bool) (bool, bool) {
	if c == nil {
		if !block {
			return false, false
		}
		BlockForever()
	}
	yieldToGC()

	c.mu.Lock()
	if c.dataqsiz == 0 {
		return c.recvUnbuffered(out, block)
	}
	return c.recvBuffered(out, block)
}

func (c *channel) recvUnbuffered(out *any, block bool) (bool, bool) {
	if c.closed.Load() {
		return c.closedRecv(out)
	}
	if sg := c.sendq.dequeue(); sg != nil {
		c.mu.Unlock()
		if out != nil && sg.elem != nil {
			*out = *sg.elem
		}
		ready(sg.wake, sg)
		return true, true
	}
	if !block {
		c.mu.Unlock()
		return false, false
	}

	sg := acquireSudog()
	sg.elem = out
	sg.wake = newParkChan()
	c.recvq.enqueue(sg)
	tok := park(sg.wake, c.mu.Unlock)
	releaseSudog(sg)
	if tok == nil {
		c.mu.Lock()
		return c.closedRecv(out)
	}
	return true, true
}

func (c *channel) recvBuffered(out *any, block bool) (bool, bool) {
	for {
		if c.qcount == 0 {
			if c.closed.Load() {
				return c.closedRecv(out)
			}
			if !block {
				c.mu.Unlock()
				return false, false
			}
			sg := acquireSudog()
			sg.wake = newParkChan()
			c.recvq.enqueue(sg)
			park(sg.wake, c.mu.Unlock)
			releaseSudog(sg)
			c.mu.Lock()
			continue
		}
		v := c.buf.Take()
		c.qcount--
		if out != nil {
			*out = v
		}
		waiter := c.sendq.dequeue()
		c.mu.Unlock()
		if waiter != nil {
			ready(waiter.wake, waiter)
		}
		return true, true
	}
}

// closedRecv assumes c.mu is held and returns the zero-value, closed
// contract: selected=true, received=false (spec.md §4.4 step 3).
func (c *channel) closedRecv(out *any) (bool, bool) {
	if out != nil {
		*out = nil
	}
	c.mu.Unlock()
	return true, false
}
