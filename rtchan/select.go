package rtchan

import (
	"go.uber.org/atomic"

	"github.com/rtchan/rtchan/internal/lockorder"
)

// scase.kind values (spec.md §4.5).
const (
	caseNil = iota
	caseRecv
	caseSend
	caseDefault
)

type scase struct {
	kind int
	c    *channel
	elem *any // send: value to send (read-only); recv: destination
	idx  int
}

// channelHandle is implemented by *Chan[T]; it is how Select accepts
// heterogeneously-typed channels as cases without itself being
// generic — the same type-erasure-by-boxing trick the core engine
// uses for element storage (SPEC_FULL.md §3).
type channelHandle interface {
	core() *channel
}

// Select is the builder for a multi-way atomic choice among N
// send/recv cases plus an optional default (spec.md §4.5). The zero
// value is not usable; construct with NewSelect.
type Select struct {
	cases []scase
}

// NewSelect preallocates room for n cases. n is a hint, not a limit.
func NewSelect(n int) *Select {
	if n < 0 {
		n = 0
	}
	return &Select{cases: make([]scase, 0, n)}
}

// Send adds a send case. A nil channel is inert: the case is simply
// never added, so it can never be chosen (spec.md §4.5 edge cases).
func (s *Select) Send(ch channelHandle, idx int, elem any) {
	c := ch.core()
	if c == nil {
		return
	}
	v := elem
	s.cases = append(s.cases, scase{kind: caseSend, c: c, elem: &v, idx: idx})
}

// Recv adds a recv case.
func (s *Select) Recv(ch channelHandle, idx int) {
	c := ch.core()
	if c == nil {
		return
	}
	var v any
	s.cases = append(s.cases, scase{kind: caseRecv, c: c, elem: &v, idx: idx})
}

// Default adds the (at most one) default case.
func (s *Select) Default(idx int) {
	s.cases = append(s.cases, scase{kind: caseDefault, idx: idx})
}

type fireResult struct {
	idx     int
	recvOK  bool
	recvVal any
}

// Go runs the seven-step algorithm of spec.md §4.5 and returns the
// winning case's index, plus recvOK/recvVal (meaningful only when the
// winning case was a recv).
func (s *Select) Go() (chosen int, recvOK bool, recvVal any) {
	if len(s.cases) == 0 {
		// No cases at all, or every case was a nil channel and there
		// was no default: park forever (spec.md §4.5 edge cases).
		BlockForever()
	}

	locks := s.buildLockOrder()

	for {
		pollorder := shufflePollOrder(len(s.cases))

		lockAll(locks)
		res, fired, panicMsg := s.tryFire(pollorder)
		if panicMsg != "" {
			unlockAll(locks)
			panic(panicMsg)
		}
		if fired {
			unlockAll(locks)
			return res.idx, res.recvOK, res.recvVal
		}
		if idx, ok := s.tryDefault(); ok {
			unlockAll(locks)
			return idx, false, nil
		}

		// Pass 2: commit. Every non-default case gets a sudog on its
		// channel's appropriate WaitQ; all share one selectDone flag
		// and one wake channel, so at most one of them ever wakes us.
		done := atomic.NewUint32(0)
		wake := newParkChan()
		sudogs := make([]*sudog, len(s.cases))
		for i := range s.cases {
			cs := &s.cases[i]
			if cs.kind == caseDefault {
				continue
			}
			sg := acquireSudog()
			sg.wake = wake
			sg.selectDone = done
			sg.isSelect = true
			sg.elem = cs.elem
			if cs.kind == caseRecv {
				cs.c.recvq.enqueue(sg)
			} else {
				cs.c.sendq.enqueue(sg)
			}
			sudogs[i] = sg
		}

		winnerTok := park(wake, func() { unlockAll(locks) })

		// Pass 3: re-acquire every lock, then remove every sudog that
		// did not win (spec.md §4.5 step 6).
		lockAll(locks)
		var winSudog *sudog
		if winnerTok != nil {
			winSudog, _ = winnerTok.(*sudog)
		}
		winIdx := -1
		for i := range s.cases {
			cs := &s.cases[i]
			sg := sudogs[i]
			if sg == nil {
				continue
			}
			if sg == winSudog {
				winIdx = i
				continue
			}
			if cs.kind == caseRecv {
				cs.c.recvq.remove(sg)
			} else {
				cs.c.sendq.remove(sg)
			}
			releaseSudog(sg)
		}

		if winSudog == nil {
			// A channel in the set was closed while we were parked;
			// none of our cases actually transferred data. Re-poll.
			unlockAll(locks)
			continue
		}

		cs := &s.cases[winIdx]
		if c := cs.c; c.dataqsiz > 0 {
			// Another routine may have taken the freed slot or the
			// buffered value, or closed the channel, before the locks
			// were re-acquired: re-poll, as plain buffered send/recv do.
			stale := c.closed.Load() || c.qcount == c.dataqsiz
			if cs.kind == caseRecv {
				stale = c.qcount == 0
			}
			if stale {
				releaseSudog(winSudog)
				unlockAll(locks)
				continue
			}
		}
		res = s.commitWin(cs)
		releaseSudog(winSudog)
		unlockAll(locks)
		return res.idx, res.recvOK, res.recvVal
	}
}

// tryFire is pass 1, the opportunistic scan (spec.md §4.5 step 4).
// On a panicMsg return, every lock is still held — the caller must
// unlock before panicking.
func (s *Select) tryFire(pollorder []int) (res fireResult, fired bool, panicMsg string) {
	for _, i := range pollorder {
		cs := &s.cases[i]
		switch cs.kind {
		case caseRecv:
			if r, ok := s.fireRecv(cs); ok {
				return r, true, ""
			}
		case caseSend:
			r, ok, msg := s.fireSend(cs)
			if msg != "" {
				return fireResult{}, false, msg
			}
			if ok {
				return r, true, ""
			}
		}
	}
	return fireResult{}, false, ""
}

func (s *Select) fireRecv(cs *scase) (fireResult, bool) {
	c := cs.c
	if c.dataqsiz > 0 {
		if c.qcount > 0 {
			v := c.buf.Take()
			c.qcount--
			if waiter := c.sendq.dequeue(); waiter != nil {
				ready(waiter.wake, waiter)
			}
			if cs.elem != nil {
				*cs.elem = v
			}
			return fireResult{idx: cs.idx, recvOK: true, recvVal: v}, true
		}
		if c.closed.Load() {
			if cs.elem != nil {
				*cs.elem = nil
			}
			return fireResult{idx: cs.idx, recvOK: false}, true
		}
		return fireResult{}, false
	}
	// unbuffered
	if sg := c.sendq.dequeue(); sg != nil {
		var v any
		if sg.elem != nil {
			v = *sg.elem
		}
		ready(sg.wake, sg)
		if cs.elem != nil {
			*cs.elem = v
		}
		return fireResult{idx: cs.idx, recvOK: true, recvVal: v}, true
	}
	if c.closed.Load() {
		if cs.elem != nil {
			*cs.elem = nil
		}
		return fireResult{idx: cs.idx, recvOK: false}, true
	}
	return fireResult{}, false
}

func (s *Select) fireSend(cs *scase) (fireResult, bool, string) {
	c := cs.c
	if c.closed.Load() {
		return fireResult{}, false, panicSendClosed
	}
	if c.dataqsiz > 0 && c.qcount < c.dataqsiz {
		c.buf.Put(*cs.elem)
		c.qcount++
		if waiter := c.recvq.dequeue(); waiter != nil {
			ready(waiter.wake, waiter)
		}
		return fireResult{idx: cs.idx}, true, ""
	}
	if sg := c.recvq.dequeue(); sg != nil {
		if sg.elem != nil {
			*sg.elem = *cs.elem
		}
		ready(sg.wake, sg)
		return fireResult{idx: cs.idx}, true, ""
	}
	return fireResult{}, false, ""
}

func (s *Select) tryDefault() (int, bool) {
	for i := range s.cases {
		if s.cases[i].kind == caseDefault {
			return s.cases[i].idx, true
		}
	}
	return 0, false
}

// commitWin performs step 7: the winning transfer for a case that was
// parked and then woken, rather than fired opportunistically in pass
// 1. For an unbuffered channel the peer has already moved the data
// through cs.elem directly; for a buffered channel, the parked side
// goes back to the ring itself, as a plain blocked send/recv does on
// wake (spec.md §4.3/§4.4 rationale). Go calls it for a buffered case
// only after re-checking that the slot or value is still there.
func (s *Select) commitWin(cs *scase) fireResult {
	c := cs.c
	switch cs.kind {
	case caseRecv:
		if c.dataqsiz > 0 {
			v := c.buf.Take()
			c.qcount--
			if waiter := c.sendq.dequeue(); waiter != nil {
				ready(waiter.wake, waiter)
			}
			if cs.elem != nil {
				*cs.elem = v
			}
			return fireResult{idx: cs.idx, recvOK: true, recvVal: v}
		}
		var v any
		if cs.elem != nil {
			v = *cs.elem
		}
		return fireResult{idx: cs.idx, recvOK: true, recvVal: v}
	case caseSend:
		if c.dataqsiz > 0 {
			c.buf.Put(*cs.elem)
			c.qcount++
			if waiter := c.recvq.dequeue(); waiter != nil {
				ready(waiter.wake, waiter)
			}
		}
		return fireResult{idx: cs.idx}
	default:
		throw("select: commit on a case with no direction")
		return fireResult{}
	}
}

func (s *Select) buildLockOrder() []*channel {
	byID := make(map[uint64]*channel, len(s.cases))
	for i := range s.cases {
		cs := &s.cases[i]
		if cs.kind == caseDefault {
			continue
		}
		byID[cs.c.id] = cs.c
	}
	ids := make([]uint64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	lockorder.Sort(ids)
	chans := make([]*channel, len(ids))
	for i, id := range ids {
		chans[i] = byID[id]
	}
	return chans
}

func lockAll(chans []*channel) {
	for _, c := range chans {
		c.mu.Lock()
	}
}

func unlockAll(chans []*channel) {
	for i := len(chans) - 1; i >= 0; i-- {
		chans[i].mu.Unlock()
	}
}

// shufflePollOrder is step 1: a Fisher-Yates shuffle of 0..n, giving
// uniform random fairness among simultaneously-ready cases.
func shufflePollOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := fastrand(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// SelectDir mirrors reflect.SelectDir's three constants exactly, for
// the reflection-style adapter described in spec.md §6.
type SelectDir int

const (
	_ SelectDir = iota
	SelectSend
	SelectRecv
	SelectDefault
)

// SelectCase is one case of a dynamically assembled select, built the
// way reflect.SelectCase is: a direction, a channel handle, and (for
// a send) the value to send.
type SelectCase struct {
	Dir  SelectDir
	Chan channelHandle
	Send any
}

// SelectReflect is the reflection adapter: it accepts a vector of
// (direction, channel, element) cases and returns (chosen index,
// received value, recv ok) — the shape spec.md §6 calls out
// explicitly for callers that assemble cases dynamically rather than
// at compile time.
func SelectReflect(cases []SelectCase) (chosen int, recvVal any, recvOK bool) {
	sel := NewSelect(len(cases))
	for i, cs := range cases {
		switch cs.Dir {
		case SelectSend:
			sel.Send(cs.Chan, i, cs.Send)
		case SelectRecv:
			sel.Recv(cs.Chan, i)
		case SelectDefault:
			sel.Default(i)
		}
	}
	idx, ok, val := sel.Go()
	return idx, val, ok
}
