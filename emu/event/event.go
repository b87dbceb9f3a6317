/*
   Virtual clock and timers

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package event

import (
	"errors"

	"github.com/rcornwell/PPC64/util/debug"
)

const (
	// Debug options.
	debugTimer = 1 << iota
)

var debugOption = map[string]int{
	"TIMER": debugTimer,
}

var debugMsk int

type Callback = func(iarg int)

// Timer is a single shot timer on a virtual clock. A timer is either idle
// or queued on its clock, never both.
type Timer struct {
	clock    *Clock   // Clock timer runs against.
	cb       Callback // Function to callback
	iarg     int      // Integer argument
	time     uint64   // Nanoseconds after previous event in list.
	pending  bool     // Timer is on the event list.
	released bool     // Timer can no longer be armed.
	prev     *Timer
	next     *Timer
}

// Clock is a virtual nanosecond clock. Time only moves by Advance, timers
// fire in deadline order with the clock set to their deadline.
type Clock struct {
	now  uint64 // Current virtual time in nanoseconds.
	head *Timer
	tail *Timer
}

// Create a new clock starting at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Return current virtual time.
func (c *Clock) Now() uint64 {
	return c.now
}

// Set the current time. Pending timers keep their distance from now.
func (c *Clock) SetNow(now uint64) {
	c.now = now
}

// Allocate a new idle timer.
func (c *Clock) NewTimer(cb Callback, iarg int) *Timer {
	return &Timer{clock: c, cb: cb, iarg: iarg}
}

// Check if any timer is pending.
func (c *Clock) AnyEvent() bool {
	return c.head != nil
}

// Return time until next timer fires.
func (c *Clock) NextEvent() (uint64, bool) {
	if c.head == nil {
		return 0, false
	}
	return c.head.time, true
}

// Advance the clock by ns nanoseconds, firing any timers that expire.
func (c *Clock) Advance(ns uint64) {
	target := c.now + ns
	for c.head != nil && c.head.time <= target-c.now {
		ev := c.head
		c.now += ev.time
		c.head = ev.next
		if c.head != nil {
			c.head.prev = nil
		} else {
			c.tail = nil
		}
		ev.next = nil
		ev.prev = nil
		ev.pending = false
		debug.Debugf("EVENT", debugMsk, debugTimer, "fire at %d", c.now)
		ev.cb(ev.iarg)
	}
	if c.head != nil {
		c.head.time -= target - c.now
	}
	c.now = target
}

// Arm timer to expire at deadline. A deadline in the past expires on the
// next call to Advance.
func (t *Timer) Mod(deadline uint64) {
	if t.released {
		return
	}
	t.Del()
	c := t.clock
	t.time = 0
	if deadline > c.now {
		t.time = deadline - c.now
	}
	t.pending = true
	debug.Debugf("EVENT", debugMsk, debugTimer, "arm %d at %d", deadline, c.now)

	evptr := c.head
	// If empty put on head
	if evptr == nil {
		c.head = t
		c.tail = t
		return
	}

	// Scan for place to install it
	for evptr != nil {
		// Event before next event
		if t.time < evptr.time {
			// Remove current time from next time
			evptr.time -= t.time
			t.prev = evptr.prev
			t.next = evptr
			evptr.prev = t
			if t.prev != nil {
				t.prev.next = t
			} else {
				c.head = t
			}
			return
		}
		// Make new event relative to head of list
		t.time -= evptr.time
		evptr = evptr.next
	}

	// Get here, put it on tail of list
	t.prev = c.tail
	c.tail.next = t
	c.tail = t
}

// Disarm timer. Safe to call on an idle timer.
func (t *Timer) Del() {
	if !t.pending {
		return
	}
	c := t.clock
	nxt := t.next
	// If next event give time to next event
	if nxt != nil {
		nxt.time += t.time
		nxt.prev = t.prev
	} else {
		c.tail = t.prev
	}

	// Point previous event next to next
	if t.prev != nil {
		t.prev.next = nxt
	} else {
		c.head = nxt
	}
	t.prev = nil
	t.next = nil
	t.time = 0
	t.pending = false
}

// Check if timer is armed.
func (t *Timer) Pending() bool {
	return t.pending
}

// Return absolute deadline of an armed timer.
func (t *Timer) Expires() (uint64, bool) {
	if !t.pending {
		return 0, false
	}
	when := t.clock.now
	for evptr := t.clock.head; evptr != nil; evptr = evptr.next {
		when += evptr.time
		if evptr == t {
			break
		}
	}
	return when, true
}

// Release timer, it is disarmed and will never fire again.
func (t *Timer) Release() {
	t.Del()
	t.released = true
}

// Enable debug options.
func Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("event debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
