/*
   Virtual clock test cases.

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
	"testing"
)

type device struct {
	clock *Clock
	iarg  int
	time  uint64
	hits  int
}

var (
	deviceA device
	deviceB device
	deviceC device
	deviceD device
)

// Callbacks, save clock in routine time and set argument to iarg.
func (d *device) callback(iarg int) {
	d.iarg = iarg
	d.time = d.clock.Now()
	d.hits++
}

// Callback that arms device A again relative to its own firing time.
func (d *device) chainCallback(iarg int) {
	d.callback(iarg)
	deviceA.timer(deviceA.callback, iarg).Mod(d.clock.Now() + uint64(iarg))
}

var timers map[*device]*Timer

func (d *device) timer(cb Callback, iarg int) *Timer {
	t, ok := timers[d]
	if !ok {
		t = d.clock.NewTimer(cb, iarg)
		timers[d] = t
	}
	return t
}

// Initialize for each test.
func initTest() *Clock {
	clock := NewClock()
	timers = map[*device]*Timer{}
	for _, d := range []*device{&deviceA, &deviceB, &deviceC, &deviceD} {
		*d = device{clock: clock}
	}
	return clock
}

// Step clock one nanosecond at a time.
func run(clock *Clock, steps int) {
	for rep := 0; rep < steps; rep++ {
		clock.Advance(1)
	}
}

func TestAddEvent1(t *testing.T) {
	clock := initTest()
	deviceA.timer(deviceA.callback, 1).Mod(10)
	run(clock, 20)
	if deviceA.time != 10 {
		t.Errorf("Event did not fire at correct time %d got %d", 10, deviceA.time)
	}
	if deviceA.iarg != 1 {
		t.Errorf("Event did not set data correct %d got %d", 1, deviceA.iarg)
	}
	if clock.Now() != 20 {
		t.Errorf("Clock not correct %d got %d", 20, clock.Now())
	}
}

// Add two events.
func TestAddEvent2(t *testing.T) {
	clock := initTest()
	deviceA.timer(deviceA.callback, 1).Mod(10)
	deviceB.timer(deviceB.callback, 2).Mod(5)
	run(clock, 20)
	if deviceA.time != 10 {
		t.Errorf("Event A did not fire at correct time %d got %d", 10, deviceA.time)
	}
	if deviceB.time != 5 {
		t.Errorf("Event B did not fire at correct time %d got %d", 5, deviceB.time)
	}
	if deviceB.iarg != 2 {
		t.Errorf("Event B did not set data correct %d got %d", 2, deviceB.iarg)
	}
}

// Add event With same time.
func TestAddEvent3(t *testing.T) {
	clock := initTest()
	deviceA.timer(deviceA.callback, 1).Mod(10)
	deviceB.timer(deviceB.callback, 2).Mod(10)
	run(clock, 20)
	if deviceA.time != 10 {
		t.Errorf("Event A did not fire at correct time %d got %d", 10, deviceA.time)
	}
	if deviceB.time != 10 {
		t.Errorf("Event B did not fire at correct time %d got %d", 10, deviceB.time)
	}
}

// Add event during event.
func TestAddEvent4(t *testing.T) {
	clock := initTest()
	deviceC.timer(deviceC.chainCallback, 10).Mod(10)
	run(clock, 30)
	if deviceC.time != 10 {
		t.Errorf("Event C did not fire at correct time %d got %d", 10, deviceC.time)
	}
	if deviceA.time != 20 {
		t.Errorf("Event A did not fire at correct time %d got %d", 20, deviceA.time)
	}
	if deviceA.iarg != 10 {
		t.Errorf("Event A did not set data correct %d got %d", 10, deviceA.iarg)
	}
}

// Schedule 3 events, make sure all are correct.
func TestAddEvent5(t *testing.T) {
	clock := initTest()
	deviceA.timer(deviceA.callback, 1).Mod(20)
	deviceB.timer(deviceB.callback, 2).Mod(20)
	deviceD.timer(deviceD.callback, 3).Mod(25)
	run(clock, 30)
	if deviceA.time != 20 {
		t.Errorf("Event A did not fire at correct time %d got %d", 20, deviceA.time)
	}
	if deviceB.time != 20 {
		t.Errorf("Event B did not fire at correct time %d got %d", 20, deviceB.time)
	}
	if deviceD.time != 25 {
		t.Errorf("Event D did not fire at correct time %d got %d", 25, deviceD.time)
	}
}

// Cancel an event.
func TestCancelEvent(t *testing.T) {
	clock := initTest()
	deviceA.timer(deviceA.callback, 5).Mod(10)
	tb := deviceB.timer(deviceB.callback, 2)
	tb.Mod(20)
	td := deviceD.timer(deviceD.callback, 3)
	td.Mod(30)
	for rep := 0; rep < 30; rep++ {
		clock.Advance(1)
		if deviceA.iarg == 5 {
			tb.Del()
		}
	}
	if deviceA.time != 10 {
		t.Errorf("Event A did not fire at correct time %d got %d", 10, deviceA.time)
	}
	if deviceB.hits != 0 {
		t.Errorf("Event B fired after cancel %d times", deviceB.hits)
	}
	if deviceD.time != 30 {
		t.Errorf("Event D did not fire at correct time %d got %d", 30, deviceD.time)
	}
}

// Advance over several deadlines in one call.
func TestAdvanceLarge(t *testing.T) {
	clock := initTest()
	deviceA.timer(deviceA.callback, 1).Mod(100)
	deviceB.timer(deviceB.callback, 2).Mod(256)
	deviceD.timer(deviceD.callback, 3).Mod(5000)
	clock.Advance(1000)
	if deviceA.time != 100 || deviceB.time != 256 {
		t.Errorf("Events fired at wrong time A=%d B=%d", deviceA.time, deviceB.time)
	}
	if deviceD.hits != 0 {
		t.Errorf("Event D fired early")
	}
	next, ok := clock.NextEvent()
	if !ok || next != 4000 {
		t.Errorf("Next event not correct %d got %d", 4000, next)
	}
	clock.Advance(4000)
	if deviceD.time != 5000 {
		t.Errorf("Event D did not fire at correct time %d got %d", 5000, deviceD.time)
	}
	if clock.AnyEvent() {
		t.Errorf("Events still pending")
	}
}

// Re-arming a pending timer moves it.
func TestModPending(t *testing.T) {
	clock := initTest()
	ta := deviceA.timer(deviceA.callback, 1)
	ta.Mod(50)
	ta.Mod(20)
	when, ok := ta.Expires()
	if !ok || when != 20 {
		t.Errorf("Timer deadline not correct %d got %d", 20, when)
	}
	clock.Advance(100)
	if deviceA.hits != 1 || deviceA.time != 20 {
		t.Errorf("Timer fired %d times at %d", deviceA.hits, deviceA.time)
	}
}

// Deadline in the past fires on next advance, not immediately.
func TestModPast(t *testing.T) {
	clock := initTest()
	clock.Advance(100)
	deviceA.timer(deviceA.callback, 7).Mod(50)
	if deviceA.hits != 0 {
		t.Errorf("Timer fired during Mod")
	}
	clock.Advance(0)
	if deviceA.hits != 1 || deviceA.time != 100 {
		t.Errorf("Timer fired %d times at %d", deviceA.hits, deviceA.time)
	}
}

// Released timer never fires.
func TestRelease(t *testing.T) {
	clock := initTest()
	ta := deviceA.timer(deviceA.callback, 1)
	ta.Mod(10)
	ta.Release()
	ta.Mod(20)
	clock.Advance(100)
	if deviceA.hits != 0 {
		t.Errorf("Released timer fired")
	}
	if ta.Pending() {
		t.Errorf("Released timer pending")
	}
}
