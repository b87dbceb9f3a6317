/*
   Real time clock ticks for the virtual clock.

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

package timer

import (
	"log/slog"
	"sync"
	"time"

	config "github.com/rcornwell/PPC64/config/configparser"
	"github.com/rcornwell/PPC64/emu/master"
)

// Time between clock ticks, 150 per second.
const Interval = 6666666 * time.Nanosecond

// Set by the REALTIME config switch.
var realTime bool

type Timer struct {
	wg      sync.WaitGroup
	running bool // Indicate when simulator should run or not.
	master  chan master.Packet
	enable  chan bool     // Enable or disable timer.
	done    chan struct{} // Stop timer task.
	ticker  *time.Ticker  // Regular timer intervale.
}

// register a device on initialize.
func init() {
	config.RegisterSwitch("REALTIME", setRealTime)
}

func setRealTime(_ uint16, _ string, _ []config.Option) error {
	realTime = true
	return nil
}

// Clock should run in real time.
func RealTime() bool {
	return realTime
}

// Create instance of Clock timer.
func NewTimer(masterChannel chan master.Packet) *Timer {
	timer := &Timer{
		master:  masterChannel,
		running: false,
		enable:  make(chan bool, 1),
		done:    make(chan struct{}),
	}
	// Run ticker to deliver regular commands on master channel.
	timer.wg.Add(1)
	go timer.run()
	return timer
}

// Start delivering clock ticks.
func (timer *Timer) Start() {
	timer.enable <- true
}

// Stop a timer for some time.
func (timer *Timer) Stop() {
	timer.enable <- false
}

// Shutdown a running server.
func (timer *Timer) Shutdown() {
	close(timer.done)
	done := make(chan struct{})
	go func() {
		timer.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for timer to finish.")
		return
	}
}

// Interval timer routine to send clock ticks on master channel.
func (timer *Timer) run() {
	defer timer.wg.Done()
	timer.ticker = time.NewTicker(Interval)
	defer timer.ticker.Stop()
	timer.running = false

	for {
		select {
		case <-timer.ticker.C:
			if timer.running {
				select {
				case timer.master <- master.Packet{Msg: master.TimeClock}:
				case <-timer.done:
					return
				}
			}
		case timer.running = <-timer.enable:
			if timer.running {
				timer.ticker.Reset(Interval)
			}
		case <-timer.done:
			return
		}
	}
}
