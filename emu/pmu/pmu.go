/*
   POWER performance monitor unit.

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

package pmu

import (
	"errors"

	"github.com/rcornwell/PPC64/emu/event"
	"github.com/rcornwell/PPC64/util/debug"
)

const (
	// Debug options.
	debugOverflow = 1 << iota
	debugTimer
	debugSpr
	debugRetire
)

var debugOption = map[string]int{
	"OVERFLOW": debugOverflow,
	"TIMER":    debugTimer,
	"SPR":      debugSpr,
	"RETIRE":   debugRetire,
}

var debugMsk int

// CPU the PMU is attached to.
type CPU interface {
	SetIRQ(line int, level bool) // Raise or lower an interrupt line.
	ComputeHFlags()              // Recompute cached execution flags.
	RunLatch() bool              // CTRL.RUN is set.
}

// PMU holds the performance monitor state of one CPU. All methods must be
// called from the goroutine that owns the CPU and its clock.
type PMU struct {
	cpu      CPU
	clock    *event.Clock
	mmcr0    uint64
	mmcr1    uint64
	pmc      [NumCounters]uint64
	events   [NumCounters]Event
	baseTime uint64       // Time of last cycle flush.
	timer    *event.Timer // Cycle overflow timer.
}

// Create a PMU for cpu. Counters start frozen.
func New(cpu CPU, clock *event.Clock) *PMU {
	p := &PMU{cpu: cpu, clock: clock}
	p.timer = clock.NewTimer(p.overflowTimer, 0)
	p.Reset()
	return p
}

// Put PMU back to power on state. Caller must recompute hflags.
func (p *PMU) Reset() {
	p.timer.Del()
	p.mmcr0 = MMCR0FC
	p.mmcr1 = 0
	p.pmc = [NumCounters]uint64{}
	p.events = decodeEvents(0)
	p.baseTime = p.clock.Now()
}

// Release the overflow timer, PMU can't run after this.
func (p *PMU) Close() {
	p.timer.Release()
}

// Return current MMCR0.
func (p *PMU) MMCR0() uint64 {
	return p.mmcr0
}

// Return current MMCR1.
func (p *PMU) MMCR1() uint64 {
	return p.mmcr1
}

// Return event assigned to counter id 1 to 6.
func (p *PMU) Event(id int) Event {
	if id < 1 || id > NumCounters {
		return Event{}
	}
	return p.events[id-1]
}

// Counters frozen by MMCR0.FC.
func (p *PMU) frozen() bool {
	return (p.mmcr0 & MMCR0FC) != 0
}

// Counter index is counting.
func (p *PMU) active(index int) bool {
	if p.frozen() {
		return false
	}
	if index < 4 {
		return (p.mmcr0 & MMCR0FC14) == 0
	}
	return (p.mmcr0 & MMCR0FC56) == 0
}

// Counter index can raise a condition.
func (p *PMU) overflowEnabled(index int) bool {
	if index == 0 {
		return (p.mmcr0 & MMCR0PMC1CE) != 0
	}
	return (p.mmcr0 & MMCR0PMCjCE) != 0
}

// Counter index drives the overflow timer.
func (p *PMU) cycleCandidate(index int) bool {
	return p.events[index].Type == EventCycles && p.active(index) && p.overflowEnabled(index)
}

// Any running counter is counting instructions.
func (p *PMU) InsnCounting() bool {
	for i := 0; i < 5; i++ {
		if p.events[i].countsInsns() && p.active(i) {
			return true
		}
	}
	return false
}

// Bring cycle counters up to current time.
func (p *PMU) flushCycles() {
	if p.frozen() {
		return
	}
	now := p.clock.Now()
	var delta uint64
	if now > p.baseTime {
		delta = now - p.baseTime
	}
	for i := range p.events {
		if p.events[i].Type == EventCycles && p.active(i) {
			p.pmc[i] = (p.pmc[i] + delta) & counterMask
		}
	}
	p.baseTime = now
}

// Counts until value next turns negative, wrapping at 32 bits.
func untilNegative(value uint64) uint64 {
	value &= counterMask
	if value < CounterNegative {
		return CounterNegative - value
	}
	return counterMask + 1 - value + CounterNegative
}

// Add count to counter index. Returns true if the counter turned negative
// with its condition enabled, the counter is clamped at negative. A counter
// that is already negative keeps counting.
func (p *PMU) addCount(index int, count uint64) bool {
	if p.overflowEnabled(index) && count >= untilNegative(p.pmc[index]) {
		p.pmc[index] = CounterNegative
		return true
	}
	p.pmc[index] = (p.pmc[index] + count) & counterMask
	return false
}

// Account for n completed instructions.
func (p *PMU) Retire(n uint32) {
	if n == 0 || p.frozen() {
		return
	}
	overflow := false
	for i := 0; i < 5; i++ {
		ev := p.events[i]
		if !ev.countsInsns() || !p.active(i) {
			continue
		}
		if ev.Type == EventInsnRunLatch && !p.cpu.RunLatch() {
			continue
		}
		if p.addCount(i, uint64(n)) {
			debug.Debugf("PMU", debugMsk, debugRetire, "PMC%d negative after %d instructions", i+1, n)
			overflow = true
		}
	}
	if overflow {
		p.fireInterrupt()
	}
}

// Write MMCR0.
func (p *PMU) WriteMMCR0(value uint64) {
	old := p.mmcr0

	// Cycles up to now count under the old settings.
	p.flushCycles()
	p.mmcr0 = value
	changed := old ^ value
	if (changed & (MMCR0PMCC | MMCR0FC | MMCR0FC14 | MMCR0FC56)) != 0 {
		p.cpu.ComputeHFlags()
	}

	switch {
	case (old&MMCR0FC) == 0 && (value&MMCR0FC) != 0:
		p.timer.Del()
	case (old&MMCR0FC) != 0 && (value&MMCR0FC) == 0:
		p.baseTime = p.clock.Now()
		p.armTimer()
	case (value&MMCR0FC) == 0 &&
		(changed&(MMCR0PMC1CE|MMCR0PMCjCE|MMCR0FC14|MMCR0FC56)) != 0:
		p.armTimer()
	}
}

// Write MMCR1.
func (p *PMU) WriteMMCR1(value uint64) {
	p.flushCycles()
	p.mmcr1 = value
	p.events = decodeEvents(value)
	p.cpu.ComputeHFlags()
	p.armTimer()
}

// Write counter id 1 to 6, other ids are ignored.
func (p *PMU) WritePMC(id int, value uint64) {
	if id < 1 || id > NumCounters {
		return
	}
	if p.frozen() {
		p.pmc[id-1] = value & counterMask
		return
	}
	p.flushCycles()
	p.pmc[id-1] = value & counterMask
	p.armTimer()
}

// Read counter id 1 to 6, other ids return 0.
func (p *PMU) ReadPMC(id int) uint64 {
	if id < 1 || id > NumCounters {
		return 0
	}
	p.flushCycles()
	return p.pmc[id-1] & counterMask
}

// Enable debug options.
func Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("PMU debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
