/*
   POWER PMU overflow timer and interrupt.

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
	"github.com/rcornwell/PPC64/util/debug"
)

// Arm timer for the first cycle counter to turn negative. Counters must
// have been flushed to current time. A counter already negative is timed
// to its next crossing after it wraps.
func (p *PMU) armTimer() {
	p.timer.Del()
	if p.frozen() || (p.mmcr0&(MMCR0PMC1CE|MMCR0PMCjCE)) == 0 {
		return
	}

	found := false
	var soonest uint64
	for i := range p.events {
		if !p.cycleCandidate(i) {
			continue
		}
		remaining := untilNegative(p.pmc[i])
		if !found || remaining < soonest {
			soonest = remaining
			found = true
		}
	}
	if !found {
		return
	}

	deadline := p.clock.Now() + soonest
	debug.Debugf("PMU", debugMsk, debugTimer, "arm overflow timer %d at %d", deadline, p.clock.Now())
	p.timer.Mod(deadline)
}

// Overflow timer expired.
func (p *PMU) overflowTimer(_ int) {
	debug.Debugf("PMU", debugMsk, debugTimer, "overflow timer at %d", p.clock.Now())
	if p.frozen() {
		return
	}
	before := p.pmc
	var elapsed uint64
	if now := p.clock.Now(); now > p.baseTime {
		elapsed = now - p.baseTime
	}
	p.flushCycles()
	p.cycleOverflow(before, elapsed)
}

// Clamp cycle counters that turned negative in the elapsed interval,
// starting from the values in before, and raise interrupt. The timer is
// armed again for the next crossing.
func (p *PMU) cycleOverflow(before [NumCounters]uint64, elapsed uint64) {
	overflow := false
	for i := range p.events {
		if p.cycleCandidate(i) && elapsed >= untilNegative(before[i]) {
			p.pmc[i] = CounterNegative
			debug.Debugf("PMU", debugMsk, debugOverflow, "PMC%d cycles negative", i+1)
			overflow = true
		}
	}
	if overflow {
		p.fireInterrupt()
	}
	p.armTimer()
}

// Signal performance monitor alert.
func (p *PMU) fireInterrupt() {
	if (p.mmcr0 & MMCR0EBE) == 0 {
		debug.Debugf("PMU", debugMsk, debugOverflow, "alert dropped, MMCR0=%08x", p.mmcr0)
		return
	}

	p.flushCycles()
	if (p.mmcr0 & MMCR0FCECE) != 0 {
		p.mmcr0 &^= MMCR0FCECE
		p.mmcr0 |= MMCR0FC
		p.timer.Del()
		p.cpu.ComputeHFlags()
	}

	if (p.mmcr0 & MMCR0PMAE) != 0 {
		p.mmcr0 &^= MMCR0PMAE
		p.mmcr0 |= MMCR0PMAO
	}

	debug.Debugf("PMU", debugMsk, debugOverflow, "alert MMCR0=%08x", p.mmcr0)
	p.cpu.SetIRQ(IrqPMC, true)
}
