/*
   POWER PMU snapshot state.

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

// State is the part of the PMU saved in a snapshot. The event table and
// the overflow timer are rebuilt on load.
type State struct {
	MMCR0    uint64              `yaml:"mmcr0"`
	MMCR1    uint64              `yaml:"mmcr1"`
	PMC      [NumCounters]uint64 `yaml:"pmc"`
	BaseTime uint64              `yaml:"base_time"`
}

// Capture state, counters are brought up to date first.
func (p *PMU) Save() State {
	p.flushCycles()
	return State{
		MMCR0:    p.mmcr0,
		MMCR1:    p.mmcr1,
		PMC:      p.pmc,
		BaseTime: p.baseTime,
	}
}

// Restore state. The clock must already be restored.
func (p *PMU) Load(s State) {
	p.timer.Del()
	p.mmcr0 = s.MMCR0
	p.mmcr1 = s.MMCR1
	for i := range s.PMC {
		p.pmc[i] = s.PMC[i] & counterMask
	}
	p.events = decodeEvents(s.MMCR1)
	p.baseTime = s.BaseTime
	p.flushCycles()
	p.cpu.ComputeHFlags()
	p.armTimer()
}
