/*
   POWER PMU special purpose register access.

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

// Return counter id 1 to 6 for a counter SPR, or 0.
func counterID(spr int) int {
	switch {
	case spr >= SprPMC1 && spr <= SprPMC6:
		return spr - SprPMC1 + 1
	case spr >= SprUPMC1 && spr <= SprUPMC6:
		return spr - SprUPMC1 + 1
	}
	return 0
}

// Check if SPR belongs to the PMU.
func IsPMUSPR(spr int) bool {
	switch spr {
	case SprMMCR0, SprUMMCR0, SprMMCR1, SprUMMCR1:
		return true
	}
	return counterID(spr) != 0
}

// Handle mtspr to a PMU register. Returns false if not a PMU register.
func (p *PMU) MoveToSPR(spr int, value uint64) bool {
	switch spr {
	case SprMMCR0, SprUMMCR0:
		p.WriteMMCR0(value)
	case SprMMCR1, SprUMMCR1:
		p.WriteMMCR1(value)
	default:
		id := counterID(spr)
		if id == 0 {
			return false
		}
		p.WritePMC(id, value)
	}
	debug.Debugf("PMU", debugMsk, debugSpr, "mtspr %03x <- %08x", spr, value)
	return true
}

// Handle mfspr from a PMU register. Returns false if not a PMU register.
func (p *PMU) MoveFromSPR(spr int) (uint64, bool) {
	var value uint64
	switch spr {
	case SprMMCR0, SprUMMCR0:
		value = p.mmcr0
	case SprMMCR1, SprUMMCR1:
		value = p.mmcr1
	default:
		id := counterID(spr)
		if id == 0 {
			return 0, false
		}
		value = p.ReadPMC(id)
	}
	debug.Debugf("PMU", debugMsk, debugSpr, "mfspr %03x -> %08x", spr, value)
	return value, true
}
