/*
   POWER PMU event decoder.

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

// Type of event a counter is counting.
type EventType int

const (
	EventInvalid      EventType = iota // Counter is stopped.
	EventInstructions                  // Completed instructions.
	EventCycles                        // Processor cycles.
	EventInsnRunLatch                  // Completed instructions while CTRL.RUN set.
)

var eventName = map[EventType]string{
	EventInvalid:      "invalid",
	EventInstructions: "instructions",
	EventCycles:       "cycles",
	EventInsnRunLatch: "insn-runlatch",
}

func (t EventType) String() string {
	name, ok := eventName[t]
	if !ok {
		return "unknown"
	}
	return name
}

// Event currently assigned to a counter.
type Event struct {
	Type EventType
	SPR  int // SPR number of counter.
}

// Counts instructions, with or without run latch.
func (e Event) countsInsns() bool {
	return e.Type == EventInstructions || e.Type == EventInsnRunLatch
}

// Return the MMCR1 event selector for PMC1 to PMC4, index 0 to 3.
func selector(mmcr1 uint64, index int) uint8 {
	return uint8((mmcr1 >> mmcr1EvtShift[index]) & evtMask)
}

// Decode event for a programmable counter.
func decodeEvent(sel uint8, index int) EventType {
	switch sel {
	case SelInstCmpl:
		return EventInstructions
	case SelCycles:
		return EventCycles
	case SelPMC1Cycles:
		if index == 0 {
			return EventCycles
		}
	case SelPMC4RunInst:
		if index == 3 {
			return EventInsnRunLatch
		}
	case SelPMC1Inst:
		if index == 0 {
			return EventInstructions
		}
	}
	return EventInvalid
}

// Build event table for all counters from MMCR1.
func decodeEvents(mmcr1 uint64) [NumCounters]Event {
	var events [NumCounters]Event
	for i := 0; i < 4; i++ {
		events[i] = Event{Type: decodeEvent(selector(mmcr1, i), i), SPR: SprPMC1 + i}
	}
	events[4] = Event{Type: EventInstructions, SPR: SprPMC5}
	events[5] = Event{Type: EventCycles, SPR: SprPMC6}
	return events
}
