/*
   POWER PMU register definitions.

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

// Special purpose register numbers.
const (
	SprUPMC1  = 0x303 // User aliases, same storage as PMCn and MMCRn.
	SprUPMC2  = 0x304
	SprUPMC3  = 0x305
	SprUPMC4  = 0x306
	SprUPMC5  = 0x307
	SprUPMC6  = 0x308
	SprUMMCR0 = 0x30B
	SprUMMCR1 = 0x30E
	SprPMC1   = 0x313
	SprPMC2   = 0x314
	SprPMC3   = 0x315
	SprPMC4   = 0x316
	SprPMC5   = 0x317
	SprPMC6   = 0x318
	SprMMCR0  = 0x31B
	SprMMCR1  = 0x31E
)

// MMCR0 bits, IBM bit numbering is given in the comment.
const (
	MMCR0FC     uint64 = 0x80000000 // 32 Freeze counters.
	MMCR0FCS    uint64 = 0x40000000 // 33 Freeze in supervisor state.
	MMCR0FCP    uint64 = 0x20000000 // 34 Freeze in problem state.
	MMCR0FCM1   uint64 = 0x10000000 // 35 Freeze while mark = 1.
	MMCR0FCM0   uint64 = 0x08000000 // 36 Freeze while mark = 0.
	MMCR0PMAE   uint64 = 0x04000000 // 37 Performance monitor alert enable.
	MMCR0FCECE  uint64 = 0x02000000 // 38 Freeze counters on enabled condition.
	MMCR0EBE    uint64 = 0x00100000 // 43 Event based branch enable.
	MMCR0PMCC   uint64 = 0x000C0000 // 44:45 PMC control.
	MMCR0PMCC0  uint64 = 0x00080000 // 44
	MMCR0PMCC1  uint64 = 0x00040000 // 45
	MMCR0PMC1CE uint64 = 0x00008000 // 48 PMC1 condition enable.
	MMCR0PMCjCE uint64 = 0x00004000 // 49 PMC2-6 condition enable.
	MMCR0PMAO   uint64 = 0x00000080 // 56 Performance monitor alert occurred.
	MMCR0FC14   uint64 = 0x00000020 // 58 Freeze PMC1-4.
	MMCR0FC56   uint64 = 0x00000010 // 59 Freeze PMC5-6.
)

// MMCR1 event selectors.
const (
	mmcr1EvtSize = 8
	evtMask      = (1 << mmcr1EvtSize) - 1
)

// Shift to event selector for PMC1 to PMC4.
var mmcr1EvtShift = [4]uint{24, 16, 8, 0}

// Event selector values.
const (
	SelInstCmpl    = 0x02 // PM_INST_CMPL.
	SelCycles      = 0x1E // PM_CYC, implementation dependent.
	SelPMC1Cycles  = 0xF0 // PM_CYC, architected on PMC1.
	SelPMC4RunInst = 0xFA // PM_RUN_INST_CMPL, PMC4 only.
	SelPMC1Inst    = 0xFE // PM_INST_CMPL, architected on PMC1.
)

const (
	NumCounters = 6

	// Counter negative condition.
	CounterNegative uint64 = 0x80000000

	// Architected width of a counter.
	counterMask uint64 = 0xffffffff

	// CTRL register run latch.
	CtrlRun uint64 = 0x1

	// Interrupt line raised on a performance monitor alert.
	IrqPMC = 1
)
