/*
   POWER CPU status display.

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

package cpu

import (
	"strconv"
	"strings"

	"github.com/rcornwell/PPC64/emu/pmu"
	"github.com/rcornwell/PPC64/util/hex"
)

var mmcr0Bits = []hex.BitName{
	{Mask: pmu.MMCR0FC, Name: "FC"},
	{Mask: pmu.MMCR0PMAE, Name: "PMAE"},
	{Mask: pmu.MMCR0FCECE, Name: "FCECE"},
	{Mask: pmu.MMCR0EBE, Name: "EBE"},
	{Mask: pmu.MMCR0PMCC, Name: "PMCC"},
	{Mask: pmu.MMCR0PMC1CE, Name: "PMC1CE"},
	{Mask: pmu.MMCR0PMCjCE, Name: "PMCjCE"},
	{Mask: pmu.MMCR0PMAO, Name: "PMAO"},
	{Mask: pmu.MMCR0FC14, Name: "FC14"},
	{Mask: pmu.MMCR0FC56, Name: "FC56"},
}

// Return printable status of CPU and PMU.
func (cpu *CPU) Status() string {
	var str strings.Builder
	p := cpu.pmu

	str.WriteString("CPU" + strconv.Itoa(cpu.number))
	str.WriteString(" time=" + strconv.FormatUint(cpu.clock.Now(), 10))
	str.WriteString(" insns=" + strconv.FormatUint(cpu.insns, 10))
	str.WriteString(" run=" + strconv.FormatBool(cpu.RunLatch()))
	str.WriteString(" pmc irq=" + strconv.FormatBool(cpu.irqLevel[IrqPMC]))
	str.WriteString(" count=" + strconv.Itoa(cpu.irqCount[IrqPMC]) + "\n")

	str.WriteString("MMCR0 ")
	hex.FormatWord(&str, []uint32{uint32(p.MMCR0())})
	hex.FormatBits(&str, p.MMCR0(), mmcr0Bits)
	str.WriteString("\nMMCR1 ")
	hex.FormatWord(&str, []uint32{uint32(p.MMCR1())})
	str.WriteString("\n")

	for id := 1; id <= pmu.NumCounters; id++ {
		str.WriteString("PMC" + strconv.Itoa(id) + "  ")
		hex.FormatWord(&str, []uint32{uint32(p.ReadPMC(id))})
		str.WriteString(p.Event(id).Type.String() + "\n")
	}
	return str.String()
}
