/*
   POWER CPU model.

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
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcornwell/PPC64/emu/event"
	"github.com/rcornwell/PPC64/emu/pmu"
	"github.com/rcornwell/PPC64/util/debug"
)

/*
   The CPU model only carries the state the performance monitor
   interacts with. Guest instructions are not decoded, instead the CPU
   executes blocks of instructions. Each block takes blockSize * nsPerInsn
   nanoseconds of virtual time, and is retired to the PMU at the end of
   the block when the hflags say some counter wants instructions.

   Move to and from SPR requests are routed to the PMU for the PMU
   registers, CTRL and the SPRG registers are held here.
*/

const (
	// Debug options.
	debugIrq = 1 << iota
	debugSpr
	debugStep
)

var debugOption = map[string]int{
	"IRQ":  debugIrq,
	"SPR":  debugSpr,
	"STEP": debugStep,
}

var debugMsk int

// Called when an interrupt line changes.
type IrqHandler func(line int, level bool)

type CPU struct {
	number    int
	clock     *event.Clock
	pmu       *pmu.PMU
	ctrl      uint64       // CTRL register.
	sprg      [4]uint64    // SPRG0 to SPRG3.
	hflags    uint32       // Cached execution flags.
	irqLevel  [NumIRQ]bool // Current level of interrupt lines.
	irqCount  [NumIRQ]int  // Number of times line was raised.
	insns     uint64       // Instructions executed.
	blockSize uint32       // Instructions in a block.
	nsPerInsn uint64       // Virtual time of one instruction.
	handler   IrqHandler
}

// Create a CPU running against clock. Configuration options are applied.
func New(number int, clock *event.Clock) *CPU {
	cpu := &CPU{
		number:    number,
		clock:     clock,
		blockSize: cpuConfig.blockSize,
		nsPerInsn: cpuConfig.nsPerInsn,
	}
	cpu.pmu = pmu.New(cpu, clock)
	cpu.Reset()
	return cpu
}

// Return CPU number.
func (cpu *CPU) Number() int {
	return cpu.number
}

// Return PMU attached to CPU.
func (cpu *CPU) PMU() *pmu.PMU {
	return cpu.pmu
}

// Reset CPU and PMU to power on state.
func (cpu *CPU) Reset() {
	cpu.pmu.Reset()
	cpu.ctrl = 0
	if cpuConfig.run {
		cpu.ctrl = pmu.CtrlRun
	}
	cpu.sprg = [4]uint64{}
	cpu.irqLevel = [NumIRQ]bool{}
	cpu.irqCount = [NumIRQ]int{}
	cpu.insns = 0
	cpu.ComputeHFlags()

	// Power on register settings.
	if cpuConfig.setMMCR1 {
		cpu.pmu.WriteMMCR1(cpuConfig.mmcr1)
	}
	if cpuConfig.setMMCR0 {
		cpu.pmu.WriteMMCR0(cpuConfig.mmcr0)
	}
}

// Release resources held by CPU.
func (cpu *CPU) Close() {
	cpu.pmu.Close()
	slog.Info("CPU closed", "cpu", cpu.number)
}

// Set function to call when interrupt line changes.
func (cpu *CPU) SetInterruptHandler(handler IrqHandler) {
	cpu.handler = handler
}

// Raise or lower an interrupt line.
func (cpu *CPU) SetIRQ(line int, level bool) {
	if line < 0 || line >= NumIRQ {
		return
	}
	if level {
		cpu.irqCount[line]++
		slog.Info("Interrupt raised", "cpu", cpu.number, "line", irqName[line])
	}
	cpu.irqLevel[line] = level
	debug.DebugCPUf(cpu.number, debugMsk, debugIrq, "irq %s level %v count %d",
		irqName[line], level, cpu.irqCount[line])
	if cpu.handler != nil {
		cpu.handler(line, level)
	}
}

// Return current level of interrupt line.
func (cpu *CPU) IRQPending(line int) bool {
	if line < 0 || line >= NumIRQ {
		return false
	}
	return cpu.irqLevel[line]
}

// Return number of times interrupt line was raised.
func (cpu *CPU) IRQCount(line int) int {
	if line < 0 || line >= NumIRQ {
		return 0
	}
	return cpu.irqCount[line]
}

// Acknowledge interrupt, lowers line.
func (cpu *CPU) AckIRQ(line int) {
	if cpu.IRQPending(line) {
		cpu.SetIRQ(line, false)
	}
}

// Recompute hflags from PMU state.
func (cpu *CPU) ComputeHFlags() {
	mmcr0 := cpu.pmu.MMCR0()
	var flags uint32
	if (mmcr0 & pmu.MMCR0PMCC0) != 0 {
		flags |= HFlagPMCC0
	}
	if (mmcr0 & pmu.MMCR0PMCC1) != 0 {
		flags |= HFlagPMCC1
	}
	if (mmcr0 & pmu.MMCR0FC) != 0 {
		flags |= HFlagFC
	}
	if cpu.pmu.InsnCounting() {
		flags |= HFlagInsnCnt
	}
	cpu.hflags = flags
}

// Return hflags.
func (cpu *CPU) HFlags() uint32 {
	return cpu.hflags
}

// CTRL.RUN is set.
func (cpu *CPU) RunLatch() bool {
	return (cpu.ctrl & pmu.CtrlRun) != 0
}

// Set or clear CTRL.RUN.
func (cpu *CPU) SetRunLatch(run bool) {
	if run {
		cpu.ctrl |= pmu.CtrlRun
	} else {
		cpu.ctrl &^= pmu.CtrlRun
	}
}

// Return number of instructions executed.
func (cpu *CPU) Instructions() uint64 {
	return cpu.insns
}

// Move to special purpose register.
func (cpu *CPU) MoveToSPR(spr int, value uint64) error {
	debug.DebugCPUf(cpu.number, debugMsk, debugSpr, "mtspr %s <- %x", SPRName(spr), value)
	if cpu.pmu.MoveToSPR(spr, value) {
		return nil
	}
	switch spr {
	case SprCTRL:
		cpu.ctrl = value & pmu.CtrlRun
	case SprUCTRL:
		return fmt.Errorf("SPR %s is read only", SPRName(spr))
	case SprSPRG0, SprSPRG1, SprSPRG2, SprSPRG3:
		cpu.sprg[spr-SprSPRG0] = value
	default:
		return fmt.Errorf("unknown SPR: %03x", spr)
	}
	return nil
}

// Move from special purpose register.
func (cpu *CPU) MoveFromSPR(spr int) (uint64, error) {
	if value, ok := cpu.pmu.MoveFromSPR(spr); ok {
		return value, nil
	}
	var value uint64
	switch spr {
	case SprUCTRL:
		value = cpu.ctrl
	case SprCTRL:
		return 0, fmt.Errorf("SPR %s is write only", SPRName(spr))
	case SprSPRG0, SprSPRG1, SprSPRG2, SprSPRG3:
		value = cpu.sprg[spr-SprSPRG0]
	default:
		return 0, fmt.Errorf("unknown SPR: %03x", spr)
	}
	debug.DebugCPUf(cpu.number, debugMsk, debugSpr, "mfspr %s -> %x", SPRName(spr), value)
	return value, nil
}

// Execute one block of instructions. Returns nanoseconds used.
func (cpu *CPU) Step() uint64 {
	ns := uint64(cpu.blockSize) * cpu.nsPerInsn
	cpu.clock.Advance(ns)
	cpu.insns += uint64(cpu.blockSize)
	if (cpu.hflags & HFlagInsnCnt) != 0 {
		cpu.pmu.Retire(cpu.blockSize)
	}
	debug.DebugCPUf(cpu.number, debugMsk, debugStep, "block %d insns at %d", cpu.blockSize, cpu.clock.Now())
	return ns
}

// Enable debug options.
func Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("CPU debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
