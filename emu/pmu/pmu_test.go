/*
   POWER PMU test cases.

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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/PPC64/emu/event"
)

type testCPU struct {
	irqs   int  // Number of times PMC line raised.
	level  bool // Current level of PMC line.
	hflags int  // Number of hflags recomputes.
	run    bool // CTRL.RUN.
}

func (c *testCPU) SetIRQ(line int, level bool) {
	if line != IrqPMC {
		return
	}
	if level {
		c.irqs++
	}
	c.level = level
}

func (c *testCPU) ComputeHFlags() {
	c.hflags++
}

func (c *testCPU) RunLatch() bool {
	return c.run
}

func newTest() (*PMU, *testCPU, *event.Clock) {
	cpu := &testCPU{}
	clock := event.NewClock()
	return New(cpu, clock), cpu, clock
}

func TestInit(t *testing.T) {
	p, _, clock := newTest()
	assert.Equal(t, MMCR0FC, p.MMCR0())
	assert.Equal(t, uint64(0), p.MMCR1())
	for id := 1; id <= NumCounters; id++ {
		assert.Equal(t, uint64(0), p.ReadPMC(id), "PMC%d", id)
	}
	assert.Equal(t, EventInstructions, p.Event(5).Type)
	assert.Equal(t, EventCycles, p.Event(6).Type)
	assert.False(t, p.timer.Pending())
	assert.False(t, clock.AnyEvent())
}

func TestDecodeEvents(t *testing.T) {
	tests := []struct {
		name  string
		mmcr1 uint64
		want  [4]EventType
	}{
		{"none", 0, [4]EventType{EventInvalid, EventInvalid, EventInvalid, EventInvalid}},
		{"instructions", 0x02020202, [4]EventType{EventInstructions, EventInstructions, EventInstructions, EventInstructions}},
		{"cycles", 0x1e1e1e1e, [4]EventType{EventCycles, EventCycles, EventCycles, EventCycles}},
		{"pmc1 only", 0xf0f0f0f0, [4]EventType{EventCycles, EventInvalid, EventInvalid, EventInvalid}},
		{"pmc1 insns", 0xfefefefe, [4]EventType{EventInstructions, EventInvalid, EventInvalid, EventInvalid}},
		{"run latch", 0xfafafafa, [4]EventType{EventInvalid, EventInvalid, EventInvalid, EventInsnRunLatch}},
		{"mixed", 0x1e02fa02, [4]EventType{EventCycles, EventInstructions, EventInvalid, EventInstructions}},
		{"upper bits ignored", 0xffffffff_0000001e, [4]EventType{EventInvalid, EventInvalid, EventInvalid, EventCycles}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			events := decodeEvents(test.mmcr1)
			for i, want := range test.want {
				assert.Equal(t, want, events[i].Type, "PMC%d", i+1)
				assert.Equal(t, SprPMC1+i, events[i].SPR)
			}
			assert.Equal(t, EventInstructions, events[4].Type)
			assert.Equal(t, EventCycles, events[5].Type)
		})
	}
}

// Pure cycle count.
func TestCycleCount(t *testing.T) {
	p, cpu, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WriteMMCR0(0)
	clock.Advance(1000000)
	assert.Equal(t, uint64(1000000), p.ReadPMC(1))
	assert.Equal(t, uint64(1000000), p.ReadPMC(6))
	assert.Equal(t, 0, cpu.irqs)
}

// Instruction count with freeze mid run.
func TestInstructionFreeze(t *testing.T) {
	p, _, _ := newTest()
	p.WriteMMCR1(uint64(SelInstCmpl) << 16)
	p.WriteMMCR0(0)
	p.Retire(500)
	p.Retire(250)
	p.WriteMMCR0(MMCR0FC)
	p.Retire(100)
	assert.Equal(t, uint64(750), p.ReadPMC(2))
	assert.Equal(t, uint64(750), p.ReadPMC(5))
}

// Cycle overflow raises interrupt and freezes.
func TestCycleOverflow(t *testing.T) {
	p, cpu, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WritePMC(1, 0x7fffff00)
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0EBE | MMCR0FCECE | MMCR0PMAE)
	require.True(t, p.timer.Pending())
	when, _ := p.timer.Expires()
	assert.Equal(t, uint64(256), when)

	clock.Advance(256)
	assert.Equal(t, 1, cpu.irqs)
	assert.True(t, cpu.level)
	assert.Equal(t, CounterNegative, p.ReadPMC(1))
	mmcr0 := p.MMCR0()
	assert.NotZero(t, mmcr0&MMCR0FC, "FC")
	assert.NotZero(t, mmcr0&MMCR0PMAO, "PMAO")
	assert.Zero(t, mmcr0&MMCR0PMAE, "PMAE")
	assert.Zero(t, mmcr0&MMCR0FCECE, "FCECE")
	assert.False(t, p.timer.Pending())

	// Frozen, nothing more happens.
	clock.Advance(100000)
	assert.Equal(t, 1, cpu.irqs)
	assert.Equal(t, CounterNegative, p.ReadPMC(1))
	assert.Equal(t, uint64(256), p.ReadPMC(6))
}

// Instruction overflow on retire.
func TestInstructionOverflow(t *testing.T) {
	p, cpu, _ := newTest()
	p.WritePMC(5, 0x7ffffffe)
	p.WriteMMCR0(MMCR0PMCjCE | MMCR0EBE)
	p.Retire(4)
	assert.Equal(t, CounterNegative, p.ReadPMC(5))
	assert.Equal(t, 1, cpu.irqs)
	assert.Zero(t, p.MMCR0()&MMCR0FC)

	// Already negative, keeps counting without a new alert.
	p.Retire(4)
	assert.Equal(t, CounterNegative+4, p.ReadPMC(5))
	assert.Equal(t, 1, cpu.irqs)
}

// PMC4 counting with run latch.
func TestRunLatch(t *testing.T) {
	p, cpu, _ := newTest()
	p.WriteMMCR1(SelPMC4RunInst)
	p.WriteMMCR0(0)
	cpu.run = false
	p.Retire(1000)
	assert.Equal(t, uint64(0), p.ReadPMC(4))
	cpu.run = true
	p.Retire(1000)
	assert.Equal(t, uint64(1000), p.ReadPMC(4))
	assert.Equal(t, uint64(2000), p.ReadPMC(5))
}

// Overflow disabled counters wrap.
func TestFreeRunWrap(t *testing.T) {
	p, cpu, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WritePMC(1, 0x7ffffff0)
	p.WriteMMCR0(0)
	assert.False(t, p.timer.Pending())
	clock.Advance(0x100)
	assert.Equal(t, uint64(0x800000f0), p.ReadPMC(1))
	clock.Advance(0x80000000)
	assert.Equal(t, uint64(0xf0), p.ReadPMC(1))
	assert.Equal(t, 0, cpu.irqs)
}

// Condition enabled but exceptions disabled, counter clamps silently.
func TestOverflowNoEBE(t *testing.T) {
	p, cpu, _ := newTest()
	p.WritePMC(5, 0x7fffffff)
	p.WriteMMCR0(MMCR0PMCjCE | MMCR0PMAE)
	p.Retire(10)
	assert.Equal(t, CounterNegative, p.ReadPMC(5))
	assert.Equal(t, 0, cpu.irqs)
	assert.Zero(t, p.MMCR0()&MMCR0PMAO)
	assert.NotZero(t, p.MMCR0()&MMCR0PMAE)
}

func TestFrozenRetire(t *testing.T) {
	p, _, clock := newTest()
	p.WriteMMCR1(0x02020202)
	for rep := 0; rep < 10; rep++ {
		p.Retire(77)
		clock.Advance(1000)
	}
	for id := 1; id <= NumCounters; id++ {
		assert.Equal(t, uint64(0), p.ReadPMC(id), "PMC%d", id)
	}
}

func TestPMC6Elapsed(t *testing.T) {
	p, _, clock := newTest()
	p.WriteMMCR0(0)
	total := uint64(0)
	for _, ns := range []uint64{1, 10, 999, 12345, 0, 7} {
		clock.Advance(ns)
		total += ns
		assert.Equal(t, total, p.ReadPMC(6))
	}
}

func TestPMC5Retire(t *testing.T) {
	p, _, _ := newTest()
	p.WriteMMCR0(0)
	total := uint64(0)
	for _, n := range []uint32{1, 2, 0, 1000, 65536} {
		p.Retire(n)
		total += uint64(n)
	}
	assert.Equal(t, total, p.ReadPMC(5))
}

func TestFreezeRoundTrip(t *testing.T) {
	p, _, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WriteMMCR0(0)
	clock.Advance(100)
	p.WriteMMCR0(MMCR0FC)
	clock.Advance(1000)
	assert.Equal(t, uint64(100), p.ReadPMC(1))
	p.WriteMMCR0(0)
	assert.Equal(t, uint64(100), p.ReadPMC(1))
	clock.Advance(50)
	assert.Equal(t, uint64(150), p.ReadPMC(1))
	assert.Equal(t, uint64(150), p.ReadPMC(6))
}

// FC14 stops PMC1 to PMC4 only.
func TestFreezeDomains(t *testing.T) {
	p, _, clock := newTest()
	p.WriteMMCR1(0x1e020000)
	p.WriteMMCR0(MMCR0FC14)
	p.Retire(10)
	clock.Advance(10)
	assert.Equal(t, uint64(0), p.ReadPMC(1))
	assert.Equal(t, uint64(0), p.ReadPMC(2))
	assert.Equal(t, uint64(10), p.ReadPMC(5))
	assert.Equal(t, uint64(10), p.ReadPMC(6))

	p.WriteMMCR0(MMCR0FC56)
	p.Retire(5)
	clock.Advance(5)
	assert.Equal(t, uint64(5), p.ReadPMC(1))
	assert.Equal(t, uint64(5), p.ReadPMC(2))
	assert.Equal(t, uint64(10), p.ReadPMC(5))
	assert.Equal(t, uint64(10), p.ReadPMC(6))
}

// Freezing PMC1-4 while running takes PMC1 off the timer.
func TestFreezeDomainDisarm(t *testing.T) {
	p, cpu, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WritePMC(1, 0x7fffff00)
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0EBE)
	require.True(t, p.timer.Pending())
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0EBE | MMCR0FC14)
	assert.False(t, p.timer.Pending())
	clock.Advance(1000)
	assert.Equal(t, 0, cpu.irqs)
	assert.Equal(t, uint64(0x7fffff00), p.ReadPMC(1))
}

// Enabling the condition while running arms the timer.
func TestEnableWhileRunning(t *testing.T) {
	p, cpu, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WritePMC(1, 0x7fffff00)
	p.WriteMMCR0(MMCR0EBE)
	clock.Advance(0x80)
	assert.False(t, p.timer.Pending())
	p.WriteMMCR0(MMCR0EBE | MMCR0PMC1CE)
	when, ok := p.timer.Expires()
	require.True(t, ok)
	assert.Equal(t, uint64(0x100), when)
	clock.Advance(0x80)
	assert.Equal(t, 1, cpu.irqs)
	assert.Equal(t, CounterNegative, p.ReadPMC(1))
}

// Writing a counter while running moves the timer.
func TestWritePMCRearm(t *testing.T) {
	p, cpu, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0EBE)
	clock.Advance(10)
	p.WritePMC(1, 0x7ffffff0)
	when, ok := p.timer.Expires()
	require.True(t, ok)
	assert.Equal(t, uint64(26), when)
	assert.Equal(t, 0, cpu.irqs)

	// Negative value written, counts on until it wraps and crosses again.
	p.WritePMC(1, 0x80000010)
	assert.Equal(t, 0, cpu.irqs)
	assert.Equal(t, uint64(0x80000010), p.ReadPMC(1))
	when, ok = p.timer.Expires()
	require.True(t, ok)
	assert.Equal(t, uint64(10+0xfffffff0), when)
}

// Spurious timer fire does nothing.
func TestSpuriousTimer(t *testing.T) {
	p, cpu, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0EBE)
	clock.Advance(10)
	p.overflowTimer(0)
	assert.Equal(t, 0, cpu.irqs)
	assert.Equal(t, uint64(10), p.ReadPMC(1))
	when, ok := p.timer.Expires()
	require.True(t, ok)
	assert.Equal(t, uint64(CounterNegative), when)
}

// Overflow without freeze leaves counter running.
func TestOverflowNoFreeze(t *testing.T) {
	p, cpu, clock := newTest()
	p.WritePMC(6, 0x7ffffff0)
	p.WriteMMCR0(MMCR0PMCjCE | MMCR0EBE | MMCR0PMAE)
	clock.Advance(0x10)
	assert.Equal(t, 1, cpu.irqs)
	assert.Equal(t, CounterNegative, p.ReadPMC(6))
	assert.NotZero(t, p.MMCR0()&MMCR0PMAO)
	assert.Zero(t, p.MMCR0()&MMCR0FC)
	when, ok := p.timer.Expires()
	require.True(t, ok)
	assert.Equal(t, uint64(0x10+0x100000000), when)
	clock.Advance(0x10)
	assert.Equal(t, 1, cpu.irqs)
	assert.Equal(t, CounterNegative+0x10, p.ReadPMC(6))
}

// Counter past negative keeps its value across unrelated writes.
func TestOverflowKeepsCounting(t *testing.T) {
	p, cpu, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WritePMC(1, 0x7ffffff0)
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0EBE)
	clock.Advance(0x10)
	assert.Equal(t, 1, cpu.irqs)
	assert.Equal(t, CounterNegative, p.ReadPMC(1))

	clock.Advance(0x100)
	assert.Equal(t, uint64(0x80000100), p.ReadPMC(1))
	p.WritePMC(2, 5)
	assert.Equal(t, uint64(0x80000100), p.ReadPMC(1))
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0EBE | MMCR0FC56)
	assert.Equal(t, uint64(0x80000100), p.ReadPMC(1))
	assert.Equal(t, 1, cpu.irqs)

	// Next alert only after the counter wraps.
	clock.Advance(0xffffff00 - 1)
	assert.Equal(t, 1, cpu.irqs)
	clock.Advance(1)
	assert.Equal(t, 2, cpu.irqs)
	assert.Equal(t, CounterNegative, p.ReadPMC(1))
}

// With exceptions disabled the counter clamps once and then runs on.
func TestOverflowNoEBEKeepsCounting(t *testing.T) {
	p, cpu, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WritePMC(1, 0x7ffffff0)
	p.WriteMMCR0(MMCR0PMC1CE)
	clock.Advance(0x10)
	assert.Equal(t, CounterNegative, p.ReadPMC(1))

	clock.Advance(0xff0)
	assert.Equal(t, uint64(0x80000ff0), p.ReadPMC(1))
	p.WriteMMCR1(uint64(SelCycles) << 24)
	assert.Equal(t, uint64(0x80000ff0), p.ReadPMC(1))
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0FC56)
	assert.Equal(t, uint64(0x80000ff0), p.ReadPMC(1))
	p.WritePMC(3, 1)
	clock.Advance(0x10)
	assert.Equal(t, uint64(0x80001000), p.ReadPMC(1))
	assert.Equal(t, 0, cpu.irqs)
}

func TestMMCR1Flush(t *testing.T) {
	p, _, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WriteMMCR0(0)
	clock.Advance(100)
	p.WriteMMCR1(uint64(SelInstCmpl) << 24)
	clock.Advance(100)
	p.Retire(3)
	assert.Equal(t, uint64(103), p.ReadPMC(1))
}

func TestHFlags(t *testing.T) {
	p, cpu, _ := newTest()
	assert.False(t, p.InsnCounting())
	count := cpu.hflags
	p.WriteMMCR0(0)
	assert.Greater(t, cpu.hflags, count)
	assert.True(t, p.InsnCounting())

	count = cpu.hflags
	p.WriteMMCR0(MMCR0EBE)
	assert.Equal(t, count, cpu.hflags)

	p.WriteMMCR0(MMCR0FC56)
	assert.False(t, p.InsnCounting())
	p.WriteMMCR1(uint64(SelInstCmpl) << 8)
	assert.True(t, p.InsnCounting())
}

func TestInvalidCounter(t *testing.T) {
	p, _, _ := newTest()
	p.WritePMC(0, 5)
	p.WritePMC(7, 5)
	assert.Equal(t, uint64(0), p.ReadPMC(0))
	assert.Equal(t, uint64(0), p.ReadPMC(7))
	p.WritePMC(3, 0x1_2345_6789)
	assert.Equal(t, uint64(0x23456789), p.ReadPMC(3))
}

func TestSPRAccess(t *testing.T) {
	p, _, clock := newTest()
	require.True(t, p.MoveToSPR(SprUMMCR1, 0x1e000000))
	assert.Equal(t, uint64(0x1e000000), p.MMCR1())
	require.True(t, p.MoveToSPR(SprPMC3, 42))
	v, ok := p.MoveFromSPR(SprUPMC3)
	require.True(t, ok)
	assert.Equal(t, uint64(42), v)
	require.True(t, p.MoveToSPR(SprMMCR0, 0))
	clock.Advance(5)
	v, ok = p.MoveFromSPR(SprPMC1)
	require.True(t, ok)
	assert.Equal(t, uint64(5), v)
	v, _ = p.MoveFromSPR(SprUMMCR0)
	assert.Equal(t, uint64(0), v)

	// User aliases write the same registers.
	require.True(t, p.MoveToSPR(SprUPMC4, 7))
	assert.Equal(t, uint64(7), p.ReadPMC(4))
	require.True(t, p.MoveToSPR(SprUMMCR0, MMCR0FC))
	assert.Equal(t, MMCR0FC, p.MMCR0())

	assert.False(t, p.MoveToSPR(0x100, 1))
	_, ok = p.MoveFromSPR(0x319)
	assert.False(t, ok)
	assert.True(t, IsPMUSPR(SprUPMC6))
	assert.False(t, IsPMUSPR(0x098))
}

func TestSaveLoad(t *testing.T) {
	p, _, clock := newTest()
	p.WriteMMCR1(0x1e020000)
	p.WritePMC(1, 0x7ff00000)
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0EBE)
	clock.Advance(1000)
	p.Retire(33)
	state := p.Save()

	q, cpu, qclock := newTest()
	qclock.SetNow(clock.Now())
	q.Load(state)
	if diff := cmp.Diff(state, q.Save()); diff != "" {
		t.Errorf("Restored state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, EventInstructions, q.Event(2).Type)
	want, _ := p.timer.Expires()
	got, ok := q.timer.Expires()
	require.True(t, ok)
	assert.Equal(t, want, got)

	clock.Advance(500)
	qclock.Advance(500)
	for id := 1; id <= NumCounters; id++ {
		assert.Equal(t, p.ReadPMC(id), q.ReadPMC(id), "PMC%d", id)
	}
	assert.Equal(t, 0, cpu.irqs)
}

func TestResetClose(t *testing.T) {
	p, cpu, clock := newTest()
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0EBE)
	clock.Advance(10)
	p.Reset()
	assert.Equal(t, MMCR0FC, p.MMCR0())
	assert.Equal(t, uint64(0), p.ReadPMC(1))
	assert.False(t, clock.AnyEvent())

	p.WritePMC(1, 0x7ffffff0)
	p.WriteMMCR1(uint64(SelCycles) << 24)
	p.WriteMMCR0(MMCR0PMC1CE | MMCR0EBE)
	require.True(t, p.timer.Pending())
	p.Close()
	assert.False(t, clock.AnyEvent())
	clock.Advance(0x100)
	assert.Equal(t, 0, cpu.irqs)
}

func TestDebug(t *testing.T) {
	assert.NoError(t, Debug("OVERFLOW"))
	assert.Error(t, Debug("BOGUS"))
	debugMsk = 0
}
