/*
   POWER CPU snapshot.

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
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rcornwell/PPC64/emu/pmu"
)

// Snapshot of CPU and PMU state.
type Snapshot struct {
	CPU   int          `yaml:"cpu"`
	Time  uint64       `yaml:"time"` // Virtual clock.
	Ctrl  uint64       `yaml:"ctrl"`
	SPRG  [4]uint64    `yaml:"sprg"`
	IRQ   [NumIRQ]bool `yaml:"irq"`
	Insns uint64       `yaml:"insns"`
	PMU   pmu.State    `yaml:"pmu"`
}

// Capture current state.
func (cpu *CPU) Snapshot() Snapshot {
	return Snapshot{
		CPU:   cpu.number,
		Time:  cpu.clock.Now(),
		Ctrl:  cpu.ctrl,
		SPRG:  cpu.sprg,
		IRQ:   cpu.irqLevel,
		Insns: cpu.insns,
		PMU:   cpu.pmu.Save(),
	}
}

// Restore state from snapshot. The virtual clock is set to the saved
// time.
func (cpu *CPU) Restore(snap Snapshot) error {
	if snap.CPU != cpu.number {
		return fmt.Errorf("snapshot is for CPU %d not %d", snap.CPU, cpu.number)
	}
	cpu.clock.SetNow(snap.Time)
	cpu.ctrl = snap.Ctrl & pmu.CtrlRun
	cpu.sprg = snap.SPRG
	cpu.irqLevel = snap.IRQ
	cpu.insns = snap.Insns
	cpu.pmu.Load(snap.PMU)
	return nil
}

// Save state as YAML.
func (cpu *CPU) Save() ([]byte, error) {
	return yaml.Marshal(cpu.Snapshot())
}

// Load state from YAML.
func (cpu *CPU) Load(data []byte) error {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("snapshot not valid: %w", err)
	}
	return cpu.Restore(snap)
}
