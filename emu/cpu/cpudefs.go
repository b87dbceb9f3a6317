/*
   POWER CPU definitions.

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
	"slices"
	"strconv"
	"strings"

	"github.com/rcornwell/PPC64/emu/pmu"
)

// SPR numbers handled by the CPU itself.
const (
	SprUCTRL = 0x088 // CTRL read.
	SprCTRL  = 0x098 // CTRL write.
	SprSPRG0 = 0x110
	SprSPRG1 = 0x111
	SprSPRG2 = 0x112
	SprSPRG3 = 0x113
)

// hflags, cached execution state for the translator.
const (
	HFlagPMCC0   uint32 = 1 << iota // MMCR0.PMCC low bit.
	HFlagPMCC1                      // MMCR0.PMCC high bit.
	HFlagFC                         // MMCR0.FC, counters frozen.
	HFlagInsnCnt                    // Some counter is counting instructions.
)

// Interrupt lines.
const (
	IrqExternal = 0
	IrqPMC      = pmu.IrqPMC
	NumIRQ      = 2
)

var irqName = [NumIRQ]string{"external", "pmc"}

// Defaults for an unconfigured CPU.
const (
	DefaultBlockSize = 100 // Instructions in a block.
	DefaultNsPerInsn = 1   // Nanoseconds per instruction.
)

// Register names known to examine and deposit.
var sprNames = map[string]int{
	"UCTRL":  SprUCTRL,
	"CTRL":   SprCTRL,
	"SPRG0":  SprSPRG0,
	"SPRG1":  SprSPRG1,
	"SPRG2":  SprSPRG2,
	"SPRG3":  SprSPRG3,
	"UPMC1":  pmu.SprUPMC1,
	"UPMC2":  pmu.SprUPMC2,
	"UPMC3":  pmu.SprUPMC3,
	"UPMC4":  pmu.SprUPMC4,
	"UPMC5":  pmu.SprUPMC5,
	"UPMC6":  pmu.SprUPMC6,
	"UMMCR0": pmu.SprUMMCR0,
	"UMMCR1": pmu.SprUMMCR1,
	"PMC1":   pmu.SprPMC1,
	"PMC2":   pmu.SprPMC2,
	"PMC3":   pmu.SprPMC3,
	"PMC4":   pmu.SprPMC4,
	"PMC5":   pmu.SprPMC5,
	"PMC6":   pmu.SprPMC6,
	"MMCR0":  pmu.SprMMCR0,
	"MMCR1":  pmu.SprMMCR1,
}

// Look up SPR by name or hex number.
func LookupSPR(name string) (int, error) {
	spr, ok := sprNames[strings.ToUpper(name)]
	if ok {
		return spr, nil
	}
	num, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(name), "0x"), 16, 10)
	if err != nil {
		return 0, fmt.Errorf("unknown SPR: %s", name)
	}
	return int(num), nil
}

// Return name of SPR.
func SPRName(spr int) string {
	for name, num := range sprNames {
		if num == spr && !strings.HasPrefix(name, "U") {
			return name
		}
	}
	for name, num := range sprNames {
		if num == spr {
			return name
		}
	}
	return fmt.Sprintf("SPR%03x", spr)
}

// Return sorted list of register names.
func SPRNames() []string {
	names := make([]string, 0, len(sprNames))
	for name := range sprNames {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
