/*
   POWER CPU configuration.

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
	"strings"

	config "github.com/rcornwell/PPC64/config/configparser"
)

type cpuOptions struct {
	blockSize uint32
	nsPerInsn uint64
	run       bool
	mmcr0     uint64
	mmcr1     uint64
	setMMCR0  bool
	setMMCR1  bool
}

var cpuConfig = defaultOptions()

func defaultOptions() cpuOptions {
	return cpuOptions{blockSize: DefaultBlockSize, nsPerInsn: DefaultNsPerInsn}
}

// Restore configuration to defaults.
func ResetConfig() {
	cpuConfig = defaultOptions()
}

// register a device on initialize.
func init() {
	config.RegisterModel("CPU", config.TypeModel, createCPU)
	config.RegisterModel("PMU", config.TypeModel, createPMU)
}

// Set CPU options.
func createCPU(number uint16, _ string, options []config.Option) error {
	if number != 0 {
		return fmt.Errorf("only CPU 0 supported: %x", number)
	}
	for _, opt := range options {
		switch strings.ToUpper(opt.Name) {
		case "BLOCK":
			v, err := opt.Uint(32)
			if err != nil {
				return err
			}
			if v == 0 {
				return errors.New("block size must be greater than 0")
			}
			cpuConfig.blockSize = uint32(v)
		case "NSPI":
			v, err := opt.Uint(32)
			if err != nil {
				return err
			}
			cpuConfig.nsPerInsn = v
		case "RUN":
			cpuConfig.run = true
		default:
			return errors.New("CPU invalid option: " + opt.Name)
		}
	}
	return nil
}

// Set PMU power on registers.
func createPMU(number uint16, _ string, options []config.Option) error {
	if number != 0 {
		return fmt.Errorf("only PMU 0 supported: %x", number)
	}
	for _, opt := range options {
		switch strings.ToUpper(opt.Name) {
		case "MMCR0":
			v, err := opt.Uint(64)
			if err != nil {
				return err
			}
			cpuConfig.mmcr0 = v
			cpuConfig.setMMCR0 = true
		case "MMCR1":
			v, err := opt.Uint(64)
			if err != nil {
				return err
			}
			cpuConfig.mmcr1 = v
			cpuConfig.setMMCR1 = true
		default:
			return errors.New("PMU invalid option: " + opt.Name)
		}
	}
	return nil
}
