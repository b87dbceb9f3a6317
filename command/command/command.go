/*
   Console command option definitions.

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

package command

// Option given to a set or unset command.
type CmdOption struct {
	Name     string // Name of option.
	EqualOpt string // Value of string after =.
	Value    uint64 // Numeric value.
}

// List of option types.
const (
	OptionSwitch = 1 + iota
	OptionNumber
	OptionHex
)

const (
	ValidSet = 1 << iota
	ValidUnset
)

type Options struct {
	Name        string // Name of option.
	OptionType  int    // Type of argument.
	OptionValid int    // Option valid for command type.
}

// Options of the CPU that can be changed from the console.
var CPUOptions = []Options{
	{Name: "run", OptionType: OptionSwitch, OptionValid: ValidSet | ValidUnset},
	{Name: "irqstop", OptionType: OptionSwitch, OptionValid: ValidSet | ValidUnset},
	{Name: "pmc1", OptionType: OptionHex, OptionValid: ValidSet},
	{Name: "pmc2", OptionType: OptionHex, OptionValid: ValidSet},
	{Name: "pmc3", OptionType: OptionHex, OptionValid: ValidSet},
	{Name: "pmc4", OptionType: OptionHex, OptionValid: ValidSet},
	{Name: "pmc5", OptionType: OptionHex, OptionValid: ValidSet},
	{Name: "pmc6", OptionType: OptionHex, OptionValid: ValidSet},
	{Name: "mmcr0", OptionType: OptionHex, OptionValid: ValidSet},
	{Name: "mmcr1", OptionType: OptionHex, OptionValid: ValidSet},
}
