/*
   Hex formatting of registers.

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

package hex

import "strings"

var hexMap = "0123456789ABCDEF"

// Name of a bit within a register.
type BitName struct {
	Mask uint64
	Name string
}

// Format 32 bit words, each followed by a space.
func FormatWord(str *strings.Builder, word []uint32) {
	for _, full := range word {
		shift := 28
		for rep := 0; rep < 8; rep++ {
			str.WriteByte(hexMap[(full>>shift)&0xf])
			shift -= 4
		}
		str.WriteByte(' ')
	}
}

// Format 64 bit value as two 32 bit halves.
func FormatDouble(str *strings.Builder, value uint64) {
	FormatWord(str, []uint32{uint32(value >> 32)})
	FormatWord(str, []uint32{uint32(value)})
}

func FormatByte(str *strings.Builder, data byte) {
	str.WriteByte(hexMap[(data>>4)&0xf])
	str.WriteByte(hexMap[data&0xf])
}

func FormatDigit(str *strings.Builder, data byte) {
	str.WriteByte(hexMap[data&0xf])
}

// Format names of bits set in value, separated by '|'.
func FormatBits(str *strings.Builder, value uint64, names []BitName) {
	first := true
	for _, bit := range names {
		if (value & bit.Mask) == 0 {
			continue
		}
		if !first {
			str.WriteByte('|')
		}
		str.WriteString(bit.Name)
		first = false
	}
	if first {
		str.WriteByte('-')
	}
}
