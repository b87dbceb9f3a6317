/*
   Console command completion.

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

package parser

import (
	"slices"
	"strings"
	"unicode"

	command "github.com/rcornwell/PPC64/command/command"
	"github.com/rcornwell/PPC64/emu/cpu"
)

// Called to complete a command line, during line editing.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord(false)

	// We have a command, let it try and complete it.
	if line.pos > 0 && unicode.IsSpace(rune(line.line[line.pos-1])) {
		// See if there is a completer for this command.
		match := matchList(name)
		if len(match) != 1 {
			return nil
		}

		if match[0].Complete != nil {
			return match[0].Complete(&line)
		}
		return nil
	}

	// Try and match one command.
	var matches []string
	for _, m := range cmdList {
		if strings.HasPrefix(m.Name, name) {
			matches = append(matches, m.Name)
		}
	}
	slices.Sort(matches)
	return matches
}

// Return last partial word and the text before it.
func (line *cmdLine) lastWord() (string, string) {
	start := strings.LastIndexFunc(line.line, unicode.IsSpace) + 1
	if start < line.pos {
		start = line.pos
	}
	return line.line[:start], strings.ToLower(line.line[start:])
}

// Complete options for set and unset.
func (line *cmdLine) scanOpts(opts []command.Options, cmdType int) []string {
	leading, partial := line.lastWord()
	matches := []string{}
	for _, opt := range opts {
		if (opt.OptionValid&cmdType) == 0 || !strings.HasPrefix(opt.Name, partial) {
			continue
		}
		if opt.OptionType == command.OptionSwitch {
			matches = append(matches, leading+opt.Name+" ")
		} else {
			matches = append(matches, leading+opt.Name+"=")
		}
	}
	return matches
}

// Complete register names.
func (line *cmdLine) scanSPR() []string {
	leading, partial := line.lastWord()
	if leading != line.line[:line.pos] {
		return nil
	}
	matches := []string{}
	for _, name := range cpu.SPRNames() {
		name = strings.ToLower(name)
		if strings.HasPrefix(name, partial) {
			matches = append(matches, leading+name+" ")
		}
	}
	return matches
}
