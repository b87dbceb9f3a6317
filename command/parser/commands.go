/*
   Console commands.

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
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	command "github.com/rcornwell/PPC64/command/command"
	core "github.com/rcornwell/PPC64/emu/core"
	"github.com/rcornwell/PPC64/emu/cpu"
	"github.com/rcornwell/PPC64/emu/master"
)

// Command output.
var out io.Writer = os.Stdout

// Nesting limit for do files.
const maxDoDepth = 10

var doDepth int

var cmdList []cmd

// Command table, built in init since do refers back to it.
func init() {
	cmdList = []cmd{
		{Name: "set", Min: 3, Process: set, Complete: setComplete},
		{Name: "unset", Min: 4, Process: unset, Complete: unsetComplete},
		{Name: "quit", Min: 4, Process: quit},
		{Name: "stop", Min: 3, Process: stop},
		{Name: "continue", Min: 1, Process: cont},
		{Name: "start", Min: 3, Process: start},
		{Name: "step", Min: 3, Process: step},
		{Name: "advance", Min: 2, Process: advance},
		{Name: "show", Min: 2, Process: show},
		{Name: "examine", Min: 2, Process: examine, Complete: sprComplete},
		{Name: "deposit", Min: 2, Process: deposit, Complete: sprComplete},
		{Name: "ack", Min: 3, Process: ack},
		{Name: "reset", Min: 5, Process: reset},
		{Name: "save", Min: 2, Process: save},
		{Name: "restore", Min: 4, Process: restore},
		{Name: "do", Min: 2, Process: do},
	}
}

// Set output for command results.
func SetOutput(w io.Writer) {
	out = w
}

// Apply set or unset options.
func applyOptions(line *cmdLine, core *core.Core, cmdType int) error {
	optlist, err := line.getOptions(command.CPUOptions, cmdType)
	if err != nil {
		return err
	}
	if len(optlist) == 0 {
		return errors.New("no options given")
	}

	for _, opt := range optlist {
		var reply master.Reply
		value := uint64(1)
		if cmdType == command.ValidUnset {
			value = 0
		}
		switch opt.Name {
		case "run":
			reply = core.Request(master.Packet{Msg: master.RunLatch, Value: value})
		case "irqstop":
			reply = core.Request(master.Packet{Msg: master.IrqStop, Value: value})
		default:
			spr, lerr := cpu.LookupSPR(opt.Name)
			if lerr != nil {
				return lerr
			}
			reply = core.Request(master.Packet{Msg: master.WriteSPR, SPR: spr, Value: opt.Value})
		}
		if reply.Err != nil {
			return reply.Err
		}
	}
	return nil
}

// Handle set commands.
func set(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Set")
	return false, applyOptions(line, core, command.ValidSet)
}

// Set command completion.
func setComplete(line *cmdLine) []string {
	return line.scanOpts(command.CPUOptions, command.ValidSet)
}

// Unset command completion.
func unsetComplete(line *cmdLine) []string {
	return line.scanOpts(command.CPUOptions, command.ValidUnset)
}

// Handle unset commands.
func unset(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Unset")
	return false, applyOptions(line, core, command.ValidUnset)
}

// Handle commands that quit simulation.
func quit(_ *cmdLine, _ *core.Core) (bool, error) {
	slog.Debug("Command Quit")
	return true, nil
}

// Stop the CPU.
func stop(_ *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Stop")
	core.SendStop()
	return false, nil
}

// Continue CPU from where it left off.
func cont(_ *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Continue")
	core.SendStart()
	return false, nil
}

// Start the CPU, counters start from power on state.
func start(_ *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Start")
	core.Request(master.Packet{Msg: master.Reset})
	core.SendStart()
	return false, nil
}

// Execute instruction blocks.
func step(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Step")
	count := uint64(1)
	line.skipSpace()
	if !line.isEOL() {
		var err error
		count, err = line.getNumber()
		if err != nil {
			return false, errors.New("step count must be a number")
		}
	}
	core.Request(master.Packet{Msg: master.Step, Count: count})
	return false, nil
}

// Advance virtual clock.
func advance(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Advance")
	ns, err := line.getNumber()
	if err != nil {
		return false, errors.New("advance requires nanoseconds")
	}
	core.Request(master.Packet{Msg: master.Advance, Count: ns})
	return false, nil
}

// Process the show command.
func show(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Show")
	line.skipSpace()
	if !line.isEOL() {
		return false, errors.New("show takes no options")
	}
	reply := core.Request(master.Packet{Msg: master.Status})
	fmt.Fprint(out, reply.Text)
	return false, nil
}

// Display a register.
func examine(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Examine")
	name := line.getName()
	if name == "" {
		return false, errors.New("examine requires register name")
	}
	spr, err := cpu.LookupSPR(name)
	if err != nil {
		return false, err
	}
	reply := core.Request(master.Packet{Msg: master.ReadSPR, SPR: spr})
	if reply.Err != nil {
		return false, reply.Err
	}
	fmt.Fprintf(out, "%s: %016x\n", cpu.SPRName(spr), reply.Value)
	return false, nil
}

// Set a register.
func deposit(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Deposit")
	name := line.getName()
	if name == "" {
		return false, errors.New("deposit requires register name")
	}
	spr, err := cpu.LookupSPR(name)
	if err != nil {
		return false, err
	}
	value, err := line.getHex()
	if err != nil {
		return false, errors.New("deposit requires hexadecimal value")
	}
	reply := core.Request(master.Packet{Msg: master.WriteSPR, SPR: spr, Value: value})
	return false, reply.Err
}

// Register name completion.
func sprComplete(line *cmdLine) []string {
	return line.scanSPR()
}

// Acknowledge PMC interrupt.
func ack(_ *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Ack")
	core.Request(master.Packet{Msg: master.AckIRQ})
	return false, nil
}

// Reset CPU.
func reset(_ *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Reset")
	core.Request(master.Packet{Msg: master.Reset})
	return false, nil
}

// Save snapshot to file.
func save(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Save")
	name, ok := line.parseQuoteString()
	if !ok || name == "" {
		return false, errors.New("save requires file name")
	}
	reply := core.Request(master.Packet{Msg: master.Save})
	if reply.Err != nil {
		return false, reply.Err
	}
	return false, os.WriteFile(name, []byte(reply.Text), 0o644)
}

// Restore snapshot from file.
func restore(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Restore")
	name, ok := line.parseQuoteString()
	if !ok || name == "" {
		return false, errors.New("restore requires file name")
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return false, err
	}
	reply := core.Request(master.Packet{Msg: master.Restore, Data: string(data)})
	return false, reply.Err
}

// Run commands from a file.
func do(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Do")
	name, ok := line.parseQuoteString()
	if !ok || name == "" {
		return false, errors.New("do requires file name")
	}
	file, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer file.Close()
	return RunScript(file, core)
}

// Process commands from reader, stop at first error.
func RunScript(in io.Reader, core *core.Core) (bool, error) {
	if doDepth >= maxDoDepth {
		return false, errors.New("do files nested too deep")
	}
	doDepth++
	defer func() { doDepth-- }()

	scanner := bufio.NewScanner(in)
	number := 0
	for scanner.Scan() {
		number++
		text := strings.TrimSpace(scanner.Text())
		quit, err := ProcessCommand(text, core)
		if err != nil {
			return false, fmt.Errorf("%w, line: %d", err, number)
		}
		if quit {
			return true, nil
		}
	}
	return false, scanner.Err()
}
