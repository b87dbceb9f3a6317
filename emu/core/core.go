/*
   Core PPC64 emulator loop.

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

package core

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/PPC64/emu/cpu"
	"github.com/rcornwell/PPC64/emu/event"
	"github.com/rcornwell/PPC64/emu/master"
	"github.com/rcornwell/PPC64/emu/timer"
)

// Virtual time added for each real time tick while CPU is stopped.
const TickNs = uint64(timer.Interval)

type Core struct {
	wg      sync.WaitGroup
	done    chan struct{} // Signal to shutdown simulator.
	running bool          // Indicate when simulator should run or not.
	irqStop bool          // Stop running on PMC interrupt.
	Master  chan master.Packet
	clock   *event.Clock
	cpu     *cpu.CPU
}

// Create instance of CPU.
func NewCPU(master chan master.Packet) *Core {
	core := &Core{
		Master: master,
		done:   make(chan struct{}),
		clock:  event.NewClock(),
	}
	core.cpu = cpu.New(0, core.clock)
	core.cpu.SetInterruptHandler(core.interrupt)
	return core
}

// Start CPU running. Returns when Stop is called.
func (core *Core) Start() {
	core.wg.Add(1)
	defer core.wg.Done()
	for {
		if core.running {
			core.cpu.Step()
			select {
			case <-core.done:
				core.shutdown()
				return
			case packet := <-core.Master:
				core.processPacket(packet)
			default:
			}
			continue
		}

		select {
		case <-core.done:
			core.shutdown()
			return
		case packet := <-core.Master:
			core.processPacket(packet)
		}
	}
}

// Stop a running server.
func (core *Core) Stop() {
	slog.Info("Shutting down CPU")
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for CPU to finish.")
		return
	}
}

func (core *Core) shutdown() {
	core.running = false
	core.cpu.Close()
}

// Called by CPU when an interrupt line changes.
func (core *Core) interrupt(line int, level bool) {
	if line == cpu.IrqPMC && level && core.irqStop && core.running {
		slog.Info("CPU stopped on PMC interrupt")
		core.running = false
	}
}

// Start CPU.
func (core *Core) SendStart() {
	core.Master <- master.Packet{Msg: master.Start}
}

// Stop CPU.
func (core *Core) SendStop() {
	core.Master <- master.Packet{Msg: master.Stop}
}

// Send a request and wait for the reply.
func (core *Core) Request(packet master.Packet) master.Reply {
	packet.Reply = make(chan master.Reply, 1)
	core.Master <- packet
	return <-packet.Reply
}

// Process a packet sent to system simulation.
func (core *Core) processPacket(packet master.Packet) {
	var reply master.Reply
	switch packet.Msg {
	case master.TimeClock:
		if !core.running {
			core.clock.Advance(TickNs)
		}
	case master.Start:
		slog.Debug("CPU started")
		core.running = true
	case master.Stop:
		slog.Debug("CPU stopped")
		core.running = false
	case master.Step:
		for rep := uint64(0); rep < packet.Count; rep++ {
			core.cpu.Step()
		}
	case master.Advance:
		core.clock.Advance(packet.Count)
	case master.ReadSPR:
		reply.Value, reply.Err = core.cpu.MoveFromSPR(packet.SPR)
	case master.WriteSPR:
		reply.Err = core.cpu.MoveToSPR(packet.SPR, packet.Value)
	case master.RunLatch:
		core.cpu.SetRunLatch(packet.Value != 0)
	case master.IrqStop:
		core.irqStop = packet.Value != 0
	case master.AckIRQ:
		core.cpu.AckIRQ(cpu.IrqPMC)
	case master.Reset:
		core.running = false
		core.cpu.Reset()
	case master.Status:
		reply.Text = core.cpu.Status()
		reply.Value = core.clock.Now()
	case master.Save:
		data, err := core.cpu.Save()
		reply.Text = string(data)
		reply.Err = err
	case master.Restore:
		core.running = false
		reply.Err = core.cpu.Load([]byte(packet.Data))
	default:
		reply.Err = errors.New("unknown request")
	}
	if reply.Err != nil {
		slog.Debug(reply.Err.Error())
	}
	if packet.Reply != nil {
		packet.Reply <- reply
	}
}
