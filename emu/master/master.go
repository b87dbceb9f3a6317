/*
   Messages sent to the CPU core.

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

package master

// Message types.
const (
	TimeClock = 1 + iota // Real time tick, advance virtual clock.
	Start                // Start CPU running.
	Stop                 // Stop CPU.
	Step                 // Execute Count instruction blocks.
	Advance              // Advance virtual clock by Count nanoseconds.
	ReadSPR              // Read SPR, value in reply.
	WriteSPR             // Write Value to SPR.
	RunLatch             // Set CTRL.RUN to Value.
	IrqStop              // Stop running on PMC interrupt if Value set.
	AckIRQ               // Lower PMC interrupt line.
	Reset                // Reset CPU and PMU.
	Status               // Return CPU status in reply.
	Save                 // Return snapshot in reply.
	Restore              // Load snapshot in Data.
)

// Reply to a request.
type Reply struct {
	Value uint64
	Text  string // Status or snapshot text.
	Err   error
}

// Packet sent to the core.
type Packet struct {
	Msg   int
	SPR   int        // SPR number for ReadSPR and WriteSPR.
	Value uint64     // Value to write.
	Count uint64     // Blocks to step or nanoseconds to advance.
	Data  string     // Snapshot to restore.
	Reply chan Reply // Channel for response, may be nil.
}
