/*
   Debug trace output.

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

package debug

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	config "github.com/rcornwell/PPC64/config/configparser"
)

var (
	logFile io.Writer
	logName string
	mu      sync.Mutex
)

// Generic debug message.
func Debugf(module string, mask int, level int, format string, a ...interface{}) {
	if (mask&level) == 0 || logFile == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(logFile, module+": "+format+"\n", a...)
}

// CPU debug message.
func DebugCPUf(number int, mask int, level int, format string, a ...interface{}) {
	if (mask&level) == 0 || logFile == nil {
		return
	}
	cpu := strconv.FormatInt(int64(number), 10)
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(logFile, "CPU"+cpu+": "+format+"\n", a...)
}

// Direct debug output to a writer, nil turns output off.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logFile = w
	logName = ""
}

// register a device on initialize.
func init() {
	config.RegisterFile("DEBUGFILE", create)
}

// Create the debug file.
func create(_ uint16, fileName string, _ []config.Option) error {
	if logName != "" {
		return fmt.Errorf("can't have more then one debug file, previous: %s", logName)
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("unable to create debug file: %s", fileName)
	}

	logFile = file
	logName = fileName
	return nil
}
