/*
   PPC64 PMU emulator main process.

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

package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"
	parser "github.com/rcornwell/PPC64/command/parser"
	reader "github.com/rcornwell/PPC64/command/reader"
	config "github.com/rcornwell/PPC64/config/configparser"
	core "github.com/rcornwell/PPC64/emu/core"
	master "github.com/rcornwell/PPC64/emu/master"
	timer "github.com/rcornwell/PPC64/emu/timer"
	logger "github.com/rcornwell/PPC64/util/logger"

	_ "github.com/rcornwell/PPC64/config/debugconfig"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "PPC64.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optScript := getopt.StringLong("script", 's', "", "Command script to run before console")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("Unable to create log file: " + err.Error())
			os.Exit(1)
		}
		defer file.Close()
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger := slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, *optDebug))
	slog.SetDefault(Logger)

	Logger.Info("PPC64 Started")

	// Configuration file is optional, defaults apply without one.
	_, err := os.Stat(*optConfig)
	switch {
	case err == nil:
		err = config.LoadConfigFile(*optConfig)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	case os.IsNotExist(err):
		Logger.Info("Configuration file " + *optConfig + " not found, using defaults")
	default:
		Logger.Error(err.Error())
		os.Exit(1)
	}

	masterChannel := make(chan master.Packet)

	// Create new routine to run CPU.
	cpu := core.NewCPU(masterChannel)

	// Start main emulator.
	go cpu.Start()

	// Real time clock drives virtual time while stopped.
	var clock *timer.Timer
	if timer.RealTime() {
		clock = timer.NewTimer(masterChannel)
		clock.Start()
	}

	quit := false
	if *optScript != "" {
		script, err := os.Open(*optScript)
		if err != nil {
			Logger.Error(err.Error())
		} else {
			quit, err = parser.RunScript(script, cpu)
			script.Close()
			if err != nil {
				Logger.Error(*optScript + ": " + err.Error())
			}
		}
	}

	if !quit {
		reader.ConsoleReader(cpu)
	}

	if clock != nil {
		clock.Shutdown()
	}
	cpu.Stop()
	Logger.Info("Emulator stopped.")
}
