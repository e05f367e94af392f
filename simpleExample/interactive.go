package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/term"
	log "github.com/sirupsen/logrus"

	"github.com/hjkoskel/pm1006"
)

func printInteractiveHelp() {
	fmt.Printf("---- Interactive commands ----\n")
	fmt.Printf("p = print averages now\n")
	fmt.Printf("m = print measurement history\n")
	fmt.Printf("r = reset history and averages\n")
	fmt.Printf("d = toggle debug logging\n")
	fmt.Printf("h = print this help\n")
}

func getch() []byte {
	t, errOpen := term.Open("/dev/tty")
	if errOpen != nil {
		return nil
	}
	term.RawMode(t)
	bytes := make([]byte, 3)
	numRead, err := t.Read(bytes)
	t.Restore()
	t.Close()
	if err != nil {
		return nil
	}
	return bytes[0:numRead]
}

func printState(state pm1006.SensorState) {
	if !state.Valid {
		color.Set(color.FgRed)
		fmt.Printf("No complete cycle yet (%v/%v readings)\n", state.MeasurementIdx(), pm1006.RINGSIZE)
		color.Unset()
		return
	}
	color.Set(color.FgHiYellow)
	fmt.Printf("%v\n", state.Averages())
	color.Unset()
}

func printHistory(state pm1006.SensorState) {
	fmt.Printf("Current measurements: %v (next %v)\n", state.Measurements(), state.MeasurementIdx())
	fmt.Printf("Temperature measurements: %v\n", state.DegCMeasurements())
	fmt.Printf("Humidity measurements: %v (next %v)\n", state.RelHumidMeasurements(), state.DhtMeasurementIdx())
}

// This have colors :)
func interactiveMode(ctx context.Context, monitor *pm1006.Monitor) {
	printInteractiveHelp()

	for {
		arr := getch()
		if len(arr) == 0 {
			log.Error("no terminal for interactive mode")
			return
		}
		var state pm1006.SensorState
		snapshot := func(m *pm1006.Monitor) { state = m.State() }

		switch string(arr[0]) {
		case "\x03":
			syscall.Kill(syscall.Getpid(), syscall.SIGINT) //Raw mode eats ctrl-c
			return
		case "p":
			if monitor.Inspect(ctx, snapshot) == nil {
				printState(state)
			}
		case "m":
			if monitor.Inspect(ctx, snapshot) == nil {
				printHistory(state)
			}
		case "r":
			fmt.Printf("resetting history\n")
			monitor.Inspect(ctx, func(m *pm1006.Monitor) { m.Reset() })
		case "d":
			if log.GetLevel() == log.DebugLevel {
				log.SetLevel(log.InfoLevel)
			} else {
				log.SetLevel(log.DebugLevel)
			}
			fmt.Printf("log level %v\n", log.GetLevel())
		case "h":
			printInteractiveHelp()
		}
		if ctx.Err() != nil {
			return
		}
	}
}
