// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/dcpu/emulator"
	"github.com/ezrec/dcpu/internal"
)

func main() {
	var compile string
	var write string
	var defines bool
	var input string
	var output string
	var ticks int
	var refresh int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".dasm file to assemble")
	flag.StringVar(&write, "w", "", "Write assembled words to a listing file, do not execute")
	flag.BoolVar(&defines, "d", false, "List the predefined equates, do not execute")
	flag.StringVar(&input, "i", "-", "Keyboard input")
	flag.StringVar(&output, "o", "-", "Display output")
	flag.IntVar(&ticks, "n", 0, "Maximum ticks to execute (0 = until finished)")
	flag.IntVar(&refresh, "r", emulator.REFRESH_TICKS, "Ticks between display refreshes")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.RefreshTicks = refresh

	if defines {
		for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
			fmt.Printf(".equ %v %v\n", key, value)
		}
		return
	}

	if len(compile) == 0 {
		log.Fatalf("%v: no source file (-c)", os.Args[0])
	}

	source, err := os.ReadFile(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	err = emu.Assemble(string(source))
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	if len(write) != 0 {
		ouf, err := os.Create(write)
		if err != nil {
			log.Fatalf("%v: %v", write, err)
		}
		defer ouf.Close()

		wr := bufio.NewWriter(ouf)
		for ip, code := range emu.Program.Codes() {
			dbg := emu.Program.Debug(ip)
			fmt.Fprintf(wr, "%04x: %-24v ; line %d\n", ip, code, dbg.LineNo)
		}
		for ip, word := range emu.Program.Binary() {
			if ip%8 == 0 {
				fmt.Fprintf(wr, "\n%04x:", ip)
			}
			fmt.Fprintf(wr, " %04x", word)
		}
		fmt.Fprintln(wr)

		err = wr.Flush()
		if err != nil {
			log.Fatalf("%v: %v", write, err)
		}
		return
	}

	restore := func() {}
	if input == "-" {
		emu.Keyboard.Input, restore = openTerminal()
		defer restore()
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Keyboard.Input = inf
	}

	if output == "-" {
		emu.Display.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Display.Output = ouf
	}

	err = emu.Reset()
	if err != nil {
		restore()
		log.Fatalf("%v: %v", compile, err)
	}

	err = emu.Run(ticks)
	if err != nil {
		restore()
		log.Print(emu.Cpu.String())
		log.Fatalf("%v: %v", compile, err)
	}

	if verbose {
		log.Printf("%v: %d ticks, %d cycles", compile, emu.Ticks(), emu.Cycles())
	}
}
