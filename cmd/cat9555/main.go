// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// cat9555 reads and writes the registers of a CAT9555 I²C GPIO expander.
//
// Usage:
//
//	cat9555 [flags] <command> [value]
//
// Commands:
//
//	read-config            print the direction register, 1 is input
//	write-config VALUE     set the direction register
//	read-polarity          print the polarity inversion register
//	write-polarity VALUE   set the polarity inversion register
//	write-output VALUE     set the output latch
//	read-state             print the input register
//	pins                   print the level and direction of every pin
//
// VALUE accepts Go integer syntax: 255, 0xff, 0b11111111, 0o377.
//
// The device comes from -bus and -addr, or from a YAML board file given with
// -config:
//
//	log:
//	  level: info
//	  format: text
//	devices:
//	  - name: relays
//	    bus: 1
//	    address: 0x24
//	    backend: periph
//	    shared_bus_lock: true
//
// Flags given on the command line override the board file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/GermanBionicSystems/ioexp/cat9555"
	"github.com/GermanBionicSystems/ioexp/i2cbus"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type app struct {
	stdout io.Writer
	stderr io.Writer
	// colored enables ANSI blocks in the pins command.
	colored bool
	open    func(backend string) (i2cbus.Opener, error)
}

func main() {
	fd := os.Stdout.Fd()
	a := &app{
		stdout:  colorable.NewColorableStdout(),
		stderr:  os.Stderr,
		colored: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		open:    i2cbus.ByName,
	}
	os.Exit(a.run(os.Args[1:]))
}

func (a *app) run(args []string) int {
	fs := flag.NewFlagSet("cat9555", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	bus := fs.Int("bus", cat9555.DefaultOpts.BusIndex, "I²C bus index")
	addr := fs.String("addr", fmt.Sprintf("%#x", cat9555.DefaultOpts.Address), "7-bit device address")
	backend := fs.String("backend", "periph", "bus backend, one of "+fmt.Sprint(i2cbus.Backends()))
	configPath := fs.String("config", "", "YAML board file")
	device := fs.String("device", "", "device name in the board file, the first one by default")
	shared := fs.Bool("shared-bus-lock", false, "serialize with other expanders on the same bus")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	logFormat := fs.String("log-format", "", "text or json")
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "usage: cat9555 [flags] <command> [value]\n\ncommands: read-config, write-config, read-polarity, write-polarity, write-output, read-state, pins\n\nflags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg := Defaults()
	if *configPath != "" {
		var err error
		if cfg, err = Load(*configPath); err != nil {
			fmt.Fprintln(a.stderr, err)
			return exitUsage
		}
	}
	dc, err := cfg.Device(*device)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitUsage
	}
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bus":
			dc.Bus = *bus
		case "addr":
			v, err := strconv.ParseUint(*addr, 0, 7)
			if err != nil {
				flagErr = fmt.Errorf("invalid -addr %q: %w", *addr, err)
			}
			dc.Address = uint16(v)
		case "backend":
			dc.Backend = *backend
		case "shared-bus-lock":
			dc.SharedBusLock = *shared
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		}
	})
	if flagErr != nil {
		fmt.Fprintln(a.stderr, flagErr)
		return exitUsage
	}

	log := newLogger(cfg.Log, a.stderr).With("device", dc.Name)
	opener, err := a.open(dc.Backend)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitUsage
	}
	dev, err := cat9555.New(opener, &cat9555.Opts{
		BusIndex:      dc.Bus,
		Address:       dc.Address,
		Logger:        log,
		SharedBusLock: dc.SharedBusLock,
	})
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitUsage
	}
	defer dev.Close()

	if err := a.command(dev, fs.Args()); err != nil {
		fmt.Fprintln(a.stderr, err)
		if errors.Is(err, errUsage) {
			fs.Usage()
			return exitUsage
		}
		return exitFail
	}
	return exitOK
}

var errUsage = errors.New("cat9555: bad usage")

func (a *app) command(dev *cat9555.Dev, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	name, rest := args[0], args[1:]

	reads := map[string]func() (uint16, error){
		"read-config":   dev.ReadConfig,
		"read-polarity": dev.ReadPolarity,
		"read-state":    dev.ReadState,
	}
	writes := map[string]func(uint16) cat9555.WriteResult{
		"write-config":   dev.WriteConfig,
		"write-polarity": dev.WritePolarity,
		"write-output":   dev.WriteOutput,
	}

	if r, ok := reads[name]; ok {
		if len(rest) != 0 {
			return fmt.Errorf("%w: %s takes no value", errUsage, name)
		}
		v, err := r()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.stdout, "%s = 0x%04x\n", registerOf(name), v)
		return err
	}
	if w, ok := writes[name]; ok {
		if len(rest) != 1 {
			return fmt.Errorf("%w: %s takes one value", errUsage, name)
		}
		v, err := parseWord(rest[0])
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		res := w(v)
		if !res.OK() {
			return res.Err
		}
		_, err = fmt.Fprintf(a.stdout, "%s <- 0x%04x\n", res.Register, res.Value)
		return err
	}
	if name == "pins" {
		if len(rest) != 0 {
			return fmt.Errorf("%w: pins takes no value", errUsage)
		}
		config, err := dev.ReadConfig()
		if err != nil {
			return err
		}
		state, err := dev.ReadState()
		if err != nil {
			return err
		}
		return renderPins(a.stdout, state, config, a.colored)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, name)
}

func registerOf(command string) cat9555.Register {
	switch command {
	case "read-config", "write-config":
		return cat9555.Config
	case "read-polarity", "write-polarity":
		return cat9555.Polarity
	case "write-output":
		return cat9555.Output
	default:
		return cat9555.Input
	}
}

func parseWord(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return uint16(v), nil
}
