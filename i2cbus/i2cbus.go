// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2cbus provides the block transfer transports used by the expander
// drivers.
//
// A connection is opened per transaction and closed right after. The drivers
// never issue raw byte level I²C operations; every access is a register
// addressed block read or block write.
//
// Three backends are available:
//
//   - periph: periph.io host drivers, all platforms periph supports.
//   - platina: github.com/platinasystems/i2c on Linux /dev/i2c-N.
//   - d2r2: github.com/d2r2/go-i2c on Linux /dev/i2c-N.
package i2cbus

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownBackend is returned by ByName for an unregistered backend.
	ErrUnknownBackend = errors.New("i2cbus: unknown backend")
	// ErrTransferSize is returned when a backend cannot move the requested
	// number of bytes in one transaction.
	ErrTransferSize = errors.New("i2cbus: unsupported transfer size")
)

// Conn is a transient connection to one I²C bus.
type Conn interface {
	// ReadBlock reads len(r) bytes starting at register reg of the device at
	// addr.
	ReadBlock(addr uint16, reg uint8, r []byte) error
	// WriteBlock writes w starting at register reg of the device at addr.
	WriteBlock(addr uint16, reg uint8, w []byte) error
	// Close releases the connection.
	Close() error
}

// Opener opens a connection to the bus with the given index.
type Opener interface {
	Open(bus int) (Conn, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(bus int) (Conn, error)

// Open implements Opener.
func (f OpenerFunc) Open(bus int) (Conn, error) {
	return f(bus)
}

// backends is filled by the backend files, some of which only build on Linux.
var backends = map[string]Opener{
	"periph": Periph{},
}

// ByName returns the backend registered under name. The empty name selects
// periph.
func ByName(name string) (Opener, error) {
	if name == "" {
		name = "periph"
	}
	o, ok := backends[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(Backends(), ", "))
	}
	return o, nil
}

// Backends returns the sorted names of the backends built into this binary.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
