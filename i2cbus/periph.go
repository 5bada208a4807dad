// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cbus

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Periph opens buses through the periph.io registry.
//
// The bus index is looked up by number, so bus 1 is /dev/i2c-1 on Linux.
type Periph struct{}

// Open implements Opener.
func (Periph) Open(bus int) (Conn, error) {
	// host.Init is safe to call repeatedly.
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("i2cbus: host init: %w", err)
	}
	b, err := i2creg.Open(strconv.Itoa(bus))
	if err != nil {
		return nil, fmt.Errorf("i2cbus: open bus %d: %w", bus, err)
	}
	return &periphConn{bus: b, closer: b.Close}, nil
}

// FromBus returns an Opener that hands out connections on an already open
// bus, whatever index is asked for. Closing such a connection leaves b open.
//
// This is how i2ctest.Playback and i2ctest.Record are plugged into a driver.
func FromBus(b i2c.Bus) Opener {
	return OpenerFunc(func(int) (Conn, error) {
		return &periphConn{bus: b}, nil
	})
}

type periphConn struct {
	bus    i2c.Bus
	closer func() error
}

func (c *periphConn) ReadBlock(addr uint16, reg uint8, r []byte) error {
	d := i2c.Dev{Bus: c.bus, Addr: addr}
	return d.Tx([]byte{reg}, r)
}

func (c *periphConn) WriteBlock(addr uint16, reg uint8, w []byte) error {
	d := i2c.Dev{Bus: c.bus, Addr: addr}
	return d.Tx(append([]byte{reg}, w...), nil)
}

func (c *periphConn) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
