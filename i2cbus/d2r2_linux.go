// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cbus

import (
	"fmt"

	"github.com/d2r2/go-i2c"
)

func init() {
	backends["d2r2"] = D2R2{}
}

// D2R2 opens /dev/i2c-N through github.com/d2r2/go-i2c.
//
// The library binds the slave address when the file is opened, so the device
// file is opened on the first transfer. A read is a register write followed
// by a separate read, not a repeated start.
type D2R2 struct{}

// Open implements Opener.
func (D2R2) Open(bus int) (Conn, error) {
	return &d2r2Conn{bus: bus}, nil
}

type d2r2Conn struct {
	bus  int
	addr uint16
	dev  *i2c.I2C
}

func (c *d2r2Conn) device(addr uint16) (*i2c.I2C, error) {
	if c.dev != nil && c.addr == addr {
		return c.dev, nil
	}
	if err := c.Close(); err != nil {
		return nil, err
	}
	dev, err := i2c.NewI2C(uint8(addr), c.bus)
	if err != nil {
		return nil, fmt.Errorf("i2cbus: open bus %d addr %#x: %w", c.bus, addr, err)
	}
	c.dev = dev
	c.addr = addr
	return dev, nil
}

func (c *d2r2Conn) ReadBlock(addr uint16, reg uint8, r []byte) error {
	dev, err := c.device(addr)
	if err != nil {
		return err
	}
	if _, err := dev.WriteBytes([]byte{reg}); err != nil {
		return err
	}
	n, err := dev.ReadBytes(r)
	if err != nil {
		return err
	}
	if n != len(r) {
		return fmt.Errorf("%w: read %d of %d bytes", ErrTransferSize, n, len(r))
	}
	return nil
}

func (c *d2r2Conn) WriteBlock(addr uint16, reg uint8, w []byte) error {
	dev, err := c.device(addr)
	if err != nil {
		return err
	}
	buf := append([]byte{reg}, w...)
	n, err := dev.WriteBytes(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrTransferSize, n, len(buf))
	}
	return nil
}

func (c *d2r2Conn) Close() error {
	if c.dev == nil {
		return nil
	}
	err := c.dev.Close()
	c.dev = nil
	return err
}
