// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cbus

import (
	"fmt"

	"github.com/platinasystems/i2c"
)

func init() {
	backends["platina"] = Platina{}
}

// Platina opens /dev/i2c-N through github.com/platinasystems/i2c.
//
// Transfers use SMBus word data, so only 2 byte blocks are supported. The
// first data byte is the first byte on the wire.
type Platina struct{}

// Open implements Opener.
func (Platina) Open(bus int) (Conn, error) {
	c := &platinaConn{}
	if err := c.bus.Open(bus); err != nil {
		return nil, fmt.Errorf("i2cbus: open bus %d: %w", bus, err)
	}
	return c, nil
}

type platinaConn struct {
	bus i2c.Bus
}

func (c *platinaConn) ReadBlock(addr uint16, reg uint8, r []byte) error {
	if len(r) != 2 {
		return fmt.Errorf("%w: %d bytes", ErrTransferSize, len(r))
	}
	if err := c.bus.ForceSlaveAddress(int(addr)); err != nil {
		return err
	}
	var d i2c.SMBusData
	if err := c.bus.Do(i2c.Read, reg, i2c.WordData, &d); err != nil {
		return err
	}
	r[0] = d[0]
	r[1] = d[1]
	return nil
}

func (c *platinaConn) WriteBlock(addr uint16, reg uint8, w []byte) error {
	if len(w) != 2 {
		return fmt.Errorf("%w: %d bytes", ErrTransferSize, len(w))
	}
	if err := c.bus.ForceSlaveAddress(int(addr)); err != nil {
		return err
	}
	var d i2c.SMBusData
	d[0] = w[0]
	d[1] = w[1]
	return c.bus.Do(i2c.Write, reg, i2c.WordData, &d)
}

func (c *platinaConn) Close() error {
	c.bus.Close()
	return nil
}
