// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2cbustest provides an in-memory i2cbus.Opener for tests.
//
// Recorder keeps one byte per register offset, logs every block transfer with
// enter and exit timestamps and counts how many connections are open at the
// same time.
package i2cbustest

import (
	"sync"
	"time"

	"github.com/GermanBionicSystems/ioexp/i2cbus"
)

// Op is one recorded block transfer.
type Op struct {
	Bus   int
	Addr  uint16
	Reg   uint8
	Write bool
	// Data is what was written, or what was returned to the reader.
	Data  []byte
	Enter time.Time
	Exit  time.Time
}

// Recorder implements i2cbus.Opener.
//
// Configure the exported fields before handing the Recorder to a driver.
type Recorder struct {
	// OpenErr, ReadErr, WriteErr and CloseErr are returned by the matching
	// operation when set.
	OpenErr  error
	ReadErr  error
	WriteErr error
	CloseErr error
	// Delay is slept inside each block transfer.
	Delay time.Duration

	mu          sync.Mutex
	regs        map[uint8]byte
	ops         []Op
	opens       int
	closes      int
	inFlight    int
	maxInFlight int
}

// SetWord stores w at reg as the device would return it: MSB at reg, LSB at
// reg+1.
func (r *Recorder) SetWord(reg uint8, w uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init()
	r.regs[reg] = byte(w >> 8)
	r.regs[reg+1] = byte(w)
}

// Word returns the two bytes at reg and reg+1 as a big endian word.
func (r *Recorder) Word(reg uint8) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init()
	return uint16(r.regs[reg])<<8 | uint16(r.regs[reg+1])
}

// Ops returns a copy of the recorded transfers, in order.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Counts returns the number of successful opens and the number of closes.
func (r *Recorder) Counts() (opens, closes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opens, r.closes
}

// MaxInFlight returns the highest number of connections that were open at
// the same time.
func (r *Recorder) MaxInFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxInFlight
}

// Overlapping reports whether any two recorded transfers overlap in time.
func (r *Recorder) Overlapping() bool {
	ops := r.Ops()
	for i := range ops {
		for j := i + 1; j < len(ops); j++ {
			if ops[i].Enter.Before(ops[j].Exit) && ops[j].Enter.Before(ops[i].Exit) {
				return true
			}
		}
	}
	return false
}

// Open implements i2cbus.Opener.
func (r *Recorder) Open(bus int) (i2cbus.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.OpenErr != nil {
		return nil, r.OpenErr
	}
	r.init()
	r.opens++
	r.inFlight++
	if r.inFlight > r.maxInFlight {
		r.maxInFlight = r.inFlight
	}
	return &conn{r: r, bus: bus}, nil
}

func (r *Recorder) init() {
	if r.regs == nil {
		r.regs = map[uint8]byte{}
	}
}

type conn struct {
	r      *Recorder
	bus    int
	closed bool
}

func (c *conn) ReadBlock(addr uint16, reg uint8, b []byte) error {
	enter := time.Now()
	time.Sleep(c.r.Delay)
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	op := Op{Bus: c.bus, Addr: addr, Reg: reg, Enter: enter}
	if c.r.ReadErr == nil {
		for i := range b {
			b[i] = c.r.regs[reg+uint8(i)]
		}
		op.Data = append([]byte(nil), b...)
	}
	op.Exit = time.Now()
	c.r.ops = append(c.r.ops, op)
	return c.r.ReadErr
}

func (c *conn) WriteBlock(addr uint16, reg uint8, b []byte) error {
	enter := time.Now()
	time.Sleep(c.r.Delay)
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	op := Op{Bus: c.bus, Addr: addr, Reg: reg, Write: true, Data: append([]byte(nil), b...), Enter: enter}
	if c.r.WriteErr == nil {
		for i, v := range b {
			c.r.regs[reg+uint8(i)] = v
		}
	}
	op.Exit = time.Now()
	c.r.ops = append(c.r.ops, op)
	return c.r.WriteErr
}

func (c *conn) Close() error {
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.r.closes++
		c.r.inFlight--
	}
	return c.r.CloseErr
}

var _ i2cbus.Opener = &Recorder{}
