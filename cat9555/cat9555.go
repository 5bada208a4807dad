// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cat9555

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/GermanBionicSystems/ioexp/i2cbus"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

var (
	// ErrNoOpener is returned by New when no bus opener is given.
	ErrNoOpener = errors.New("cat9555: bus opener is required")
	// ErrInvalidAddress is returned by New for an address that does not fit
	// in 7 bits.
	ErrInvalidAddress = errors.New("cat9555: invalid 7-bit address")
)

// DefaultAddress is the address with A2 strapped high and A1, A0 low.
const DefaultAddress uint16 = 0x24

// Opts holds the construction options of a Dev.
type Opts struct {
	// BusIndex selects the bus opened for every transaction.
	BusIndex int
	// Address is the 7-bit I²C address of the chip.
	Address uint16
	// Logger receives diagnostics. When nil, slog.Default() is used.
	Logger *slog.Logger
	// SharedBusLock serializes transactions with every other Dev that opted
	// in on the same BusIndex, in addition to the per device lock.
	SharedBusLock bool
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	BusIndex: 1,
	Address:  DefaultAddress,
}

// WriteResult is the outcome of a register write.
type WriteResult struct {
	Register Register
	Value    uint16
	// Err is the transport failure, nil on success.
	Err error
}

// OK reports whether the write reached the device.
func (r WriteResult) OK() bool {
	return r.Err == nil
}

// Dev is a handle to one CAT9555 chip.
type Dev struct {
	// Pins is structured as [port][bit], 2 ports of 8 pins.
	Pins [][]Pin

	o       i2cbus.Opener
	bus     int
	addr    uint16
	name    string
	log     *slog.Logger
	mu      sync.Mutex
	busLock *sync.Mutex
	// active is set while both locks are held.
	active atomic.Bool

	registered []string
}

// New returns a Dev for the chip described by opts. A nil opts uses
// DefaultOpts.
//
// No I/O is done. The pins are registered in gpioreg; a name that is already
// taken is skipped.
func New(o i2cbus.Opener, opts *Opts) (*Dev, error) {
	if o == nil {
		return nil, ErrNoOpener
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Address > 0x7F {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidAddress, opts.Address)
	}
	l := opts.Logger
	if l == nil {
		l = slog.Default().With("driver", "cat9555")
	}
	d := &Dev{
		o:    o,
		bus:  opts.BusIndex,
		addr: opts.Address,
		name: fmt.Sprintf("CAT9555_%d_%x", opts.BusIndex, opts.Address),
		log:  l.With("bus", opts.BusIndex, "addr", fmt.Sprintf("%#02x", opts.Address)),
	}
	if opts.SharedBusLock {
		d.busLock = i2cbus.BusLock(opts.BusIndex)
	}

	d.Pins = make([][]Pin, 2)
	for port := range d.Pins {
		d.Pins[port] = make([]Pin, 8)
		for bit := range d.Pins[port] {
			p := &portpin{dev: d, port: port, bit: bit}
			d.Pins[port][bit] = p
			if err := gpioreg.Register(p); err == nil {
				d.registered = append(d.registered, p.Name())
			}
		}
	}

	d.log.Info("cat9555 created")
	return d, nil
}

func (d *Dev) String() string {
	return d.name
}

// Halt sets every pin to input, the power on state.
func (d *Dev) Halt() error {
	return d.WriteConfig(0xFFFF).Err
}

// Close removes the pin registrations made by New.
func (d *Dev) Close() error {
	for len(d.registered) > 0 {
		if err := gpioreg.Unregister(d.registered[0]); err != nil {
			return err
		}
		d.registered = d.registered[1:]
	}
	return nil
}

// Busy reports whether a transaction is in flight on this device. A device
// still waiting for a shared bus lock is not busy.
func (d *Dev) Busy() bool {
	return d.active.Load()
}

// ReadConfig returns the direction register; a 1 bit is an input.
func (d *Dev) ReadConfig() (uint16, error) {
	return d.readWord(Config)
}

// WriteConfig sets the direction register; a 1 bit is an input.
func (d *Dev) WriteConfig(v uint16) WriteResult {
	return d.writeWord(Config, v)
}

// ReadPolarity returns the polarity inversion register.
func (d *Dev) ReadPolarity() (uint16, error) {
	return d.readWord(Polarity)
}

// WritePolarity sets the polarity inversion register.
func (d *Dev) WritePolarity(v uint16) WriteResult {
	return d.writeWord(Polarity, v)
}

// WriteOutput sets the output latch. Only pins configured as output drive
// the value.
func (d *Dev) WriteOutput(v uint16) WriteResult {
	return d.writeWord(Output, v)
}

// ReadState returns the input register, the level at every pin after
// polarity inversion.
func (d *Dev) ReadState() (uint16, error) {
	return d.readWord(Input)
}

func (d *Dev) lock() {
	d.mu.Lock()
	if d.busLock != nil {
		d.busLock.Lock()
	}
	d.active.Store(true)
}

func (d *Dev) unlock() {
	d.active.Store(false)
	if d.busLock != nil {
		d.busLock.Unlock()
	}
	d.mu.Unlock()
}

func (d *Dev) readWord(r Register) (uint16, error) {
	d.lock()
	defer d.unlock()
	return d.readWordLocked(r)
}

func (d *Dev) writeWord(r Register, w uint16) WriteResult {
	d.lock()
	defer d.unlock()
	res := WriteResult{Register: r, Value: w}
	if err := d.writeWordLocked(r, w); err != nil {
		d.log.Error("register write failed", "register", r.String(), "value", fmt.Sprintf("%#04x", w), "err", err)
		res.Err = err
	}
	return res
}

// updateWord replaces the bits of r selected by mask with bits, holding the
// lock over both transactions. The write is skipped when nothing changes.
func (d *Dev) updateWord(r Register, mask, bits uint16) error {
	d.lock()
	defer d.unlock()
	v, err := d.readWordLocked(r)
	if err != nil {
		return err
	}
	n := v&^mask | bits&mask
	if n == v {
		return nil
	}
	return d.writeWordLocked(r, n)
}

func (d *Dev) readWordLocked(r Register) (w uint16, err error) {
	c, err := d.o.Open(d.bus)
	if err != nil {
		return 0, fmt.Errorf("cat9555: read %s: %w", r, err)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cat9555: read %s: close: %w", r, cerr)
		}
	}()
	var b [2]byte
	if err := c.ReadBlock(d.addr, uint8(r), b[:]); err != nil {
		return 0, fmt.Errorf("cat9555: read %s: %w", r, err)
	}
	w = BytesToWord(b)
	d.log.Debug("register read", "register", r.String(), "value", fmt.Sprintf("%#04x", w))
	return w, nil
}

func (d *Dev) writeWordLocked(r Register, w uint16) (err error) {
	c, err := d.o.Open(d.bus)
	if err != nil {
		return fmt.Errorf("cat9555: write %s: %w", r, err)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cat9555: write %s: close: %w", r, cerr)
		}
	}()
	b := WordToBytes(w)
	if err := c.WriteBlock(d.addr, uint8(r), b[:]); err != nil {
		return fmt.Errorf("cat9555: write %s: %w", r, err)
	}
	d.log.Debug("register written", "register", r.String(), "value", fmt.Sprintf("%#04x", w))
	return nil
}
