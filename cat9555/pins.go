// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cat9555

import (
	"errors"
	"strconv"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin extends gpio.PinIO with the polarity inversion of the CAT9555.
type Pin interface {
	gpio.PinIO
	pin.PinFunc
	// SetPolarityInverted inverts the input register bit of the pin when true.
	SetPolarityInverted(p bool) error
	// IsPolarityInverted returns true if the input register bit of the pin is
	// inverted.
	IsPolarityInverted() (bool, error)
}

type portpin struct {
	dev  *Dev
	port int
	bit  int
}

func (p *portpin) mask() uint16 {
	return PinMask(p.port, p.bit)
}

func (p *portpin) String() string {
	return p.Name()
}

func (p *portpin) Halt() error {
	return p.In(gpio.Float, gpio.NoEdge)
}

func (p *portpin) Name() string {
	return p.dev.name + "_P" + strconv.Itoa(p.port) + "_" + strconv.Itoa(p.bit)
}

func (p *portpin) Number() int {
	return 8*p.port + p.bit
}

func (p *portpin) Function() string {
	return string(p.Func())
}

func (p *portpin) In(pull gpio.Pull, edge gpio.Edge) error {
	switch pull {
	case gpio.PullDown:
		return errors.New("cat9555: PullDown is not supported")
	case gpio.PullUp:
		return errors.New("cat9555: PullUp is not supported")
	case gpio.Float, gpio.PullNoChange:
	}
	// The INT line is not routed through I²C.
	if edge != gpio.NoEdge {
		return errors.New("cat9555: edge detection not supported")
	}
	m := p.mask()
	return p.dev.updateWord(Config, m, m)
}

func (p *portpin) Read() gpio.Level {
	v, err := p.dev.readWord(Input)
	if err != nil {
		return gpio.Low
	}
	return v&p.mask() != 0
}

func (p *portpin) WaitForEdge(timeout time.Duration) bool {
	return false
}

func (p *portpin) Pull() gpio.Pull {
	return gpio.Float
}

func (p *portpin) DefaultPull() gpio.Pull {
	return gpio.Float
}

func (p *portpin) Out(l gpio.Level) error {
	m := p.mask()
	var bits uint16
	if l == gpio.High {
		bits = m
	}
	// Latch first so the pin never drives a stale level.
	if err := p.dev.updateWord(Output, m, bits); err != nil {
		return err
	}
	return p.dev.updateWord(Config, m, 0)
}

func (p *portpin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("cat9555: PWM is not supported")
}

func (p *portpin) Func() pin.Func {
	v, err := p.dev.readWord(Config)
	if err != nil {
		return pin.FuncNone
	}
	if v&p.mask() != 0 {
		return gpio.IN
	}
	return gpio.OUT
}

func (p *portpin) SupportedFuncs() []pin.Func {
	return supportedFuncs[:]
}

func (p *portpin) SetFunc(f pin.Func) error {
	m := p.mask()
	switch f {
	case gpio.IN:
		return p.dev.updateWord(Config, m, m)
	case gpio.OUT:
		return p.dev.updateWord(Config, m, 0)
	default:
		return errors.New("cat9555: Function not supported: " + string(f))
	}
}

func (p *portpin) SetPolarityInverted(inv bool) error {
	m := p.mask()
	var bits uint16
	if inv {
		bits = m
	}
	return p.dev.updateWord(Polarity, m, bits)
}

func (p *portpin) IsPolarityInverted() (bool, error) {
	v, err := p.dev.readWord(Polarity)
	return v&p.mask() != 0, err
}

var supportedFuncs = [...]pin.Func{gpio.IN, gpio.OUT}

var _ Pin = &portpin{}
var _ pin.PinFunc = &portpin{}
