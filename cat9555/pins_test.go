// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cat9555

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"

	"github.com/GermanBionicSystems/ioexp/i2cbus"
	"github.com/GermanBionicSystems/ioexp/i2cbus/i2cbustest"
)

func TestPin_out(t *testing.T) {
	scenario := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			// output latch is read then set
			{Addr: address, W: []byte{0x02}, R: []byte{0x00, 0x00}},
			{Addr: address, W: []byte{0x02, 0x01, 0x00}},
			// config is read then set to output
			{Addr: address, W: []byte{0x06}, R: []byte{0xFF, 0xFF}},
			{Addr: address, W: []byte{0x06, 0xFE, 0xFF}},
			// writing low output
			{Addr: address, W: []byte{0x02}, R: []byte{0x01, 0x00}},
			{Addr: address, W: []byte{0x02, 0x00, 0x00}},
			// config already output, not written
			{Addr: address, W: []byte{0x06}, R: []byte{0xFE, 0xFF}},
		},
	}
	newDev(t, i2cbus.FromBus(scenario), &Opts{BusIndex: 1, Address: address})

	p0 := gpioreg.ByName("CAT9555_1_24_P0_0")
	if p0 == nil {
		t.Fatal("p0 is nil")
	}
	if err := p0.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if err := p0.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if err := scenario.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPin_in(t *testing.T) {
	scenario := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			// config is already input, not written
			{Addr: address, W: []byte{0x06}, R: []byte{0xFF, 0xFF}},
			// input is read high then low
			{Addr: address, W: []byte{0x00}, R: []byte{0x00, 0x08}},
			{Addr: address, W: []byte{0x00}, R: []byte{0xFF, 0xF7}},
		},
	}
	dev := newDev(t, i2cbus.FromBus(scenario), &Opts{BusIndex: 1, Address: address})

	p := dev.Pins[1][3]
	if err := p.In(gpio.Float, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if l := p.Read(); l != gpio.High {
		t.Errorf("Input should be High")
	}
	if l := p.Read(); l != gpio.Low {
		t.Errorf("Input should be Low")
	}
	if err := scenario.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPin_polarity(t *testing.T) {
	scenario := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: address, W: []byte{0x04}, R: []byte{0x00, 0x00}},
			{Addr: address, W: []byte{0x04, 0x00, 0x01}},
			{Addr: address, W: []byte{0x04}, R: []byte{0x00, 0x01}},
		},
	}
	newDev(t, i2cbus.FromBus(scenario), &Opts{BusIndex: 1, Address: address})

	p := gpioreg.ByName("CAT9555_1_24_P1_0").(Pin)
	if err := p.SetPolarityInverted(true); err != nil {
		t.Fatal(err)
	}
	inverted, err := p.IsPolarityInverted()
	if !inverted || err != nil {
		t.Errorf("polarity should return as inverted, got %t, %v", inverted, err)
	}
	if err := scenario.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPin_func(t *testing.T) {
	scenario := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: address, W: []byte{0x06}, R: []byte{0x7F, 0xFF}},
			{Addr: address, W: []byte{0x06}, R: []byte{0x7F, 0xFF}},
			{Addr: address, W: []byte{0x06, 0xFF, 0xFF}},
		},
	}
	dev := newDev(t, i2cbus.FromBus(scenario), &Opts{BusIndex: 1, Address: address})

	p := dev.Pins[0][7]
	if f := p.Func(); f != gpio.OUT {
		t.Errorf("Func() = %q, want OUT", f)
	}
	if err := p.SetFunc(gpio.IN); err != nil {
		t.Fatal(err)
	}
	if err := p.SetFunc(pin.Func("I2C_SDA")); err == nil {
		t.Error("SetFunc(I2C_SDA) should fail")
	}
	if err := scenario.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPin_readErrors(t *testing.T) {
	rec := &i2cbustest.Recorder{ReadErr: errInjected}
	dev := newDev(t, rec, &Opts{BusIndex: 4, Address: address})

	p := dev.Pins[0][0]
	if p.Read() != gpio.Low {
		t.Error("Read() should be Low on bus failure")
	}
	if f := p.Func(); f != pin.FuncNone {
		t.Errorf("Func() = %q on bus failure", f)
	}
	if err := p.Out(gpio.High); err == nil {
		t.Error("Out() should fail")
	}
	if _, err := p.IsPolarityInverted(); err == nil {
		t.Error("IsPolarityInverted() should fail")
	}
	for _, op := range rec.Ops() {
		if op.Write {
			t.Errorf("unexpected write %+v after failed read", op)
		}
	}
}

func TestPin_fixedValues(t *testing.T) {
	rec := &i2cbustest.Recorder{}
	dev := newDev(t, rec, &Opts{BusIndex: 5, Address: 0x20})

	if dev.Pins[0][1].String() != "CAT9555_5_20_P0_1" {
		t.Errorf("String() = %q", dev.Pins[0][1].String())
	}
	if dev.Pins[1][6].Number() != 14 {
		t.Errorf("Number() should return 14")
	}
	if dev.Pins[0][6].WaitForEdge(10*time.Second) != false {
		t.Errorf("WaitForEdge() should return 'false'")
	}
	if dev.Pins[0][5].Pull() != gpio.Float {
		t.Errorf("Pull() should return 'gpio.Float'")
	}
	if dev.Pins[0][5].DefaultPull() != gpio.Float {
		t.Errorf("DefaultPull() should return 'gpio.Float'")
	}
	if err := dev.Pins[0][0].PWM(gpio.DutyHalf, physic.Hertz); err == nil {
		t.Errorf("PWM should return an error")
	}
	if err := dev.Pins[0][0].In(gpio.PullUp, gpio.NoEdge); err == nil {
		t.Errorf("PullUp should return an error")
	}
	if err := dev.Pins[0][0].In(gpio.PullDown, gpio.NoEdge); err == nil {
		t.Errorf("PullDown should return an error")
	}
	if err := dev.Pins[0][0].In(gpio.Float, gpio.BothEdges); err == nil {
		t.Errorf("edge detection should return an error")
	}
	if len(dev.Pins[0][0].SupportedFuncs()) != 2 {
		t.Errorf("SupportedFuncs() should return IN and OUT")
	}
	if n := len(rec.Ops()); n != 0 {
		t.Errorf("got %d bus transfers, want none", n)
	}

	// Halt sets the pin back to input.
	rec.SetWord(0x06, 0x0000)
	if err := dev.Pins[1][0].Halt(); err != nil {
		t.Fatal(err)
	}
	if w := rec.Word(0x06); w != 0x0001 {
		t.Errorf("config = %#04x after Halt, want 0x0001", w)
	}
	if dev.Pins[1][0].Function() != "IN" {
		t.Errorf("Function() = %q after Halt", dev.Pins[1][0].Function())
	}
}

func TestClose_unregisters(t *testing.T) {
	dev, err := New(&i2cbustest.Recorder{}, &Opts{BusIndex: 6, Address: 0x27})
	if err != nil {
		t.Fatal(err)
	}
	if gpioreg.ByName("CAT9555_6_27_P1_7") == nil {
		t.Fatal("pin not registered")
	}
	if err := dev.Close(); err != nil {
		t.Fatal(err)
	}
	if gpioreg.ByName("CAT9555_6_27_P1_7") != nil {
		t.Error("pin still registered after Close")
	}
}

func TestPin_supportedFuncs(t *testing.T) {
	dev := newDev(t, &i2cbustest.Recorder{}, &Opts{BusIndex: 7, Address: address})
	var p pin.PinFunc = dev.Pins[1][3]
	got := p.SupportedFuncs()
	if len(got) != 2 || got[0] != gpio.IN || got[1] != gpio.OUT {
		t.Errorf("SupportedFuncs() = %v", got)
	}
}

func TestPinMask(t *testing.T) {
	if m := PinMask(0, 0); m != 0x0100 {
		t.Errorf("PinMask(0, 0) = %#04x", m)
	}
	if m := PinMask(1, 7); m != 0x0080 {
		t.Errorf("PinMask(1, 7) = %#04x", m)
	}
	dev := newDev(t, &i2cbustest.Recorder{}, &Opts{BusIndex: 8, Address: address})
	var all uint16
	for port, pins := range dev.Pins {
		for bit, p := range pins {
			m := PinMask(port, bit)
			if got := p.(*portpin).mask(); got != m {
				t.Errorf("%s mask %#04x, PinMask %#04x", p, got, m)
			}
			if all&m != 0 {
				t.Errorf("%s shares bit %#04x", p, m)
			}
			all |= m
		}
	}
	if all != 0xFFFF {
		t.Errorf("pins cover %#04x", all)
	}
}
