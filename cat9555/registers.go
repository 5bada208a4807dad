// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cat9555

import (
	"encoding/binary"
	"fmt"
)

// Register is the wire offset of one of the 16-bit registers.
type Register uint8

const (
	Input    Register = 0x00 // Input port, read only.
	Output   Register = 0x02 // Output latch.
	Polarity Register = 0x04 // 1 inverts the input bit.
	Config   Register = 0x06 // 1 is input, 0 is output. Power on value is 0xFFFF.
)

func (r Register) String() string {
	switch r {
	case Input:
		return "INPUT"
	case Output:
		return "OUTPUT"
	case Polarity:
		return "POLARITY"
	case Config:
		return "CONFIG"
	default:
		return fmt.Sprintf("Register(%#02x)", uint8(r))
	}
}

// WordToBytes returns the wire representation of w, MSB first.
func WordToBytes(w uint16) [2]byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], w)
	return b
}

// BytesToWord is the inverse of WordToBytes.
func BytesToWord(b [2]byte) uint16 {
	return binary.BigEndian.Uint16(b[:])
}

// PinMask returns the bit of pin P<port>_<bit> in a register word. Port 0 is
// the MSB on the wire, so P0_0 is bit 8 and P1_0 is bit 0.
func PinMask(port, bit int) uint16 {
	if port == 0 {
		return 1 << (8 + bit)
	}
	return 1 << bit
}
