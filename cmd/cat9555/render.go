// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/maruel/ansi256"

	"github.com/GermanBionicSystems/ioexp/cat9555"
)

var (
	colorHigh = color.NRGBA{R: 0x20, G: 0xD0, B: 0x20, A: 0xFF}
	colorLow  = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
)

// renderPins writes one line per port: the level of pins 0 to 7 followed by
// their direction, i for input and o for output.
func renderPins(w io.Writer, state, config uint16, colored bool) error {
	var buf bytes.Buffer
	_, _ = buf.WriteString("   01234567\n")
	for port := 0; port < 2; port++ {
		_, _ = fmt.Fprintf(&buf, "P%d ", port)
		dirs := make([]byte, 8)
		for bit := 0; bit < 8; bit++ {
			m := cat9555.PinMask(port, bit)
			high := state&m != 0
			switch {
			case colored && high:
				_, _ = buf.WriteString(ansi256.Default.Block(colorHigh))
			case colored:
				_, _ = buf.WriteString(ansi256.Default.Block(colorLow))
			default:
				_, _ = buf.WriteString(strconv.Itoa(boolToInt(high)))
			}
			dirs[bit] = 'o'
			if config&m != 0 {
				dirs[bit] = 'i'
			}
		}
		if colored {
			_, _ = buf.WriteString("\033[0m")
		}
		_, _ = fmt.Fprintf(&buf, "  %s\n", dirs)
	}
	_, err := buf.WriteTo(w)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
