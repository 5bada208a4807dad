// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cat9555 drives the ON Semiconductor CAT9555 16-bit I²C GPIO
// expander. The TCA9555, PCA9555 and PCA9535 share its register map.
//
// # Datasheet
//
// https://www.onsemi.com/pdf/datasheet/cat9555-d.pdf
//
// # Registers
//
// The chip has four 16-bit registers: input, output, polarity inversion and
// configuration. Each is transferred as one 2 byte block, most significant
// byte first. The most significant byte is port 0, so pin P0_k is bit 8+k of
// a word and pin P1_k is bit k.
//
// # Access
//
// Every access opens a connection on the bus, transfers one block and closes
// the connection again. Nothing is cached. A per device mutex keeps at most
// one transaction in flight; opt in to Opts.SharedBusLock to also serialize
// with other devices on the same bus index.
//
// Reads return their error. Writes report failure through WriteResult and log
// it, so callers that only care about success can test OK().
package cat9555
