// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ioexp is a container for I²C I/O expander drivers.
//
// The CAT9555 driver lives in package cat9555 and reaches the hardware through
// the transports in package i2cbus.
package ioexp
