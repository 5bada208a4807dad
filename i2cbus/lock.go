// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cbus

import "sync"

var (
	locksMu sync.Mutex
	locks   = map[int]*sync.Mutex{}
)

// BusLock returns the process wide mutex for the bus with the given index.
//
// Every call with the same index returns the same mutex. Drivers that opt in
// hold it around their transactions so that devices sharing a physical bus do
// not interleave.
func BusLock(bus int) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()
	l, ok := locks[bus]
	if !ok {
		l = &sync.Mutex{}
		locks[bus] = l
	}
	return l
}
