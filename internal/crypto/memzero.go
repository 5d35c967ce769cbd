package crypto

import "runtime"

// Wipe zeroes b. Callers use it on temporary byte copies of passwords once
// hashing or comparison is done. It is best-effort: Go strings cannot be wiped.
//
//go:noinline
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(&b)
}
