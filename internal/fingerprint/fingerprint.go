// Package fingerprint identifies code paths by the return addresses on the call stack.
package fingerprint

import (
	"github.com/zeebo/xxh3"
	"runtime"
	"slices"
	"sync"
	"unsafe"
)

// stackDepth is the number of frames captured without touching the heap.
const stackDepth = 64

// Fingerprint is an ordered sequence of return addresses, innermost first.
type Fingerprint []uintptr

// Capture returns the fingerprint of the calling goroutine.
// skip=0 starts at the caller of Capture, skip=1 at its caller and so on.
// The whole stack is kept: paths that differ only in their outermost frames are distinct.
func Capture(skip int) Fingerprint {
	var stack [stackDepth]uintptr
	pcs := stack[:]
	for {
		// runtime.Callers itself and Capture
		n := runtime.Callers(skip+2, pcs)
		if n < len(pcs) {
			return slices.Clone(pcs[:n])
		}
		pcs = make([]uintptr, len(pcs)*2)
	}
}

func (fp Fingerprint) Equal(other Fingerprint) bool {
	return slices.Equal(fp, other)
}

var hasherPool = sync.Pool{New: func() any { return xxh3.New() }}

// Hash is stable for equal fingerprints within a process.
func (fp Fingerprint) Hash() uint64 {
	if len(fp) == 0 {
		return xxh3.Hash(nil)
	}

	hasher := hasherPool.Get().(*xxh3.Hasher)
	hasher.Reset()

	raw := unsafe.Slice((*byte)(unsafe.Pointer(&fp[0])), len(fp)*int(unsafe.Sizeof(fp[0])))
	_, _ = hasher.Write(raw)
	h := hasher.Sum64()

	hasherPool.Put(hasher)

	return h
}
