package engine

import (
	"context"
	"unicode/utf8"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wasmbridge/greet-bridge/errors"
)

// LowerString hands a host string to the calling guest. The bytes are placed
// in guest memory allocated by the guest's own allocator and (ptr, len) is
// written at retptr, little-endian. This mirrors the JNI NewStringUTF
// contract: the allocation lives in the caller's runtime and ownership
// transfers on return.
//
// On allocation failure the null convention (ptr=0, len=requested) is written
// instead and the failure is reported to the lifting side, not as a trap.
func LowerString(ctx context.Context, mod api.Module, retptr uint32, s string) {
	mem := mod.Memory()
	if mem == nil {
		Logger().Warn("lower string: guest has no memory export")
		return
	}

	size := uint32(len(s))
	if size == 0 {
		mem.WriteUint32Le(retptr, 0)
		mem.WriteUint32Le(retptr+4, 0)
		return
	}

	ptr, err := lowerAlloc(ctx, mod, size)
	if err != nil {
		Logger().Warn("lower string: guest allocation failed",
			zap.Uint32("size", size),
			zap.Error(err))
		mem.WriteUint32Le(retptr, 0)
		mem.WriteUint32Le(retptr+4, size)
		return
	}

	if !mem.Write(ptr, []byte(s)) {
		Logger().Warn("lower string: write out of bounds",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size))
		mem.WriteUint32Le(retptr, 0)
		mem.WriteUint32Le(retptr+4, size)
		return
	}

	mem.WriteUint32Le(retptr, ptr)
	mem.WriteUint32Le(retptr+4, size)
}

func lowerAlloc(ctx context.Context, mod api.Module, size uint32) (uint32, error) {
	fn, isRealloc := guestAllocator(mod)
	if fn == nil {
		return 0, errors.NotFound(errors.PhaseCall, "guest allocator", CabiRealloc)
	}
	return callAllocator(ctx, fn, isRealloc, size)
}

// LiftString reads a (ptr, len) pair at retptr and copies the string out of
// guest memory. A null pointer with a non-zero length is the lowered form of
// an allocation failure and is surfaced as KindAllocation.
func LiftString(mem *Memory, retptr uint32) (string, error) {
	ptr, err := mem.ReadU32(retptr)
	if err != nil {
		return "", err
	}
	length, err := mem.ReadU32(retptr + 4)
	if err != nil {
		return "", err
	}

	if length == 0 {
		return "", nil
	}
	if ptr == 0 {
		return "", errors.AllocationFailed(errors.PhaseCall, length)
	}

	data, err := mem.Read(ptr, length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(errors.PhaseCall, data)
	}

	// Copy out: the backing slice aliases guest memory.
	return string(data), nil
}
