package greetbridge

import "context"

// Memory represents guest linear memory
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	WriteU32(offset uint32, value uint32) error
	Size() uint32
}

// Allocator reserves memory in the guest's linear memory. Ownership of
// returned regions belongs to the guest runtime.
type Allocator interface {
	Alloc(ctx context.Context, size uint32) (uint32, error)
}
