package engine

import (
	"github.com/tetratelabs/wazero/api"

	greetbridge "github.com/wasmbridge/greet-bridge"
	"github.com/wasmbridge/greet-bridge/errors"
)

// Memory wraps wazero linear memory with bounds-checked accessors.
type Memory struct {
	mem api.Memory
}

func (m *Memory) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseCall, offset, length)
	}
	return data, nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseCall, offset, uint32(len(data)))
	}
	return nil
}

func (m *Memory) ReadU32(offset uint32) (uint32, error) {
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseCall, offset, 4)
	}
	return val, nil
}

func (m *Memory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseCall, offset, 4)
	}
	return nil
}

// Size returns the current size of linear memory in bytes.
func (m *Memory) Size() uint32 {
	return m.mem.Size()
}

// Compile-time check that Memory implements greetbridge.Memory and that
// Instance implements greetbridge.Allocator
var (
	_ greetbridge.Memory    = (*Memory)(nil)
	_ greetbridge.Allocator = (*Instance)(nil)
)
