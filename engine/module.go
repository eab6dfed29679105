package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wasmbridge/greet-bridge/errors"
)

// Allocator function names probed on the guest, in preference order.
// cabi_realloc is the canonical ABI name; "allocate" is the simple
// size-only convention used by hand-built and legacy guests.
const (
	CabiRealloc = "cabi_realloc"
	SimpleAlloc = "allocate"
)

type Module struct {
	engine   *Engine
	compiled wazero.CompiledModule
}

// ImportedFunctions returns "module#name" keys for every function import,
// for diagnostics when instantiation fails.
func (m *Module) ImportedFunctions() []string {
	defs := m.compiled.ImportedFunctions()
	keys := make([]string, 0, len(defs))
	for _, def := range defs {
		mod, name, _ := def.Import()
		keys = append(keys, mod+"#"+name)
	}
	return keys
}

// Instantiate creates a new anonymous instance so multiple instances of the
// same module can coexist in one runtime.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	mod, err := m.engine.runtime.InstantiateModule(ctx, m.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	inst := &Instance{
		mod:       mod,
		funcCache: make(map[string]api.Function),
	}

	if mem := mod.Memory(); mem != nil {
		inst.memory = &Memory{mem: mem}
	}

	// Cache allocator - try standard cabi_realloc first, then fallback
	if fn := mod.ExportedFunction(CabiRealloc); fn != nil {
		inst.allocFn = fn
		inst.allocIsRealloc = true
	} else if fn := mod.ExportedFunction(SimpleAlloc); fn != nil {
		inst.allocFn = fn
	}

	return inst, nil
}

func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}

// Instance is a single instantiation of a guest module. Not safe for
// concurrent use; create one instance per goroutine.
type Instance struct {
	mod            api.Module
	memory         *Memory
	allocFn        api.Function
	allocIsRealloc bool
	funcCache      map[string]api.Function
}

func (i *Instance) Memory() *Memory {
	return i.memory
}

// ExportedFunction returns a guest export, or nil if not found.
func (i *Instance) ExportedFunction(name string) api.Function {
	if fn, ok := i.funcCache[name]; ok {
		return fn
	}
	fn := i.mod.ExportedFunction(name)
	if fn != nil {
		i.funcCache[name] = fn
	}
	return fn
}

// Alloc reserves size bytes in guest linear memory using the guest's own
// allocator. Ownership of the region belongs to the guest after return.
func (i *Instance) Alloc(ctx context.Context, size uint32) (uint32, error) {
	if i.allocFn == nil {
		return 0, errors.NotFound(errors.PhaseCall, "guest allocator", CabiRealloc)
	}
	return callAllocator(ctx, i.allocFn, i.allocIsRealloc, size)
}

func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}

// callAllocator invokes a guest allocator export. String data uses align 1
// per the canonical ABI.
func callAllocator(ctx context.Context, fn api.Function, isRealloc bool, size uint32) (uint32, error) {
	var (
		results []uint64
		err     error
	)
	if isRealloc {
		// cabi_realloc(orig_ptr, orig_size, align, new_size)
		results, err = fn.Call(ctx, 0, 0, 1, uint64(size))
	} else {
		results, err = fn.Call(ctx, uint64(size))
	}
	if err != nil {
		return 0, errors.Wrap(errors.PhaseCall, errors.KindAllocation, err, "guest allocator trapped")
	}
	if len(results) == 0 {
		return 0, errors.AllocationFailed(errors.PhaseCall, size)
	}
	ptr := uint32(results[0])
	if ptr == 0 && size > 0 {
		return 0, errors.AllocationFailed(errors.PhaseCall, size)
	}
	return ptr, nil
}

// guestAllocator finds an allocator export on an arbitrary module, for host
// functions lowering results into the calling guest.
func guestAllocator(mod api.Module) (api.Function, bool) {
	if fn := mod.ExportedFunction(CabiRealloc); fn != nil {
		return fn, true
	}
	if fn := mod.ExportedFunction(SimpleAlloc); fn != nil {
		return fn, false
	}
	return nil, false
}
