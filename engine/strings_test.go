package engine

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/wasmbridge/greet-bridge/errors"
	"github.com/wasmbridge/greet-bridge/internal/guestgen"
)

// newGuestInstance wires a raw host function that lowers msg, then
// instantiates the demo guest around it.
func newGuestInstance(t *testing.T, msg string, guest []byte) (*Instance, context.Context) {
	t.Helper()
	ctx := context.Background()

	eng, err := New(ctx)
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}
	t.Cleanup(func() { eng.Close(ctx) })

	_, err = eng.Runtime().NewHostModuleBuilder(guestgen.DefaultNamespace).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			LowerString(ctx, mod, uint32(stack[0]), msg)
		}), []api.ValueType{api.ValueTypeI32}, nil).
		Export(guestgen.DefaultImport).
		Instantiate(ctx)
	if err != nil {
		t.Fatalf("instantiate host module: %v", err)
	}

	mod, err := eng.Compile(ctx, guest)
	if err != nil {
		t.Fatalf("compile guest: %v", err)
	}
	inst, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("instantiate guest: %v", err)
	}
	return inst, ctx
}

func callGreet(t *testing.T, inst *Instance, ctx context.Context) uint32 {
	t.Helper()
	fn := inst.ExportedFunction(guestgen.DefaultExport)
	if fn == nil {
		t.Fatal("greet export missing")
	}
	out, err := fn.Call(ctx)
	if err != nil {
		t.Fatalf("call greet: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("results = %d, want 1", len(out))
	}
	return uint32(out[0])
}

func TestLowerLiftString_RoundTrip(t *testing.T) {
	inst, ctx := newGuestInstance(t, "Hello from C++", guestgen.Demo())

	retptr := callGreet(t, inst, ctx)
	got, err := LiftString(inst.Memory(), retptr)
	if err != nil {
		t.Fatalf("lift: %v", err)
	}
	if got != "Hello from C++" {
		t.Fatalf("got %q, want %q", got, "Hello from C++")
	}
}

func TestLowerLiftString_Empty(t *testing.T) {
	inst, ctx := newGuestInstance(t, "", guestgen.Demo())

	retptr := callGreet(t, inst, ctx)
	got, err := LiftString(inst.Memory(), retptr)
	if err != nil {
		t.Fatalf("lift: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestLiftString_InvalidUTF8(t *testing.T) {
	inst, ctx := newGuestInstance(t, "\xff\xfe\xfd", guestgen.Demo())

	retptr := callGreet(t, inst, ctx)
	_, err := LiftString(inst.Memory(), retptr)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindInvalidUTF8}) {
		t.Fatalf("want invalid UTF-8 error, got %v", err)
	}
}

// Without an allocator export the lowered null convention must surface as an
// allocation error on the lift side.
func TestLowerString_NoAllocator(t *testing.T) {
	guest := guestgen.Module(guestgen.Config{OmitAllocator: true})
	inst, ctx := newGuestInstance(t, "Hello from C++", guest)

	retptr := callGreet(t, inst, ctx)
	_, err := LiftString(inst.Memory(), retptr)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindAllocation}) {
		t.Fatalf("want allocation error, got %v", err)
	}
}

func TestInstance_Alloc(t *testing.T) {
	inst, ctx := newGuestInstance(t, "Hello from C++", guestgen.Demo())

	first, err := inst.Alloc(ctx, 16)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if first == 0 || first%8 != 0 {
		t.Fatalf("first allocation %d not 8-aligned", first)
	}

	second, err := inst.Alloc(ctx, 3)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if second < first+16 {
		t.Fatalf("second allocation %d overlaps first at %d", second, first)
	}
}

func TestMemory_Bounds(t *testing.T) {
	inst, _ := newGuestInstance(t, "Hello from C++", guestgen.Demo())
	mem := inst.Memory()

	if _, err := mem.ReadU32(mem.Size()); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindOutOfBounds}) {
		t.Fatalf("want out-of-bounds error, got %v", err)
	}
	if err := mem.Write(mem.Size()-2, []byte("abcd")); err == nil {
		t.Fatal("write past end should fail")
	}

	if err := mem.WriteU32(64, 0xCAFEBABE); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := mem.ReadU32(64)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != 0xCAFEBABE {
		t.Fatalf("got %#x", got)
	}
}
