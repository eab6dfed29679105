// Package guestgen emits the embedded demo guest as a core wasm binary.
//
// The guest imports the greeting provider, exports its linear memory, a bump
// allocator, and a greet entry point that returns a pointer to an 8-byte
// (ptr, len) return area filled in by the host.
package guestgen

// Default import/export names used by the demo guest.
const (
	DefaultNamespace = "hello:greeter/provider"
	DefaultImport    = "get-greeting"
	DefaultExport    = "greet"

	// heapBase is where the bump allocator starts; the area below is kept
	// free so null pointers and return areas never collide with data.
	heapBase = 1024
)

// Config controls the emitted guest. The zero value plus defaults from
// Demo() produces the standard demo guest.
type Config struct {
	// Namespace is the import module field, matching the host Namespace().
	Namespace string
	// Import is the imported function name.
	Import string
	// Export is the exported entry point name.
	Export string
	// OmitAllocator drops the "allocate" export so the host cannot place
	// string bytes in guest memory. Used to exercise the null convention.
	OmitAllocator bool
}

// Demo returns the standard demo guest binary.
func Demo() []byte {
	return Module(Config{})
}

// Module assembles a guest according to cfg, filling empty fields with
// defaults.
func Module(cfg Config) []byte {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Import == "" {
		cfg.Import = DefaultImport
	}
	if cfg.Export == "" {
		cfg.Export = DefaultExport
	}

	var w writer

	// Magic and version
	w.raw(0x00, 0x61, 0x73, 0x6D)
	w.raw(0x01, 0x00, 0x00, 0x00)

	// Type section: (i32)->(), (i32)->(i32), ()->(i32)
	w.section(secType, func(b *writer) {
		b.u32(3)
		b.raw(0x60, 0x01, valI32, 0x00)
		b.raw(0x60, 0x01, valI32, 0x01, valI32)
		b.raw(0x60, 0x00, 0x01, valI32)
	})

	// Import section: namespace.import as func type 0 (function index 0)
	w.section(secImport, func(b *writer) {
		b.u32(1)
		b.name(cfg.Namespace)
		b.name(cfg.Import)
		b.raw(0x00) // func import
		b.u32(0)
	})

	// Function section: allocate (type 1, index 1), greet (type 2, index 2)
	w.section(secFunction, func(b *writer) {
		b.u32(2)
		b.u32(1)
		b.u32(2)
	})

	// Memory section: one memory, min 1 page
	w.section(secMemory, func(b *writer) {
		b.u32(1)
		b.raw(0x00)
		b.u32(1)
	})

	// Global section: mutable i32 heap pointer
	w.section(secGlobal, func(b *writer) {
		b.u32(1)
		b.raw(valI32, 0x01)
		b.raw(opI32Const)
		b.s32(heapBase)
		b.raw(opEnd)
	})

	// Export section
	w.section(secExport, func(b *writer) {
		exports := 2
		if !cfg.OmitAllocator {
			exports++
		}
		b.u32(uint32(exports))
		b.name("memory")
		b.raw(0x02)
		b.u32(0)
		if !cfg.OmitAllocator {
			b.name("allocate")
			b.raw(0x00)
			b.u32(1)
		}
		b.name(cfg.Export)
		b.raw(0x00)
		b.u32(2)
	})

	// Code section
	w.section(secCode, func(b *writer) {
		b.u32(2)
		b.body(allocateBody())
		b.body(greetBody())
	})

	return w.bytes
}

// allocateBody bumps the heap pointer by size rounded up to 8 bytes and
// returns the old pointer.
func allocateBody() []byte {
	var b writer
	// one scratch i32 local (index 1; index 0 is the size param)
	b.u32(1)
	b.u32(1)
	b.raw(valI32)

	b.raw(opGlobalGet, 0x00)
	b.raw(opLocalSet, 0x01)
	b.raw(opGlobalGet, 0x00)
	b.raw(opLocalGet, 0x00)
	b.raw(opI32Const)
	b.s32(7)
	b.raw(opI32Add)
	b.raw(opI32Const)
	b.s32(-8)
	b.raw(opI32And)
	b.raw(opI32Add)
	b.raw(opGlobalSet, 0x00)
	b.raw(opLocalGet, 0x01)
	b.raw(opEnd)
	return b.bytes
}

// greetBody allocates an 8-byte return area, lets the host fill it via the
// imported get-greeting, and returns the area's address.
func greetBody() []byte {
	var b writer
	// one i32 local for the return area pointer
	b.u32(1)
	b.u32(1)
	b.raw(valI32)

	b.raw(opI32Const)
	b.s32(8)
	b.raw(opCall, 0x01) // allocate
	b.raw(opLocalSet, 0x00)
	b.raw(opLocalGet, 0x00)
	b.raw(opCall, 0x00) // get-greeting import
	b.raw(opLocalGet, 0x00)
	b.raw(opEnd)
	return b.bytes
}
