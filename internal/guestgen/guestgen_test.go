package guestgen

import (
	"bytes"
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
)

func TestDemo_HeaderAndSections(t *testing.T) {
	wasm := Demo()

	if !bytes.HasPrefix(wasm, []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}) {
		t.Fatalf("missing wasm magic/version, got % x", wasm[:8])
	}
	if !bytes.Contains(wasm, []byte(DefaultNamespace)) {
		t.Errorf("import namespace %q not present", DefaultNamespace)
	}
	if !bytes.Contains(wasm, []byte(DefaultImport)) {
		t.Errorf("import name %q not present", DefaultImport)
	}
	if !bytes.Contains(wasm, []byte(DefaultExport)) {
		t.Errorf("export name %q not present", DefaultExport)
	}
}

// The emitted binary must validate under wazero and declare the expected
// imports and exports.
func TestDemo_CompilesUnderWazero(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, Demo())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer compiled.Close(ctx)

	imports := compiled.ImportedFunctions()
	if len(imports) != 1 {
		t.Fatalf("imports = %d, want 1", len(imports))
	}
	mod, name, _ := imports[0].Import()
	if mod != DefaultNamespace || name != DefaultImport {
		t.Errorf("import = %s#%s, want %s#%s", mod, name, DefaultNamespace, DefaultImport)
	}

	exports := compiled.ExportedFunctions()
	for _, want := range []string{"allocate", "greet"} {
		if _, ok := exports[want]; !ok {
			t.Errorf("export %q missing", want)
		}
	}
}

func TestModule_OmitAllocator(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, Module(Config{OmitAllocator: true}))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer compiled.Close(ctx)

	exports := compiled.ExportedFunctions()
	if _, ok := exports["allocate"]; ok {
		t.Error("allocate should not be exported")
	}
	if _, ok := exports["greet"]; !ok {
		t.Error("greet export missing")
	}
}

func TestModule_CustomNames(t *testing.T) {
	wasm := Module(Config{
		Namespace: "other:ns/api",
		Import:    "fetch",
		Export:    "entry",
	})

	for _, want := range []string{"other:ns/api", "fetch", "entry"} {
		if !bytes.Contains(wasm, []byte(want)) {
			t.Errorf("%q not present in binary", want)
		}
	}
}

func TestWriter_LEB128(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{7, []byte{0x07}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{1024, []byte{0x80, 0x08}},
	}
	for _, tt := range tests {
		var w writer
		w.u32(tt.v)
		if !bytes.Equal(w.bytes, tt.want) {
			t.Errorf("u32(%d) = % x, want % x", tt.v, w.bytes, tt.want)
		}
	}

	signed := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{8, []byte{0x08}},
		{-8, []byte{0x78}},
		{1024, []byte{0x80, 0x08}},
		{-64, []byte{0x40}},
		{63, []byte{0x3F}},
		{64, []byte{0xC0, 0x00}},
	}
	for _, tt := range signed {
		var w writer
		w.s32(tt.v)
		if !bytes.Equal(w.bytes, tt.want) {
			t.Errorf("s32(%d) = % x, want % x", tt.v, w.bytes, tt.want)
		}
	}
}
