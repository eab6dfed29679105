// Package greetbridge exposes a native greeting entry point to managed
// WebAssembly guests.
//
// The repository implements one bridged operation: get-greeting, a host
// function that returns the constant text "Hello from C++" to the calling
// guest. The string is allocated in the guest's own linear memory through
// its exported allocator and ownership transfers on return, the same
// contract a JNI function honors when it hands back a jstring.
//
// # Architecture Overview
//
//	greetbridge/         Root package with Memory and Allocator interfaces
//	├── greeting/        The greeting provider host module
//	├── runtime/         High-level API for loading and running guests
//	├── engine/          Low-level wazero integration and string handoff
//	├── errors/          Structured error types
//	└── cmd/
//	    ├── greet/       CLI and interactive demo
//	    └── libgreet/    C-ABI export for non-WASM embedders
//
// # Quick Start
//
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	rt.RegisterHost(greeting.New())
//
//	mod, err := rt.Load(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	msg, err := inst.CallString(ctx, "greet")
//	fmt.Println(msg) // "Hello from C++"
//
// # Thread Safety
//
// Runtime and Module are safe for concurrent use. Instance is NOT
// thread-safe; use one per goroutine. The greeting provider itself is
// stateless and safe from any number of threads.
package greetbridge
