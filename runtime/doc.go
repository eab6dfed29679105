// Package runtime provides the high-level API of the greeting bridge.
//
// # Quick Start
//
//	ctx := context.Background()
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
// # Host Functions
//
// Register Go functions as host implementations guests can import:
//
//	// A typed function
//	rt.RegisterFunc("hello:greeter/provider", "get-greeting",
//	    func(ctx context.Context) string {
//	        return greeting.Message
//	    })
//
//	// Or implement the Host interface for a full namespace
//	rt.RegisterHost(greeting.New())
//
// A host function returning string is lowered through a retptr parameter:
// the bytes land in guest memory allocated by the guest's own allocator and
// ownership transfers to the guest on return.
//
// # Thread Safety
//
// Runtime and Module are safe for concurrent use. Instance is NOT
// thread-safe and should be used by a single goroutine, or access must be
// synchronized.
package runtime
