// C-ABI export of the greeting entry point for non-WASM embedders.
//
// Build as a shared library:
//
//	go build -buildmode=c-shared -o libgreet.so ./cmd/libgreet
//
// A managed runtime binds GetGreeting through its foreign-function
// interface; the returned string is malloc-allocated and owned by the caller
// once GetGreeting returns.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/wasmbridge/greet-bridge/greeting"
)

// GetGreeting returns a freshly allocated copy of the greeting.
// Release it with FreeGreeting.
//
//export GetGreeting
func GetGreeting() *C.char {
	return C.CString(greeting.Message)
}

// FreeGreeting releases a string returned by GetGreeting.
//
//export FreeGreeting
func FreeGreeting(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func main() {}
