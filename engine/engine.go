package engine

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/wasmbridge/greet-bridge/errors"
)

// Engine owns the wazero runtime. Host modules and guest modules share its
// namespace, so hosts must be instantiated before any guest that imports them.
type Engine struct {
	runtime wazero.Runtime
}

func New(ctx context.Context) (*Engine, error) {
	cfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	return &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, cfg),
	}, nil
}

// Runtime exposes the underlying wazero runtime for host module building.
func (e *Engine) Runtime() wazero.Runtime {
	return e.runtime
}

// Compile validates and pre-compiles a core wasm module.
func (e *Engine) Compile(ctx context.Context, wasm []byte) (*Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}
	return &Module{
		engine:   e,
		compiled: compiled,
	}, nil
}

// Close releases all engine resources, including every open instance.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
