package runtime

import (
	"context"

	"github.com/wasmbridge/greet-bridge/engine"
)

type Module struct {
	runtime   *Runtime
	engModule *engine.Module
}

func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	inst, err := m.engModule.Instantiate(ctx)
	if err != nil {
		return nil, err
	}
	return &Instance{
		module: m,
		inst:   inst,
	}, nil
}

// Imports returns "namespace#function" keys for every function import of the
// guest, for diagnostics.
func (m *Module) Imports() []string {
	return m.engModule.ImportedFunctions()
}

func (m *Module) Close(ctx context.Context) error {
	return m.engModule.Close(ctx)
}
