package runtime

import (
	"context"

	"go.uber.org/zap"

	"github.com/wasmbridge/greet-bridge/engine"
	"github.com/wasmbridge/greet-bridge/errors"
)

type Runtime struct {
	engine *engine.Engine
	hosts  *HostRegistry
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger routes bridge diagnostics to l instead of the default no-op
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(*Runtime) {
		engine.SetLogger(l)
	}
}

func New(ctx context.Context, opts ...Option) (*Runtime, error) {
	eng, err := engine.New(ctx)
	if err != nil {
		return nil, errors.Load("create engine", err)
	}

	r := &Runtime{
		engine: eng,
		hosts:  NewHostRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases all runtime resources.
// All instances must be closed before calling this.
func (r *Runtime) Close(ctx context.Context) error {
	return r.engine.Close(ctx)
}

// RegisterHost registers all exported methods of h as host functions.
// Must be called BEFORE loading modules that import these functions.
// Method names are converted from PascalCase to kebab-case
// (GetGreeting -> get-greeting).
func (r *Runtime) RegisterHost(h Host) error {
	return r.hosts.RegisterHost(h)
}

func (r *Runtime) RegisterFunc(namespace, name string, fn any) error {
	return r.hosts.RegisterFunc(namespace, name, fn)
}

func (r *Runtime) Hosts() *HostRegistry {
	return r.hosts
}

// Load binds registered hosts into the runtime namespace and compiles a core
// wasm guest. Hosts registered after the first Load are not visible to
// guests.
func (r *Runtime) Load(ctx context.Context, wasm []byte) (*Module, error) {
	if err := r.hosts.Bind(ctx, r.engine); err != nil {
		return nil, errors.Load("bind hosts", err)
	}

	mod, err := r.engine.Compile(ctx, wasm)
	if err != nil {
		return nil, err
	}

	return &Module{
		runtime:   r,
		engModule: mod,
	}, nil
}
