package runtime

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/tetratelabs/wazero/api"

	"github.com/wasmbridge/greet-bridge/engine"
	"github.com/wasmbridge/greet-bridge/errors"
)

// Host is the interface for struct-based host modules.
// All exported methods (except Namespace) are registered as host functions.
type Host interface {
	// Namespace returns the import interface name guests use
	// (e.g., "hello:greeter/provider").
	Namespace() string
}

type HostRegistry struct {
	funcs map[string]map[string]any
	bound bool
	mu    sync.Mutex
}

func NewHostRegistry() *HostRegistry {
	return &HostRegistry{
		funcs: make(map[string]map[string]any),
	}
}

func (r *HostRegistry) RegisterHost(h Host) error {
	ns := h.Namespace()
	if ns == "" {
		return errors.InvalidInput(errors.PhaseHost, "namespace cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bound {
		return errors.InvalidInput(errors.PhaseHost, "hosts already bound; register before loading modules")
	}
	if r.funcs[ns] == nil {
		r.funcs[ns] = make(map[string]any)
	}

	rv := reflect.ValueOf(h)
	rt := rv.Type()

	for i := 0; i < rt.NumMethod(); i++ {
		method := rt.Method(i)
		if !method.IsExported() || method.Name == "Namespace" {
			continue
		}
		r.funcs[ns][toKebabCase(method.Name)] = rv.Method(i).Interface()
	}

	return nil
}

func (r *HostRegistry) RegisterFunc(namespace, name string, fn any) error {
	if namespace == "" {
		return errors.InvalidInput(errors.PhaseHost, "namespace cannot be empty")
	}
	if name == "" {
		return errors.InvalidInput(errors.PhaseHost, "function name cannot be empty")
	}
	if reflect.ValueOf(fn).Kind() != reflect.Func {
		return errors.New(errors.PhaseHost, errors.KindTypeMismatch).
			GoType(reflect.TypeOf(fn).String()).
			Detail("handler must be a function").
			Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bound {
		return errors.InvalidInput(errors.PhaseHost, "hosts already bound; register before loading modules")
	}
	if r.funcs[namespace] == nil {
		r.funcs[namespace] = make(map[string]any)
	}
	r.funcs[namespace][name] = fn

	return nil
}

// Bind instantiates one wazero host module per namespace. Idempotent; the
// first Load triggers it.
func (r *HostRegistry) Bind(ctx context.Context, eng *engine.Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bound {
		return nil
	}

	for namespace, funcs := range r.funcs {
		builder := eng.Runtime().NewHostModuleBuilder(namespace)
		for name, handler := range funcs {
			goFn, params, results, err := lowerHandler(handler)
			if err != nil {
				return errors.Registration(namespace, name, err)
			}
			builder.NewFunctionBuilder().
				WithGoModuleFunction(goFn, params, results).
				Export(name)
		}
		if _, err := builder.Instantiate(ctx); err != nil {
			return errors.Registration(namespace, "*", err)
		}
	}

	r.bound = true
	return nil
}

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

// lowerHandler maps a Go handler to a raw wazero function. Supported shapes:
// first parameter context.Context, remaining parameters u32/u64, result
// either none, one integer, or one string. A string result is lowered
// through a trailing retptr parameter and the guest's allocator, the way a
// JNI function hands back a jstring.
func lowerHandler(handler any) (api.GoModuleFunc, []api.ValueType, []api.ValueType, error) {
	t := reflect.TypeOf(handler)
	v := reflect.ValueOf(handler)

	if t.Kind() != reflect.Func {
		return nil, nil, nil, errors.New(errors.PhaseHost, errors.KindTypeMismatch).
			GoType(t.String()).
			Detail("handler must be a function").
			Build()
	}
	if t.NumIn() == 0 || t.In(0) != contextType {
		return nil, nil, nil, errors.InvalidInput(errors.PhaseHost, "handler must take context.Context first")
	}
	if t.NumOut() > 1 {
		return nil, nil, nil, errors.Unsupported(errors.PhaseHost, "handlers may return at most one value")
	}

	var params []api.ValueType
	argKinds := make([]reflect.Kind, 0, t.NumIn()-1)
	for i := 1; i < t.NumIn(); i++ {
		kind := t.In(i).Kind()
		switch kind {
		case reflect.Uint32, reflect.Int32:
			params = append(params, api.ValueTypeI32)
		case reflect.Uint64, reflect.Int64:
			params = append(params, api.ValueTypeI64)
		default:
			return nil, nil, nil, errors.New(errors.PhaseHost, errors.KindTypeMismatch).
				GoType(t.In(i).String()).
				Detail("unsupported parameter type").
				Build()
		}
		argKinds = append(argKinds, kind)
	}

	var results []api.ValueType
	var retKind reflect.Kind
	if t.NumOut() == 1 {
		retKind = t.Out(0).Kind()
		switch retKind {
		case reflect.String:
			// lowered as (param i32 retptr), no core result
			params = append(params, api.ValueTypeI32)
		case reflect.Uint32, reflect.Int32:
			results = []api.ValueType{api.ValueTypeI32}
		case reflect.Uint64, reflect.Int64:
			results = []api.ValueType{api.ValueTypeI64}
		default:
			return nil, nil, nil, errors.New(errors.PhaseHost, errors.KindTypeMismatch).
				GoType(t.Out(0).String()).
				Detail("unsupported result type").
				Build()
		}
	}

	goFn := api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
		in := make([]reflect.Value, 1, len(argKinds)+1)
		in[0] = reflect.ValueOf(ctx)
		for i, kind := range argKinds {
			raw := stack[i]
			var arg reflect.Value
			switch kind {
			case reflect.Uint32:
				arg = reflect.ValueOf(uint32(raw))
			case reflect.Int32:
				arg = reflect.ValueOf(int32(raw))
			case reflect.Uint64:
				arg = reflect.ValueOf(raw)
			case reflect.Int64:
				arg = reflect.ValueOf(int64(raw))
			}
			in = append(in, arg)
		}

		out := v.Call(in)

		switch retKind {
		case reflect.String:
			retptr := uint32(stack[len(argKinds)])
			engine.LowerString(ctx, mod, retptr, out[0].String())
		case reflect.Uint32:
			stack[0] = uint64(uint32(out[0].Uint()))
		case reflect.Int32:
			stack[0] = uint64(uint32(int32(out[0].Int())))
		case reflect.Uint64:
			stack[0] = out[0].Uint()
		case reflect.Int64:
			stack[0] = uint64(out[0].Int())
		}
	})

	return goFn, params, results, nil
}

// toKebabCase converts PascalCase to kebab-case.
// Handles acronyms: GetHTTPURL -> get-http-url
func toKebabCase(s string) string {
	if len(s) == 0 {
		return ""
	}

	runes := []rune(s)
	var result strings.Builder

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if unicode.IsUpper(r) {
			acronymEnd := i + 1
			for acronymEnd < len(runes) && unicode.IsUpper(runes[acronymEnd]) {
				acronymEnd++
			}

			if acronymEnd > i+1 {
				// Last uppercase before lowercase starts next word, not part of acronym
				if acronymEnd < len(runes) && unicode.IsLower(runes[acronymEnd]) {
					acronymEnd--
				}
			}

			if i > 0 {
				result.WriteByte('-')
			}

			for j := i; j < acronymEnd; j++ {
				result.WriteRune(unicode.ToLower(runes[j]))
			}
			i = acronymEnd - 1 // -1 because loop will increment
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
