package runtime

import (
	"context"
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wasmbridge/greet-bridge/engine"
	"github.com/wasmbridge/greet-bridge/errors"
)

// Instance is a single instantiation of a guest module. Not safe for
// concurrent use; create one Instance per goroutine or synchronize access.
type Instance struct {
	module *Module
	inst   *engine.Instance
}

// CallString invokes a guest export that takes no arguments and returns one
// string. The export returns the address of an 8-byte (ptr, len) return
// area; the string is copied out of guest memory and validated as UTF-8.
func (i *Instance) CallString(ctx context.Context, name string) (string, error) {
	result, err := i.CallWithTypes(ctx, name, nil, []wit.Type{wit.String{}})
	if err != nil {
		return "", err
	}
	s, ok := result.(string)
	if !ok {
		return "", errors.New(errors.PhaseCall, errors.KindTypeMismatch).
			GoType("string").
			Detail("unexpected result shape").
			Build()
	}
	return s, nil
}

// CallWithTypes invokes a guest export with its signature described as WIT
// types. Parameters may be u32/u64/s32/s64; the result may be empty, one
// integer, or one string.
func (i *Instance) CallWithTypes(ctx context.Context, name string, params, results []wit.Type, args ...any) (any, error) {
	fn := i.inst.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseCall, "function", name)
	}

	if len(args) != len(params) {
		return nil, errors.InvalidInput(errors.PhaseCall, "argument count does not match parameter types")
	}
	raw := make([]uint64, 0, len(args))
	for idx, arg := range args {
		lowered, err := lowerArg(params[idx], arg)
		if err != nil {
			return nil, err
		}
		raw = append(raw, lowered)
	}

	out, err := fn.Call(ctx, raw...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCall, errors.KindTrap, err, "call "+name)
	}

	if len(results) == 0 {
		return nil, nil
	}
	if len(results) > 1 {
		return nil, errors.Unsupported(errors.PhaseCall, "multiple results")
	}
	if len(out) == 0 {
		return nil, errors.InvalidInput(errors.PhaseCall, "guest returned no value")
	}

	switch results[0].(type) {
	case wit.String:
		mem := i.inst.Memory()
		if mem == nil {
			return nil, errors.NotFound(errors.PhaseCall, "export", "memory")
		}
		return engine.LiftString(mem, uint32(out[0]))
	case wit.U32:
		return uint32(out[0]), nil
	case wit.S32:
		return int32(out[0]), nil
	case wit.U64:
		return out[0], nil
	case wit.S64:
		return int64(out[0]), nil
	default:
		return nil, errors.Unsupported(errors.PhaseCall, "result type")
	}
}

func lowerArg(t wit.Type, arg any) (uint64, error) {
	switch t.(type) {
	case wit.U32:
		if v, ok := arg.(uint32); ok {
			return uint64(v), nil
		}
	case wit.S32:
		if v, ok := arg.(int32); ok {
			return uint64(uint32(v)), nil
		}
	case wit.U64:
		if v, ok := arg.(uint64); ok {
			return v, nil
		}
	case wit.S64:
		if v, ok := arg.(int64); ok {
			return uint64(v), nil
		}
	default:
		return 0, errors.Unsupported(errors.PhaseCall, "parameter type")
	}
	return 0, errors.New(errors.PhaseCall, errors.KindTypeMismatch).
		GoType(fmt.Sprintf("%T", arg)).
		Detail("argument does not match declared parameter type").
		Build()
}

func (i *Instance) Close(ctx context.Context) error {
	return i.inst.Close(ctx)
}
