package browser

import (
	"fmt"

	"github.com/dop251/goja"
	jsoniter "github.com/json-iterator/go"
)

var jsonc = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// exportArg exports the value and returns it.
// It returns nil if the value is undefined or null.
func exportArg(gv goja.Value) any {
	if !gojaValueExists(gv) {
		return nil
	}
	return gv.Export()
}

// gojaValueExists returns true if a given value is not nil and exists
// (defined and not null) in the goja runtime.
func gojaValueExists(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
}

// exportTo decodes the JS value v into the Go value target points to,
// using the JSON shape of both.
func exportTo(v goja.Value, target any) error {
	b, err := jsonc.Marshal(exportArg(v))
	if err != nil {
		return fmt.Errorf("encoding argument: %w", err)
	}
	if err := jsonc.Unmarshal(b, target); err != nil {
		return fmt.Errorf("decoding argument: %w", err)
	}
	return nil
}

// toJSValue converts v to a plain JS value through its JSON shape, so that
// JS code sees the same objects the host produced.
func (mr moduleRuntime) toJSValue(v any) goja.Value {
	b, err := jsonc.Marshal(v)
	if err != nil {
		mr.logger.Errorf("browser:toJSValue", "encoding %T: %v", v, err)
		return goja.Undefined()
	}
	parse, ok := goja.AssertFunction(mr.Get("JSON").ToObject(mr.Runtime).Get("parse"))
	if !ok {
		return goja.Undefined()
	}
	val, err := parse(goja.Undefined(), mr.ToValue(string(b)))
	if err != nil {
		mr.logger.Errorf("browser:toJSValue", "parsing %T: %v", v, err)
		return goja.Undefined()
	}
	return val
}

// observer wraps the JS function v so that Go code can notify it. An
// exception thrown by the function is logged and does not reach the caller,
// so the remaining observers are still notified.
func (mr moduleRuntime) observer(category string, v goja.Value) (func(arg any), error) {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("%s: observer must be a function", category)
	}

	return func(arg any) {
		if _, err := fn(goja.Undefined(), mr.toJSValue(arg)); err != nil {
			mr.logger.Errorf(category, "observer threw: %v", err)
		}
	}, nil
}

// addObserver registers the JS function v with add. When the feature is
// unavailable v is ignored, whatever it is, and nothing is registered.
func (mr moduleRuntime) addObserver(
	category string, available bool, v goja.Value, add func(notify func(arg any)) func(),
) (func(), error) {
	if !available {
		return func() {}, nil
	}
	notify, err := mr.observer(category, v)
	if err != nil {
		return nil, err
	}
	return add(notify), nil
}

// isTrue reports whether v is the JS boolean true. Truthy values of other
// types do not count.
func isTrue(v goja.Value) bool {
	if !gojaValueExists(v) {
		return false
	}
	b, ok := v.Export().(bool)
	return ok && b
}
