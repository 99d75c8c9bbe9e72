package domains

import (
	"context"

	"github.com/chromedp/cdproto/cdp"
	cdpr "github.com/chromedp/cdproto/runtime"
	"github.com/mailru/easyjson"
	"github.com/pkg/errors"
)

// Runtime wraps the CDP Runtime domain.
type Runtime interface {
	Enable(ctx context.Context) error
	// Evaluate evaluates expr in the page and returns its JSON value. An
	// undefined result is returned as JSON null.
	Evaluate(ctx context.Context, expr string) (easyjson.RawMessage, error)
	// AddBinding installs a global function named name that emits a
	// Runtime.bindingCalled event with its argument as payload.
	AddBinding(ctx context.Context, name string) error
}

var _ Runtime = &runtime{}

type runtime struct {
	exec cdp.Executor
}

// NewRuntime returns a new CDP Runtime domain wrapper.
func NewRuntime(exec cdp.Executor) Runtime {
	return &runtime{exec}
}

func (r *runtime) Enable(ctx context.Context) error {
	return errors.Wrap(cdpr.Enable().Do(cdp.WithExecutor(ctx, r.exec)), "executing Runtime.enable")
}

func (r *runtime) Evaluate(ctx context.Context, expr string) (easyjson.RawMessage, error) {
	action := cdpr.Evaluate(expr).WithReturnByValue(true)
	res, exc, err := action.Do(cdp.WithExecutor(ctx, r.exec))
	if err != nil {
		return nil, errors.Wrap(err, "executing Runtime.evaluate")
	}
	if exc != nil {
		return nil, errors.Wrapf(exc, "evaluating %q", expr)
	}
	if res == nil || res.Type == cdpr.TypeUndefined || len(res.Value) == 0 {
		return easyjson.RawMessage("null"), nil
	}

	return res.Value, nil
}

func (r *runtime) AddBinding(ctx context.Context, name string) error {
	err := cdpr.AddBinding(name).Do(cdp.WithExecutor(ctx, r.exec))
	return errors.Wrapf(err, "executing Runtime.addBinding %q", name)
}
