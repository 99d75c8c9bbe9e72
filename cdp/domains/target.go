package domains

import (
	"context"

	"github.com/chromedp/cdproto/cdp"
	cdpt "github.com/chromedp/cdproto/target"
	"github.com/pkg/errors"
)

// Target wraps the CDP Target domain.
type Target interface {
	GetTargets(ctx context.Context) ([]*cdpt.Info, error)
	// AttachToTarget attaches to id in flat mode, so that the session's
	// commands and events share the browser connection.
	AttachToTarget(ctx context.Context, id cdpt.ID) (cdpt.SessionID, error)
}

var _ Target = &target{}

type target struct {
	exec cdp.Executor
}

// NewTarget returns a new CDP Target domain wrapper.
func NewTarget(exec cdp.Executor) Target {
	return &target{exec}
}

func (t *target) GetTargets(ctx context.Context) ([]*cdpt.Info, error) {
	infos, err := cdpt.GetTargets().Do(cdp.WithExecutor(ctx, t.exec))
	if err != nil {
		return nil, errors.Wrap(err, "executing getTargets")
	}

	return infos, nil
}

func (t *target) AttachToTarget(ctx context.Context, id cdpt.ID) (cdpt.SessionID, error) {
	action := cdpt.AttachToTarget(id).WithFlatten(true)
	sid, err := action.Do(cdp.WithExecutor(ctx, t.exec))
	if err != nil {
		return "", errors.Wrapf(err, "executing attachToTarget %v", id)
	}

	return sid, nil
}
