package cdp

import (
	"context"

	"github.com/chromedp/cdproto/target"
)

type ctxKey int

const (
	ctxKeySessionID ctxKey = iota
)

// WithSessionID returns a context routing the commands executed with it to
// the target attached as sessionID.
func WithSessionID(ctx context.Context, sessionID target.SessionID) context.Context {
	return context.WithValue(ctx, ctxKeySessionID, sessionID)
}

// GetSessionID returns the session set with WithSessionID, or an empty
// session for the browser target.
func GetSessionID(ctx context.Context) target.SessionID {
	v := ctx.Value(ctxKeySessionID)
	if sid, ok := v.(target.SessionID); ok {
		return sid
	}
	return ""
}
