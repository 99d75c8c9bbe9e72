// Package cdptest provides a fake CDP endpoint serving a single page whose
// scripts run in a goja runtime.
package cdptest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dop251/goja"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

// SessionID is the session of the page target.
const SessionID = "S1"

// Browser is a CDP endpoint serving a single page. It answers the Target,
// Runtime and Browser commands the cdp package sends, evaluating expressions
// in the page's goja runtime.
type Browser struct {
	t   testing.TB
	srv *httptest.Server

	mu      sync.Mutex
	rt      *goja.Runtime
	methods []string
	pending []string
	binding string

	writeMu sync.Mutex
	conn    *websocket.Conn
}

type request struct {
	ID        int64               `json:"id"`
	SessionID string              `json:"sessionId"`
	Method    string              `json:"method"`
	Params    jsoniter.RawMessage `json:"params"`
}

// New starts a browser whose page runs script, with window aliasing the
// global object. It is closed when the test ends.
func New(t testing.TB, script string) *Browser {
	t.Helper()

	fb := &Browser{t: t, rt: goja.New()}
	_, err := fb.rt.RunString("var window = this;\n" + script)
	require.NoError(t, err)

	upgrader := websocket.Upgrader{}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fb.writeMu.Lock()
		fb.conn = conn
		fb.writeMu.Unlock()
		fb.serve(conn)
	}))
	t.Cleanup(fb.srv.Close)

	return fb
}

// URL returns the browser websocket endpoint.
func (fb *Browser) URL() string {
	return "ws" + strings.TrimPrefix(fb.srv.URL, "http")
}

func (fb *Browser) serve(conn *websocket.Conn) {
	defer conn.Close() //nolint:errcheck

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req request
		if err := jsoniter.Unmarshal(data, &req); err != nil {
			return
		}

		result, cdpErr := fb.handle(req)
		reply := map[string]any{"id": req.ID}
		if req.SessionID != "" {
			reply["sessionId"] = req.SessionID
		}
		if cdpErr != "" {
			reply["error"] = map[string]any{"code": -32601, "message": cdpErr}
		} else {
			reply["result"] = jsoniter.RawMessage(result)
		}
		fb.write(reply)
		fb.flushBindingCalls()
	}
}

func (fb *Browser) write(v any) {
	b, err := jsoniter.Marshal(v)
	if err != nil {
		panic(err)
	}
	fb.writeMu.Lock()
	defer fb.writeMu.Unlock()
	if fb.conn != nil {
		_ = fb.conn.WriteMessage(websocket.TextMessage, b)
	}
}

func (fb *Browser) handle(req request) (string, string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.methods = append(fb.methods, req.Method)

	switch req.Method {
	case "Target.getTargets":
		return `{"targetInfos":[` +
			`{"targetId":"W1","type":"service_worker","title":"","url":"","attached":false,"canAccessOpener":false},` +
			`{"targetId":"T1","type":"page","title":"New Tab","url":"rebel://newtab","attached":false,"canAccessOpener":false}]}`, ""
	case "Target.attachToTarget":
		return `{"sessionId":"` + SessionID + `"}`, ""
	case "Runtime.enable":
		return "{}", ""
	case "Browser.getVersion":
		return `{"protocolVersion":"1.3","product":"Rebel/80.1.2.3","revision":"","userAgent":"Mozilla/5.0 (X11; Linux x86_64) Rebel/80.1.2.3","jsVersion":"9.5"}`, ""
	case "Runtime.addBinding":
		var params struct {
			Name string `json:"name"`
		}
		_ = jsoniter.Unmarshal(req.Params, &params)
		fb.binding = params.Name
		_ = fb.rt.Set(params.Name, func(payload string) { fb.pending = append(fb.pending, payload) })
		return "{}", ""
	case "Runtime.evaluate":
		var params struct {
			Expression string `json:"expression"`
		}
		_ = jsoniter.Unmarshal(req.Params, &params)
		return fb.evaluate(params.Expression), ""
	}

	return "", fmt.Sprintf("'%s' wasn't found", req.Method)
}

// evaluate runs expr and encodes its result as a by-value RemoteObject.
func (fb *Browser) evaluate(expr string) string {
	v, err := fb.rt.RunString(expr)
	if err != nil {
		desc, _ := jsoniter.MarshalToString(err.Error())
		return `{"result":{"type":"object","subtype":"error","description":` + desc + `},` +
			`"exceptionDetails":{"exceptionId":1,"text":"Uncaught","lineNumber":0,"columnNumber":0}}`
	}
	switch {
	case goja.IsUndefined(v):
		return `{"result":{"type":"undefined"}}`
	case goja.IsNull(v):
		return `{"result":{"type":"object","subtype":"null","value":null}}`
	}

	stringify, _ := goja.AssertFunction(fb.rt.Get("JSON").ToObject(fb.rt).Get("stringify"))
	s, err := stringify(goja.Undefined(), v)
	if err != nil || goja.IsUndefined(s) {
		return `{"result":{"type":"function"}}`
	}
	typ := "object"
	switch v.ExportType().Kind().String() {
	case "bool":
		typ = "boolean"
	case "string":
		typ = "string"
	case "int64", "float64":
		typ = "number"
	}
	return `{"result":{"type":"` + typ + `","value":` + s.String() + `}}`
}

func (fb *Browser) flushBindingCalls() {
	fb.mu.Lock()
	pending, binding := fb.pending, fb.binding
	fb.pending = nil
	fb.mu.Unlock()

	for _, payload := range pending {
		fb.write(map[string]any{
			"method":    "Runtime.bindingCalled",
			"sessionId": SessionID,
			"params": map[string]any{
				"name":               binding,
				"payload":            payload,
				"executionContextId": 1,
			},
		})
	}
}

// Run evaluates script in the page as the browser itself would, delivering
// the binding calls it makes.
func (fb *Browser) Run(script string) {
	fb.mu.Lock()
	_, err := fb.rt.RunString(script)
	fb.mu.Unlock()
	require.NoError(fb.t, err)

	fb.flushBindingCalls()
}

// Export returns the JSON encoding of the page global name.
func (fb *Browser) Export(name string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	v, err := fb.rt.RunString("JSON.stringify(" + name + ")")
	require.NoError(fb.t, err)
	return v.String()
}

// Received returns the methods of the commands received so far.
func (fb *Browser) Received() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.methods...)
}

// CloseConn drops the connection as a crashing browser would.
func (fb *Browser) CloseConn() {
	fb.writeMu.Lock()
	defer fb.writeMu.Unlock()
	if fb.conn != nil {
		_ = fb.conn.Close()
	}
}
