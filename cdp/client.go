// Package cdp reaches the host object of a Rebel browser page over the Chrome
// DevTools Protocol, for tooling running outside the browser.
package cdp

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/mailru/easyjson"
	"github.com/pkg/errors"

	"github.com/rebel-browser/browser-api/cdp/domains"
	"github.com/rebel-browser/browser-api/log"
)

var _ cdp.Executor = &Client{}

// ErrClosed is returned for commands pending or sent after the connection
// to the browser was lost.
var ErrClosed = errors.New("CDP connection closed")

// ErrNoPage is returned by AttachToPage when the browser has no page open.
var ErrNoPage = errors.New("no page target to attach to")

// Client manages CDP communication with the browser.
type Client struct {
	ctx    context.Context
	logger *log.Logger

	Browser domains.Browser
	Runtime domains.Runtime
	Target  domains.Target

	conn      *connection
	msgID     int64
	msgSubsMu sync.Mutex
	msgSubs   map[int64]chan *cdproto.Message
	watcher   *eventWatcher
	wsURL     string

	done     chan struct{}
	doneOnce sync.Once
}

// NewClient returns a new Client that is unusable until a CDP connection is
// established with Connect().
func NewClient(ctx context.Context, logger *log.Logger) *Client {
	c := &Client{
		ctx:     ctx,
		logger:  logger,
		msgSubs: make(map[int64]chan *cdproto.Message),
		watcher: newEventWatcher(ctx),
		done:    make(chan struct{}),
	}

	c.Browser = domains.NewBrowser(c)
	c.Runtime = domains.NewRuntime(c)
	c.Target = domains.NewTarget(c)

	return c
}

// Connect to the browser that exposes a CDP API at wsURL.
func (c *Client) Connect(wsURL string) (err error) {
	if c.wsURL != "" {
		return errors.Errorf("CDP connection already established to %q", c.wsURL)
	}

	if c.conn, err = newConnection(c.ctx, wsURL, c.logger); err != nil {
		return err
	}
	c.logger.Infof("cdp", "established CDP connection to %q", wsURL)
	c.wsURL = wsURL

	go c.recvLoop()
	go func() {
		select {
		case <-c.ctx.Done():
			c.conn.Close()
		case <-c.done:
		}
	}()

	return nil
}

// Disconnect from the browser's CDP API.
func (c *Client) Disconnect() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// Done is closed when the connection to the browser is lost.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Execute implements cdp.Executor and performs a synchronous send and
// receive. Commands executed with a context set by WithSessionID are routed
// to that session.
func (c *Client) Execute(ctx context.Context, method string, params easyjson.Marshaler, res easyjson.Unmarshaler) error {
	c.logger.Debugf("Client:Execute", "wsURL:%q method:%q", c.wsURL, method)
	if c.conn == nil {
		return errors.Errorf("executing %s: not connected", method)
	}

	var buf []byte
	if params != nil {
		var err error
		if buf, err = easyjson.Marshal(params); err != nil {
			return errors.Wrapf(err, "encoding %s parameters", method)
		}
	}
	msg := &cdproto.Message{
		ID:        atomic.AddInt64(&c.msgID, 1),
		SessionID: GetSessionID(ctx),
		Method:    cdproto.MethodType(method),
		Params:    buf,
	}

	recvCh := make(chan *cdproto.Message, 1)
	c.msgSubsMu.Lock()
	c.msgSubs[msg.ID] = recvCh
	c.msgSubsMu.Unlock()
	defer func() {
		c.msgSubsMu.Lock()
		delete(c.msgSubs, msg.ID)
		c.msgSubsMu.Unlock()
	}()

	select {
	case <-c.done:
		return errors.Wrapf(ErrClosed, "executing %s", method)
	default:
	}
	if err := c.conn.writeMessage(msg); err != nil {
		return err
	}

	select {
	case reply := <-recvCh:
		switch {
		case reply.Error != nil:
			return errors.Wrapf(reply.Error, "executing %s", method)
		case res != nil:
			return errors.Wrapf(easyjson.Unmarshal(reply.Result, res), "decoding %s result", method)
		}
		return nil
	case <-c.done:
		return errors.Wrapf(ErrClosed, "executing %s", method)
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "executing %s", method)
	}
}

// Subscribe returns a channel receiving the given CDP events, and a
// cancellation function that unsubscribes and closes the channel.
func (c *Client) Subscribe(events ...cdproto.MethodType) (<-chan *Event, func()) {
	return c.watcher.subscribe(events...)
}

// AttachToPage attaches to the first page target and returns a context
// routing commands to it.
func (c *Client) AttachToPage(ctx context.Context) (context.Context, error) {
	infos, err := c.Target.GetTargets(ctx)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Type != "page" {
			continue
		}
		sid, err := c.Target.AttachToTarget(ctx, info.TargetID)
		if err != nil {
			return nil, err
		}
		c.logger.Debugf("Client:AttachToPage", "tid:%v sid:%v url:%q", info.TargetID, sid, info.URL)
		return WithSessionID(ctx, sid), nil
	}

	return nil, ErrNoPage
}

func (c *Client) recvLoop() {
	defer c.doneOnce.Do(func() { close(c.done) })

	for {
		msg, err := c.conn.readMessage()
		if err != nil {
			select {
			case <-c.ctx.Done():
				c.logger.Debugf("Client:recvLoop", "wsURL:%q closing: %v", c.wsURL, err)
			default:
				c.logger.Errorf("Client:recvLoop", "wsURL:%q ioErr:%v", c.wsURL, err)
			}
			c.conn.Close()
			return
		}

		switch {
		case msg.Method != "":
			evt, err := cdproto.UnmarshalMessage(msg)
			if err != nil {
				c.logger.Debugf("Client:recvLoop", "unmarshalling CDP event %q: %v", msg.Method, err)
				continue
			}
			c.watcher.notify(&Event{
				Name:      msg.Method,
				Data:      evt,
				SessionID: target.SessionID(msg.SessionID),
			})
		case msg.ID > 0:
			c.msgSubsMu.Lock()
			ch, ok := c.msgSubs[msg.ID]
			c.msgSubsMu.Unlock()
			if !ok {
				c.logger.Debugf("Client:recvLoop", "wsURL:%q dropping reply to unknown message %d", c.wsURL, msg.ID)
				continue
			}
			ch <- msg
		default:
			c.logger.Errorf("Client:recvLoop", "ignoring malformed CDP message without id or method: %#v", msg)
		}
	}
}
