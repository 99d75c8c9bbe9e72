package cdp

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto"
	"github.com/gorilla/websocket"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
	"github.com/oxtoacart/bpool"
	"github.com/pkg/errors"

	"github.com/rebel-browser/browser-api/log"
)

const wsWriteBufferSize = 1 << 20

// connection reads and writes CDP messages over a websocket.
type connection struct {
	ws     *websocket.Conn
	wsURL  string
	logger *log.Logger

	writeMu sync.Mutex
	bufPool *bpool.BufferPool

	closeOnce sync.Once
}

func newConnection(ctx context.Context, wsURL string, logger *log.Logger) (*connection, error) {
	wd := websocket.Dialer{
		HandshakeTimeout: time.Second * 10,
		Proxy:            http.ProxyFromEnvironment,
		WriteBufferSize:  wsWriteBufferSize,
	}
	ws, _, err := wd.DialContext(ctx, wsURL, http.Header{})
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %q", wsURL)
	}

	return &connection{
		ws:      ws,
		wsURL:   wsURL,
		logger:  logger,
		bufPool: bpool.NewBufferPool(8),
	}, nil
}

func (c *connection) readMessage() (*cdproto.Message, error) {
	_, buf, err := c.ws.ReadMessage()
	if err != nil {
		return nil, errors.Wrap(err, "reading CDP message")
	}

	var msg cdproto.Message
	lexer := jlexer.Lexer{Data: buf}
	msg.UnmarshalEasyJSON(&lexer)
	if err := lexer.Error(); err != nil {
		return nil, errors.Wrap(err, "decoding CDP message")
	}

	return &msg, nil
}

func (c *connection) writeMessage(msg *cdproto.Message) error {
	var encoder jwriter.Writer
	msg.MarshalEasyJSON(&encoder)
	if err := encoder.Error; err != nil {
		return errors.Wrap(err, "encoding CDP message")
	}

	buf := c.bufPool.Get()
	defer c.bufPool.Put(buf)
	if _, err := encoder.DumpTo(buf); err != nil {
		return errors.Wrap(err, "buffering CDP message")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteMessage(websocket.TextMessage, buf.Bytes()); err != nil {
		return errors.Wrapf(err, "writing CDP message %d", msg.ID)
	}

	return nil
}

// Close sends a close frame and closes the underlying connection.
func (c *connection) Close() {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		err := c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		if err != nil {
			c.logger.Debugf("connection:Close", "wsURL:%q sending close frame: %v", c.wsURL, err)
		}
		if err := c.ws.Close(); err != nil {
			c.logger.Debugf("connection:Close", "wsURL:%q err:%v", c.wsURL, err)
		}
	})
}
