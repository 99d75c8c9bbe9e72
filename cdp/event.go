package cdp

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/target"
)

// Event is a CDP event received from the browser.
type Event struct {
	Name      cdproto.MethodType
	Data      any
	SessionID target.SessionID
}

// eventWatcher fans received events out to subscribers. Every subscriber
// has its own unbounded queue, so a slow subscriber neither loses events
// nor blocks the receive loop.
type eventWatcher struct {
	ctx    context.Context
	subsMu sync.RWMutex
	subs   map[*subscription]struct{}
}

func newEventWatcher(ctx context.Context) *eventWatcher {
	return &eventWatcher{
		ctx:  ctx,
		subs: make(map[*subscription]struct{}),
	}
}

type subscription struct {
	events map[cdproto.MethodType]bool

	mu     sync.Mutex
	queue  []*Event
	signal chan struct{}
	out    chan *Event
	done   chan struct{}
	once   sync.Once
}

// subscribe returns a channel receiving the given events and a function
// that unsubscribes and closes the channel.
func (w *eventWatcher) subscribe(events ...cdproto.MethodType) (<-chan *Event, func()) {
	s := &subscription{
		events: make(map[cdproto.MethodType]bool, len(events)),
		signal: make(chan struct{}, 1),
		out:    make(chan *Event),
		done:   make(chan struct{}),
	}
	for _, evt := range events {
		s.events[evt] = true
	}

	w.subsMu.Lock()
	w.subs[s] = struct{}{}
	w.subsMu.Unlock()

	go s.pump(w.ctx)

	return s.out, func() {
		w.subsMu.Lock()
		delete(w.subs, s)
		w.subsMu.Unlock()
		s.once.Do(func() { close(s.done) })
	}
}

func (w *eventWatcher) notify(evt *Event) {
	w.subsMu.RLock()
	defer w.subsMu.RUnlock()

	for s := range w.subs {
		if s.events[evt.Name] {
			s.push(evt)
		}
	}
}

func (s *subscription) push(evt *Event) {
	s.mu.Lock()
	s.queue = append(s.queue, evt)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscription) pump(ctx context.Context) {
	defer close(s.out)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.signal:
				continue
			case <-s.done:
				return
			case <-ctx.Done():
				return
			}
		}
		evt := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- evt:
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}
