package bind

// EventBusKey is the context key under which components find the shared
// event bus.
var EventBusKey = NewKey[*EventBus]("eventBus")

// EventBus multiplexes many fine-grained event names over one native
// notification channel. The channel's owner calls Dispatch; components
// register per (target, event name).
type EventBus struct {
	handlers map[busKey][]*busHandler
	count    int
}

type busKey struct {
	target any
	event  string
}

type busHandler struct {
	fn      func(args ...any)
	removed bool
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[busKey][]*busHandler)}
}

// Register adds fn for events named event on target and returns its remover.
// target must be comparable. The remover is idempotent.
func (b *EventBus) Register(target any, event string, fn func(args ...any)) (remove func()) {
	if fn == nil {
		panic("bind: cannot register nil bus handler")
	}
	k := busKey{target: target, event: event}
	h := &busHandler{fn: fn}
	b.handlers[k] = append(b.handlers[k], h)
	b.count++
	return func() { b.unregister(k, h) }
}

func (b *EventBus) unregister(k busKey, h *busHandler) {
	if h.removed {
		return
	}
	h.removed = true
	b.count--
	hs := b.handlers[k]
	for i, q := range hs {
		if q == h {
			// Build a new slice so a Dispatch iterating the old one is unaffected.
			next := make([]*busHandler, 0, len(hs)-1)
			next = append(next, hs[:i]...)
			next = append(next, hs[i+1:]...)
			if len(next) == 0 {
				delete(b.handlers, k)
			} else {
				b.handlers[k] = next
			}
			return
		}
	}
}

// Dispatch invokes every handler registered for (target, event) and returns
// how many ran. Handlers removed during dispatch do not run.
func (b *EventBus) Dispatch(target any, event string, args ...any) int {
	hs := b.handlers[busKey{target: target, event: event}]
	ran := 0
	for _, h := range hs {
		if h.removed {
			continue
		}
		h.fn(args...)
		ran++
	}
	return ran
}

// Len returns the number of registered handlers.
func (b *EventBus) Len() int {
	return b.count
}
