package canopy

// Event is a native event source. Listeners are invoked synchronously, in
// registration order, by RaiseEvent.
//
// Listeners may be added or removed while the event is being raised: removed
// listeners stop firing immediately, added listeners fire from the next raise.
type Event struct {
	listeners []eventListener
	nextID    uint32
	raising   int
	pending   bool // removals deferred until the outermost raise returns
}

type eventListener struct {
	id uint32
	fn func(args ...any)
}

// NewEvent creates an event with no listeners.
func NewEvent() *Event {
	return &Event{}
}

// AddEventListener registers fn and returns a function that unregisters it.
// The returned function is idempotent.
func (e *Event) AddEventListener(fn func(args ...any)) (remove func()) {
	if fn == nil {
		panic("canopy: cannot add nil event listener")
	}
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, eventListener{id: id, fn: fn})
	return func() { e.removeListener(id) }
}

// RaiseEvent invokes every registered listener with args.
func (e *Event) RaiseEvent(args ...any) {
	if len(e.listeners) == 0 {
		return
	}
	e.raising++
	n := len(e.listeners)
	for i := 0; i < n && i < len(e.listeners); i++ {
		if fn := e.listeners[i].fn; fn != nil {
			fn(args...)
		}
	}
	e.raising--
	if e.raising == 0 && e.pending {
		e.compact()
	}
}

// NumberOfListeners returns the number of live listeners.
func (e *Event) NumberOfListeners() int {
	count := 0
	for i := range e.listeners {
		if e.listeners[i].fn != nil {
			count++
		}
	}
	return count
}

// removeListener drops the listener with id. During a raise the slot is
// cleared in place so indices held by RaiseEvent stay valid.
func (e *Event) removeListener(id uint32) {
	for i := range e.listeners {
		if e.listeners[i].id != id {
			continue
		}
		if e.raising > 0 {
			e.listeners[i].fn = nil
			e.pending = true
			return
		}
		copy(e.listeners[i:], e.listeners[i+1:])
		e.listeners[len(e.listeners)-1] = eventListener{}
		e.listeners = e.listeners[:len(e.listeners)-1]
		return
	}
}

func (e *Event) compact() {
	kept := e.listeners[:0]
	for _, l := range e.listeners {
		if l.fn != nil {
			kept = append(kept, l)
		}
	}
	for i := len(kept); i < len(e.listeners); i++ {
		e.listeners[i] = eventListener{}
	}
	e.listeners = kept
	e.pending = false
}

// clear drops every listener. Used when the owning object is destroyed.
func (e *Event) clear() {
	if e == nil {
		return
	}
	if e.raising > 0 {
		for i := range e.listeners {
			e.listeners[i].fn = nil
		}
		e.pending = true
		return
	}
	e.listeners = nil
}

// InteractionEvent carries a pointer interaction on a picked primitive.
type InteractionEvent struct {
	Type   EventType
	Target Primitive
	X, Y   float64 // screen position
	// Position is the geodetic point under the pointer.
	Position Cartographic
	Button   MouseButton
}

// InteractionSink receives every interaction event the scene produces. A
// single sink per scene fans events out to interested parties.
type InteractionSink interface {
	EmitEvent(event InteractionEvent)
}
