package bind

import (
	"reflect"
	"sort"

	"github.com/rs/zerolog"
)

// Emitter is a native event source.
type Emitter interface {
	AddEventListener(fn func(args ...any)) (remove func())
}

// liveness is implemented by native objects that can be destroyed.
type liveness interface {
	IsDestroyed() bool
}

func alive(obj any) bool {
	if l, ok := obj.(liveness); ok {
		return !l.IsDestroyed()
	}
	return true
}

// Binder keeps exactly one live subscription per declared event prop of one
// native object. The subscription invokes whichever callback is current, so
// replacing a callback never subscribes twice and never leaves a gap.
type Binder struct {
	target any
	events map[string]string // prop → native event name
	bus    *EventBus         // nil unless the shared bus is used
	subs   map[string]*subscription
	log    zerolog.Logger
}

type subscription struct {
	fn     reflect.Value
	remove func()
}

// NewBinder creates a binder for target. With a non-nil bus, events are
// registered on the bus keyed by target instead of on native emitters.
func NewBinder(target any, events map[string]string, bus *EventBus, log zerolog.Logger) *Binder {
	return &Binder{
		target: target,
		events: events,
		bus:    bus,
		subs:   make(map[string]*subscription),
		log:    log,
	}
}

// Sync reconciles subscriptions with props: a callable prop gets exactly one
// subscription, anything else releases it.
func (b *Binder) Sync(props Props) {
	for _, prop := range sortedKeys(b.events) {
		v, ok := props.Get(prop)
		fn := reflect.ValueOf(v)
		if ok && fn.Kind() != reflect.Func {
			b.log.Warn().Str("prop", prop).Str("type", fn.Type().String()).Msg("event prop is not a function")
			ok = false
		}
		sub := b.subs[prop]
		switch {
		case !ok && sub != nil:
			b.release(prop, sub)
		case ok && sub != nil:
			sub.fn = fn
		case ok:
			b.subscribe(prop, fn)
		}
	}
}

func (b *Binder) subscribe(prop string, fn reflect.Value) {
	event := b.events[prop]
	sub := &subscription{fn: fn}
	trampoline := func(args ...any) {
		if sub.fn.IsValid() {
			invoke(sub.fn, args)
		}
	}
	if b.bus != nil {
		sub.remove = b.bus.Register(b.target, event, trampoline)
	} else {
		em := emitterOf(b.target, event)
		if em == nil {
			b.log.Warn().Str("prop", prop).Str("event", event).Msg("native event not found")
			return
		}
		sub.remove = em.AddEventListener(trampoline)
	}
	b.subs[prop] = sub
}

func (b *Binder) release(prop string, sub *subscription) {
	delete(b.subs, prop)
	sub.fn = reflect.Value{}
	// A destroyed native has already dropped its listeners.
	if b.bus == nil && !alive(b.target) {
		return
	}
	sub.remove()
}

// Release drops every subscription. Safe to call more than once.
func (b *Binder) Release() {
	props := make([]string, 0, len(b.subs))
	for p := range b.subs {
		props = append(props, p)
	}
	sort.Strings(props)
	for _, p := range props {
		b.release(p, b.subs[p])
	}
}

// Len returns the number of live subscriptions.
func (b *Binder) Len() int {
	return len(b.subs)
}

// emitterOf returns the Emitter field of target whose property name is event.
func emitterOf(target any, event string) Emitter {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil
	}
	rv = rv.Elem()
	idx, ok := propFields(rv.Type())[event]
	if !ok {
		return nil
	}
	f := rv.Field(idx)
	if !f.Type().Implements(emitterType) || isUnset(f.Interface()) {
		return nil
	}
	return f.Interface().(Emitter)
}

var variadicAnyType = reflect.TypeFor[func(...any)]()

// invoke calls fn with args, adapting to its signature: missing or
// mismatched arguments are passed as zero values and extra ones dropped.
func invoke(fn reflect.Value, args []any) {
	if fn.Type() == variadicAnyType {
		fn.Interface().(func(...any))(args...)
		return
	}
	t := fn.Type()
	n := t.NumIn()
	if t.IsVariadic() {
		n--
	}
	in := make([]reflect.Value, n)
	for i := 0; i < n; i++ {
		pt := t.In(i)
		in[i] = reflect.Zero(pt)
		if i >= len(args) || args[i] == nil {
			continue
		}
		av := reflect.ValueOf(args[i])
		switch {
		case av.Type().AssignableTo(pt):
			in[i] = av
		case av.Kind() == reflect.Slice && pt.Kind() == reflect.Array && av.Len() < pt.Len():
		case av.Type().ConvertibleTo(pt) && av.Kind() != reflect.String && pt.Kind() != reflect.String:
			in[i] = av.Convert(pt)
		}
	}
	fn.Call(in)
}
