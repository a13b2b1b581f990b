package bind

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Metrics receives lifecycle counts. internal/metrics provides a prometheus
// implementation.
type Metrics interface {
	Mounted(component string)
	MountSkipped(component string)
	Updated(component string)
	PropertyWrites(component string, n int)
	ReadonlyDropped(component string, n int)
	Unmounted(component string)
	EventBindings(component string, delta int)
}

type nopMetrics struct{}

func (nopMetrics) Mounted(string)              {}
func (nopMetrics) MountSkipped(string)         {}
func (nopMetrics) Updated(string)              {}
func (nopMetrics) PropertyWrites(string, int)  {}
func (nopMetrics) ReadonlyDropped(string, int) {}
func (nopMetrics) Unmounted(string)            {}
func (nopMetrics) EventBindings(string, int)   {}

// Engine is the lifecycle manager: it mounts, updates and unmounts component
// instances on behalf of a host tree walker. All calls must come from one
// goroutine. Failures inside hooks are recovered and logged; nothing is
// returned to the caller.
type Engine struct {
	log     zerolog.Logger
	metrics Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: zerolog.Nop(), metrics: nopMetrics{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type instanceState uint8

const (
	stateNew instanceState = iota
	stateMounted
	stateUnmounted
)

// Instance is one live occurrence of a component. Its fields are only
// changed by the Engine.
type Instance struct {
	component Component
	state     instanceState
	native    any
	prev      Props
	ctxIn     Context
	ctxOut    Context
	binder    *Binder
}

// Component returns the instance's component.
func (in *Instance) Component() Component { return in.component }

// Native returns the native object, or nil once unmounted.
func (in *Instance) Native() any { return in.native }

// Mounted reports whether the instance is between mount and unmount.
func (in *Instance) Mounted() bool { return in.state == stateMounted }

// ContextIn returns the context the instance was mounted with.
func (in *Instance) ContextIn() Context { return in.ctxIn }

// Context returns the context for the instance's children: ContextIn,
// extended by the component's Provide hook if it has one.
func (in *Instance) Context() Context { return in.ctxOut }

// Props returns the last applied prop set.
func (in *Instance) Props() Props { return in.prev }

// Bindings returns the number of live event subscriptions.
func (in *Instance) Bindings() int {
	if in.binder == nil {
		return 0
	}
	return in.binder.Len()
}

// Mount creates an instance of c. It returns nil when the component's Create
// hook reports a missing context value or fails; the caller may retry with a
// fresh Mount later.
func (e *Engine) Mount(c Component, ctx Context, props Props) *Instance {
	in := &Instance{component: c, ctxIn: ctx, ctxOut: ctx}
	if !c.mount(e, in, props) {
		e.metrics.MountSkipped(c.ComponentName())
		e.log.Debug().Str("component", c.ComponentName()).Msg("mount skipped")
		return nil
	}
	in.state = stateMounted
	e.metrics.Mounted(c.ComponentName())
	return in
}

// Update reconciles a mounted instance with a complete new prop set.
// Updating an instance that is not mounted does nothing.
func (e *Engine) Update(in *Instance, props Props) {
	if in == nil || in.state != stateMounted {
		return
	}
	in.component.update(e, in, props)
	e.metrics.Updated(in.component.ComponentName())
}

// Unmount releases every subscription and destroys the native object.
// Unmount is terminal and safe to call more than once.
func (e *Engine) Unmount(in *Instance) {
	if in == nil || in.state != stateMounted {
		return
	}
	in.state = stateUnmounted
	in.component.unmount(e, in)
	in.native = nil
	in.prev = nil
	e.metrics.Unmounted(in.component.ComponentName())
}

// safeCall runs fn, converting a panic into a logged error.
func (e *Engine) safeCall(component, hook string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			e.log.Error().
				Str("component", component).
				Str("hook", hook).
				Str("panic", fmt.Sprint(r)).
				Msg("hook failed")
		}
	}()
	fn()
	return true
}

// apply writes ch to obj, skipping everything if obj is already destroyed.
func (e *Engine) apply(component string, obj any, ch Changes) {
	if len(ch.Dropped) > 0 {
		e.metrics.ReadonlyDropped(component, len(ch.Dropped))
		e.log.Debug().Str("component", component).Strs("props", ch.Dropped).
			Msg("construction-only props changed; ignored")
	}
	if len(ch.Writes) == 0 {
		return
	}
	if !alive(obj) {
		e.log.Debug().Str("component", component).Msg("native object destroyed; writes skipped")
		return
	}
	n, err := Apply(obj, ch.Writes)
	e.metrics.PropertyWrites(component, n)
	if err != nil {
		e.log.Warn().Str("component", component).Err(err).Msg("property write failed")
	}
}

func (s *Schema[T]) newBinder(e *Engine, in *Instance, obj T) *Binder {
	var bus *EventBus
	if s.UseSharedEventBus {
		b, ok := EventBusKey.From(in.ctxIn)
		if !ok {
			e.log.Debug().Str("component", s.Name).Msg("no event bus in context; events not bound")
			return NewBinder(obj, nil, nil, e.log)
		}
		bus = b
	}
	return NewBinder(obj, s.EventProps, bus, e.log.With().Str("component", s.Name).Logger())
}

func (s *Schema[T]) syncEvents(e *Engine, in *Instance, props Props) {
	before := in.binder.Len()
	in.binder.Sync(props)
	if d := in.binder.Len() - before; d != 0 {
		e.metrics.EventBindings(s.Name, d)
	}
}

func (s *Schema[T]) mount(e *Engine, in *Instance, props Props) bool {
	var (
		obj T
		ok  bool
	)
	if !e.safeCall(s.Name, "create", func() { obj, ok = s.Create(in.ctxIn, props) }) || !ok {
		return false
	}
	in.native = obj
	if s.PropsAfterCreate {
		e.apply(s.Name, obj, Diff(nil, props, s.Props, s.ReadonlyProps))
	}
	in.binder = s.newBinder(e, in, obj)
	s.syncEvents(e, in, props)
	in.prev = props.Clone()
	if s.Provide != nil {
		e.safeCall(s.Name, "provide", func() { in.ctxOut = s.Provide(obj, in.ctxIn, props) })
	}
	return true
}

func (s *Schema[T]) update(e *Engine, in *Instance, props Props) {
	obj := in.native.(T)
	e.apply(s.Name, obj, Diff(in.prev, props, s.Props, s.ReadonlyProps))
	s.syncEvents(e, in, props)
	if s.Update != nil {
		prev := in.prev
		e.safeCall(s.Name, "update", func() { s.Update(obj, props, prev) })
	}
	in.prev = props.Clone()
}

func (s *Schema[T]) unmount(e *Engine, in *Instance) {
	if in.binder != nil {
		if n := in.binder.Len(); n > 0 {
			e.metrics.EventBindings(s.Name, -n)
		}
		in.binder.Release()
	}
	if s.Destroy != nil {
		obj := in.native.(T)
		e.safeCall(s.Name, "destroy", func() { s.Destroy(obj, in.ctxIn) })
	}
}
