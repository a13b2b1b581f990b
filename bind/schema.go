package bind

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Schema describes how one native type is driven by a component: which of
// its properties are mutable, which are fixed at construction, which are
// events, and the per-type hooks.
//
// Every property of the native type must appear in exactly one of Props,
// ReadonlyProps, the native side of EventProps, or IgnoredProps. Check
// enforces this.
type Schema[T any] struct {
	Name string

	// Props are written on mount (when PropsAfterCreate is set) and on every
	// update where the declared value changed.
	Props []string
	// ReadonlyProps are only read by Create. Changes after mount are dropped.
	ReadonlyProps []string
	// EventProps maps a component prop (e.g. "onPreRender") to a native event
	// name (e.g. "preRender").
	EventProps map[string]string
	// IgnoredProps are native properties the component does not expose.
	IgnoredProps []string

	// UseSharedEventBus routes EventProps through the EventBus found in the
	// mount context instead of native per-object events.
	UseSharedEventBus bool
	// PropsAfterCreate applies Props through the reconciler right after
	// Create returns. Set for components that locate an existing object.
	PropsAfterCreate bool

	// Create constructs or locates the native object. Returning false means a
	// required context value is missing; the component then renders nothing.
	Create func(ctx Context, props Props) (T, bool)
	// Destroy releases the native object. It must check liveness itself.
	Destroy func(obj T, ctx Context)
	// Update runs after property and event reconciliation on every update.
	Update func(obj T, props, prev Props)
	// Provide returns the context handed to the component's children.
	Provide func(obj T, ctx Context, props Props) Context
}

// Component is a schema erased to its type-independent lifecycle. Only
// *Schema values implement it.
type Component interface {
	ComponentName() string
	Info() SchemaInfo

	mount(e *Engine, in *Instance, props Props) bool
	update(e *Engine, in *Instance, props Props)
	unmount(e *Engine, in *Instance)
}

// ComponentName returns s.Name.
func (s *Schema[T]) ComponentName() string {
	return s.Name
}

// SchemaInfo is a type-erased description of a schema.
type SchemaInfo struct {
	Name              string            `json:"name"`
	NativeType        string            `json:"nativeType"`
	Props             []string          `json:"props"`
	ReadonlyProps     []string          `json:"readonlyProps,omitempty"`
	EventProps        map[string]string `json:"eventProps,omitempty"`
	IgnoredProps      []string          `json:"ignoredProps,omitempty"`
	UseSharedEventBus bool              `json:"useSharedEventBus,omitempty"`
	PropsAfterCreate  bool              `json:"propsAfterCreate,omitempty"`
	Provides          bool              `json:"provides,omitempty"`
}

// Info describes s.
func (s *Schema[T]) Info() SchemaInfo {
	return SchemaInfo{
		Name:              s.Name,
		NativeType:        reflect.TypeFor[T]().String(),
		Props:             s.Props,
		ReadonlyProps:     s.ReadonlyProps,
		EventProps:        s.EventProps,
		IgnoredProps:      s.IgnoredProps,
		UseSharedEventBus: s.UseSharedEventBus,
		PropsAfterCreate:  s.PropsAfterCreate,
		Provides:          s.Provide != nil,
	}
}

// SchemaError reports a schema whose property classification does not match
// its native type.
type SchemaError struct {
	Schema string
	// Unclassified native properties are in no bucket.
	Unclassified []string
	// Duplicated names are in more than one bucket.
	Duplicated []string
	// Unknown names are classified but do not exist on the native type.
	Unknown []string
	// NotEvents are event targets that are not event emitters.
	NotEvents []string
}

func (e *SchemaError) Error() string {
	var parts []string
	add := func(label string, names []string) {
		if len(names) > 0 {
			parts = append(parts, label+" "+strings.Join(names, ", "))
		}
	}
	add("unclassified:", e.Unclassified)
	add("duplicated:", e.Duplicated)
	add("unknown:", e.Unknown)
	add("not events:", e.NotEvents)
	return fmt.Sprintf("schema %s: %s", e.Schema, strings.Join(parts, "; "))
}

var emitterType = reflect.TypeFor[Emitter]()

// nativeProperties lists the properties of T, which must be a pointer to a
// struct, and whether each is an event emitter.
func nativeProperties[T any]() (map[string]bool, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("native type %s is not a pointer to struct", t)
	}
	st := t.Elem()
	props := make(map[string]bool)
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if name := propName(f); name != "" {
			props[name] = f.Type.Implements(emitterType)
		}
	}
	return props, nil
}

// Check verifies that the schema classifies every native property exactly
// once and names no property the native type lacks.
func (s *Schema[T]) Check() error {
	native, err := nativeProperties[T]()
	if err != nil {
		return fmt.Errorf("schema %s: %w", s.Name, err)
	}
	serr := &SchemaError{Schema: s.Name}
	seen := make(map[string]int)
	mark := func(names []string) {
		for _, n := range names {
			seen[n]++
			if _, ok := native[n]; !ok {
				serr.Unknown = append(serr.Unknown, n)
			}
		}
	}
	mark(s.Props)
	mark(s.ReadonlyProps)
	mark(s.IgnoredProps)
	if !s.UseSharedEventBus {
		for _, prop := range sortedKeys(s.EventProps) {
			ev := s.EventProps[prop]
			seen[ev]++
			isEvent, ok := native[ev]
			switch {
			case !ok:
				serr.Unknown = append(serr.Unknown, ev)
			case !isEvent:
				serr.NotEvents = append(serr.NotEvents, ev)
			}
		}
	}
	for name, n := range seen {
		if n > 1 {
			serr.Duplicated = append(serr.Duplicated, name)
		}
	}
	for name := range native {
		if seen[name] == 0 {
			serr.Unclassified = append(serr.Unclassified, name)
		}
	}
	for _, names := range [][]string{serr.Unclassified, serr.Duplicated, serr.Unknown, serr.NotEvents} {
		sort.Strings(names)
	}
	if len(serr.Unclassified)+len(serr.Duplicated)+len(serr.Unknown)+len(serr.NotEvents) > 0 {
		return serr
	}
	return nil
}

// MustCheck panics if Check fails. Call it once per schema at registration.
func (s *Schema[T]) MustCheck() {
	if err := s.Check(); err != nil {
		panic("bind: " + err.Error())
	}
}

// Define checks s and returns it. Intended for package-level schema
// variables.
func Define[T any](s *Schema[T]) *Schema[T] {
	s.MustCheck()
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
