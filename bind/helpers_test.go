package bind

import "github.com/rs/zerolog"

// fakeEvent is a minimal Emitter.
type fakeEvent struct {
	listeners map[int]func(...any)
	next      int
	adds      int
}

func newFakeEvent() *fakeEvent {
	return &fakeEvent{listeners: make(map[int]func(...any))}
}

func (e *fakeEvent) AddEventListener(fn func(args ...any)) (remove func()) {
	e.next++
	e.adds++
	id := e.next
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

func (e *fakeEvent) raise(args ...any) {
	for i := 1; i <= e.next; i++ {
		if fn, ok := e.listeners[i]; ok {
			fn(args...)
		}
	}
}

// widget is a native object written through reflection.
type widget struct {
	Color   string     `prop:"color"`
	Size    int        `prop:"size"`
	Shape   string     `prop:"shape"`
	Changed *fakeEvent `prop:"changed"`
	Hidden  int        `prop:"-"`

	destroyed bool
}

func newWidget() *widget {
	return &widget{Color: "default", Changed: newFakeEvent()}
}

func (w *widget) IsDestroyed() bool { return w.destroyed }

// recorder is a native object that records every property write.
type recorder struct {
	A       int        `prop:"a"`
	B       int        `prop:"b"`
	C       int        `prop:"c"`
	Changed *fakeEvent `prop:"changed"`

	writes    []Write
	destroyed bool
}

func newRecorder() *recorder {
	return &recorder{Changed: newFakeEvent()}
}

func (r *recorder) SetProperty(name string, value any) error {
	r.writes = append(r.writes, Write{Name: name, Value: value})
	return nil
}

func (r *recorder) IsDestroyed() bool { return r.destroyed }

// countingMetrics records engine metrics calls.
type countingMetrics struct {
	mounted, skipped, updated, unmounted int
	writes, dropped, bindings            int
}

func (m *countingMetrics) Mounted(string)                  { m.mounted++ }
func (m *countingMetrics) MountSkipped(string)             { m.skipped++ }
func (m *countingMetrics) Updated(string)                  { m.updated++ }
func (m *countingMetrics) PropertyWrites(_ string, n int)  { m.writes += n }
func (m *countingMetrics) ReadonlyDropped(_ string, n int) { m.dropped += n }
func (m *countingMetrics) Unmounted(string)                { m.unmounted++ }
func (m *countingMetrics) EventBindings(_ string, d int)   { m.bindings += d }

func testEngine() (*Engine, *countingMetrics) {
	m := &countingMetrics{}
	return NewEngine(WithLogger(zerolog.Nop()), WithMetrics(m)), m
}
