package bind

// Context is the ambient record handed from a mounted component to its
// descendants. It is an immutable chain: With returns a new Context and never
// changes the receiver, so overrides are only visible below the point where
// they were made. The zero value is an empty context.
type Context struct {
	n *contextNode
}

type contextNode struct {
	parent *contextNode
	key    any
	val    any
}

// Background returns the empty context.
func Background() Context {
	return Context{}
}

// With returns a context that maps key to val and inherits every other key
// from c.
func (c Context) With(key, val any) Context {
	return Context{n: &contextNode{parent: c.n, key: key, val: val}}
}

// Value returns the nearest value stored under key. A nil or typed nil value
// reads as absent.
func (c Context) Value(key any) (any, bool) {
	for n := c.n; n != nil; n = n.parent {
		if n.key == key {
			if isUnset(n.val) {
				return nil, false
			}
			return n.val, true
		}
	}
	return nil, false
}

// Keys returns the distinct keys visible from c, nearest first.
func (c Context) Keys() []any {
	var keys []any
	seen := make(map[any]bool)
	for n := c.n; n != nil; n = n.parent {
		if seen[n.key] {
			continue
		}
		seen[n.key] = true
		keys = append(keys, n.key)
	}
	return keys
}

// Key is a typed context key. Keys compare by identity, so two keys with the
// same name are distinct.
type Key[T any] struct {
	name string
}

// NewKey returns a new key. name is only used for diagnostics.
func NewKey[T any](name string) *Key[T] {
	return &Key[T]{name: name}
}

// String returns the key name.
func (k *Key[T]) String() string {
	return k.name
}

// From returns the value stored under k.
func (k *Key[T]) From(ctx Context) (T, bool) {
	var zero T
	v, ok := ctx.Value(k)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// With returns ctx extended with k mapped to v.
func (k *Key[T]) With(ctx Context, v T) Context {
	return ctx.With(k, v)
}
