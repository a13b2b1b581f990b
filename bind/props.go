package bind

import (
	"reflect"
	"sort"
)

// Props is a complete declared property set for one component occurrence.
// A missing key and a nil value both mean "unset".
type Props map[string]any

// Get returns the value of name and whether it is set.
func (p Props) Get(name string) (any, bool) {
	v, ok := p[name]
	if !ok || isUnset(v) {
		return nil, false
	}
	return v, true
}

// Clone returns a shallow copy. Values are shared.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Names returns the keys of p in sorted order.
func (p Props) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// isUnset reports whether v is nil or a typed nil reference.
func isUnset(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// sameValue reports whether a and b need no write between them. Reference
// kinds compare by identity, everything else by value. Values that cannot be
// compared at runtime are never the same.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Func:
		// Only the code pointer is observable; closures over different
		// variables share it, so funcs are never considered the same.
		return false
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len() && va.Cap() == vb.Cap()
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}
