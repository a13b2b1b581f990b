package bind

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var (
	// ErrUnknownProperty is returned when a property name has no field.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrPropertyType is returned when a value cannot be converted to the
	// field's type.
	ErrPropertyType = errors.New("property type mismatch")
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// PropertyWriter is implemented by native objects that want to handle
// property writes themselves instead of through struct field reflection.
type PropertyWriter interface {
	SetProperty(name string, value any) error
}

// propName returns the property name of a struct field, or "" if the field is
// not a property.
func propName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag, ok := f.Tag.Lookup("prop")
	if tag == "-" {
		return ""
	}
	if ok && tag != "" {
		return tag
	}
	return strings.ToLower(f.Name[:1]) + f.Name[1:]
}

// fieldCache maps a struct type to its property name → field index table.
var fieldCache sync.Map // reflect.Type → map[string]int

func propFields(t reflect.Type) map[string]int {
	if m, ok := fieldCache.Load(t); ok {
		return m.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := propName(t.Field(i)); name != "" {
			m[name] = i
		}
	}
	actual, _ := fieldCache.LoadOrStore(t, m)
	return actual.(map[string]int)
}

// SetProperty writes value to the property name of obj. obj must be a
// PropertyWriter or a pointer to a struct with prop-tagged fields.
func SetProperty(obj any, name string, value any) error {
	if w, ok := obj.(PropertyWriter); ok {
		return w.SetProperty(name, value)
	}
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("set %q on %T: %w", name, obj, ErrUnknownProperty)
	}
	rv = rv.Elem()
	idx, ok := propFields(rv.Type())[name]
	if !ok {
		return fmt.Errorf("set %q on %T: %w", name, obj, ErrUnknownProperty)
	}
	if err := assign(rv.Field(idx), value); err != nil {
		return fmt.Errorf("set %q on %T: %w", name, obj, err)
	}
	return nil
}

// Apply performs writes on obj in order. Failed writes are skipped; the
// joined error reports all of them.
func Apply(obj any, writes []Write) (applied int, err error) {
	var errs []error
	for _, w := range writes {
		if e := SetProperty(obj, w.Name, w.Value); e != nil {
			errs = append(errs, e)
			continue
		}
		applied++
	}
	return applied, errors.Join(errs...)
}

// Populate fills the prop-tagged fields of the struct dst points to from
// props. Names without a field and unset values are skipped.
func Populate(dst any, props Props) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("populate %T: want pointer to struct", dst)
	}
	rv = rv.Elem()
	fields := propFields(rv.Type())
	var errs []error
	for _, name := range props.Names() {
		v, ok := props.Get(name)
		if !ok {
			continue
		}
		idx, ok := fields[name]
		if !ok {
			continue
		}
		if err := assign(rv.Field(idx), v); err != nil {
			errs = append(errs, fmt.Errorf("populate %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// As returns props[name] converted to T. ok is false when the property is
// unset or cannot be converted.
func As[T any](props Props, name string) (T, bool) {
	var out T
	v, ok := props.Get(name)
	if !ok {
		return out, false
	}
	if err := assign(reflect.ValueOf(&out).Elem(), v); err != nil {
		return out, false
	}
	return out, true
}

// assign stores v into dst, converting the loosely typed values produced by
// scene files (float64, string, []any, map[string]any) where needed.
func assign(dst reflect.Value, v any) error {
	if isUnset(v) {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	src := reflect.ValueOf(v)
	dt := dst.Type()

	if src.Type().AssignableTo(dt) {
		dst.Set(src)
		return nil
	}

	if s, ok := v.(string); ok && reflect.PointerTo(dt).Implements(textUnmarshalerType) {
		ptr := reflect.New(dt)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("%w: %w", ErrPropertyType, err)
		}
		dst.Set(ptr.Elem())
		return nil
	}

	switch dt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if isNumber(src.Kind()) {
			dst.Set(src.Convert(dt))
			return nil
		}
	case reflect.String:
		if src.Kind() == reflect.String {
			dst.Set(src.Convert(dt))
			return nil
		}
	case reflect.Bool:
		if src.Kind() == reflect.Bool {
			dst.Set(src.Convert(dt))
			return nil
		}
	case reflect.Slice:
		if src.Kind() == reflect.Slice || src.Kind() == reflect.Array {
			out := reflect.MakeSlice(dt, src.Len(), src.Len())
			for i := 0; i < src.Len(); i++ {
				if err := assign(out.Index(i), src.Index(i).Interface()); err != nil {
					return fmt.Errorf("index %d: %w", i, err)
				}
			}
			dst.Set(out)
			return nil
		}
	case reflect.Array:
		if (src.Kind() == reflect.Slice || src.Kind() == reflect.Array) && src.Len() == dt.Len() {
			out := reflect.New(dt).Elem()
			for i := 0; i < src.Len(); i++ {
				if err := assign(out.Index(i), src.Index(i).Interface()); err != nil {
					return fmt.Errorf("index %d: %w", i, err)
				}
			}
			dst.Set(out)
			return nil
		}
	case reflect.Struct:
		if m, ok := v.(map[string]any); ok {
			return assignStruct(dst, m)
		}
	case reflect.Pointer:
		elem := reflect.New(dt.Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	return fmt.Errorf("%w: cannot use %T as %s", ErrPropertyType, v, dt)
}

func assignStruct(dst reflect.Value, m map[string]any) error {
	out := reflect.New(dst.Type()).Elem()
	out.Set(dst)
	fields := propFields(dst.Type())
	for key, val := range m {
		idx, ok := fields[key]
		if !ok {
			idx, ok = foldField(fields, key)
		}
		if !ok {
			return fmt.Errorf("%w: %q in %s", ErrUnknownProperty, key, dst.Type())
		}
		if err := assign(out.Field(idx), val); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	dst.Set(out)
	return nil
}

func foldField(fields map[string]int, key string) (int, bool) {
	for name, idx := range fields {
		if strings.EqualFold(name, key) {
			return idx, true
		}
	}
	return 0, false
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
