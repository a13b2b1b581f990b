// Package scenefile reads declared component trees from YAML.
//
//	elements:
//	  - type: Moon
//	    props: {show: false}
//	  - type: PrimitiveCollection
//	    children:
//	      - type: GroundPrimitive
//	        key: europe
//	        events: [onClick, onReady]
//	        props:
//	          asynchronous: false
//	          geometryInstances:
//	            - rectangle: {west: -10, south: 35, east: 30, north: 60}
//	              color: "#3080ff80"
//
// Props are passed to the component as decoded YAML values; the bind
// package converts them to the native field types. Events name event props
// that receive a handler from Build.
package scenefile

import (
	"errors"
	"fmt"
	"os"

	"github.com/phanxgames/canopy/bind"
	"github.com/phanxgames/canopy/components"
	"github.com/phanxgames/canopy/tree"
	"gopkg.in/yaml.v3"
)

// ErrUnknownComponent is returned for element types with no registered
// component.
var ErrUnknownComponent = errors.New("unknown component")

// File is a parsed scene file.
type File struct {
	Elements []Element `yaml:"elements"`
}

// Element is one declared element.
type Element struct {
	Type     string         `yaml:"type"`
	Key      string         `yaml:"key,omitempty"`
	Props    map[string]any `yaml:"props,omitempty"`
	Events   []string       `yaml:"events,omitempty"`
	Children []Element      `yaml:"children,omitempty"`
}

// Parse decodes a scene file and checks that every type is registered and
// every event is declared by its component.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scene file: %w", err)
	}
	if err := validate(f.Elements, "elements"); err != nil {
		return nil, fmt.Errorf("parse scene file: %w", err)
	}
	return &f, nil
}

// Load reads and parses path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	return Parse(data)
}

func validate(elems []Element, path string) error {
	var errs []error
	for i, el := range elems {
		at := fmt.Sprintf("%s[%d]", path, i)
		c, ok := components.Lookup(el.Type)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w %q", at, ErrUnknownComponent, el.Type))
			continue
		}
		events := c.Info().EventProps
		for _, ev := range el.Events {
			if _, ok := events[ev]; !ok {
				errs = append(errs, fmt.Errorf("%s: %s has no event %q", at, el.Type, ev))
			}
		}
		if el.Props != nil {
			for _, ev := range el.Events {
				if _, dup := el.Props[ev]; dup {
					errs = append(errs, fmt.Errorf("%s: %q is both a prop and an event", at, ev))
				}
			}
		}
		if err := validate(el.Children, at+".children"); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandlerFunc returns the callback bound to one declared event.
type HandlerFunc func(component, key, event string) func(args ...any)

// Build converts the file to tree elements. handler supplies callbacks for
// declared events; when nil, declared events are left unbound.
func (f *File) Build(handler HandlerFunc) []tree.Element {
	return build(f.Elements, handler)
}

func build(elems []Element, handler HandlerFunc) []tree.Element {
	if len(elems) == 0 {
		return nil
	}
	out := make([]tree.Element, 0, len(elems))
	for _, el := range elems {
		c, ok := components.Lookup(el.Type)
		if !ok {
			continue
		}
		props := make(bind.Props, len(el.Props)+len(el.Events))
		for k, v := range el.Props {
			props[k] = v
		}
		if handler != nil {
			for _, ev := range el.Events {
				props[ev] = handler(el.Type, el.Key, ev)
			}
		}
		out = append(out, tree.Element{
			Component: c,
			Key:       el.Key,
			Props:     props,
			Children:  build(el.Children, handler),
		})
	}
	return out
}
