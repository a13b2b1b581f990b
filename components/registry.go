// Package components wraps the canopy scene objects as bind components.
//
// Every component reads what it needs from the context built by Attach and
// by its ancestors: Moon, Scene and SkyAtmosphere configure the scene's
// singleton slots, PrimitiveCollection, GroundPrimitive and LabelCollection
// attach to the enclosing primitive collection, and Label attaches to the
// enclosing label collection.
package components

import (
	"fmt"
	"sort"

	"github.com/phanxgames/canopy/bind"
)

var registry = map[string]bind.Component{}

func init() {
	for _, c := range []bind.Component{
		Moon,
		Scene,
		SkyAtmosphere,
		PrimitiveCollection,
		GroundPrimitive,
		LabelCollection,
		Label,
	} {
		Register(c)
	}
}

// Register makes c available to Lookup under its name. It panics if the name
// is taken.
func Register(c bind.Component) {
	name := c.ComponentName()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("components: %s registered twice", name))
	}
	registry[name] = c
}

// Lookup returns the component registered under name.
func Lookup(name string) (bind.Component, bool) {
	c, ok := registry[name]
	return c, ok
}

// Names returns the registered component names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
