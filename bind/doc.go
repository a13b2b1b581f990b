// Package bind keeps live native scene objects in sync with declarative
// component descriptions.
//
// A [Schema] classifies the properties of one native type into mutable,
// construction-only, event and ignored buckets and supplies the Create,
// Destroy, Update and Provide hooks. The [Engine] mounts, updates and
// unmounts [Instance] values of a schema on behalf of a host tree walker:
//
//	in := engine.Mount(components.Moon, ctx, bind.Props{"show": true})
//	engine.Update(in, bind.Props{"show": false})
//	engine.Unmount(in)
//
// Updates write only changed mutable properties ([Diff]). A nil value means
// "unset" and is never written. Event props hold callbacks and are bound
// with exactly one native subscription each ([Binder]), or through a shared
// [EventBus] found in the [Context].
//
// A [Context] is an immutable chain of typed values ([Key]) that components
// read to find the object they attach to and extend for their children.
package bind
