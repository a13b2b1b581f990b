package bind

// Write is a single property assignment.
type Write struct {
	Name  string
	Value any
}

// Changes is the result of Diff.
type Changes struct {
	// Writes are the mutable property assignments, in declaration order.
	Writes []Write
	// Dropped names construction-only properties whose declared value changed.
	// They are never written.
	Dropped []string
}

// Empty reports whether there is nothing to write and nothing was dropped.
func (c Changes) Empty() bool {
	return len(c.Writes) == 0 && len(c.Dropped) == 0
}

// Diff computes the writes that move a native object reflecting prev to one
// reflecting next, touching only names in mutable.
//
// Unset values in next are skipped, never reset. Values compare with
// sameValue: a new reference with equal contents still writes.
func Diff(prev, next Props, mutable, readonly []string) Changes {
	var ch Changes
	for _, name := range mutable {
		v, ok := next.Get(name)
		if !ok {
			continue
		}
		if pv, had := prev.Get(name); had && sameValue(pv, v) {
			continue
		}
		ch.Writes = append(ch.Writes, Write{Name: name, Value: v})
	}
	for _, name := range readonly {
		v, ok := next.Get(name)
		if !ok {
			continue
		}
		if pv, had := prev.Get(name); had && sameValue(pv, v) {
			continue
		}
		ch.Dropped = append(ch.Dropped, name)
	}
	return ch
}
