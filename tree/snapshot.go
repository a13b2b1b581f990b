package tree

import "fmt"

// NodeInfo describes one node of a rendered tree.
type NodeInfo struct {
	Component string     `json:"component"`
	Key       string     `json:"key,omitempty"`
	Mounted   bool       `json:"mounted"`
	Native    string     `json:"native,omitempty"`
	Props     []string   `json:"props,omitempty"`
	Bindings  int        `json:"bindings,omitempty"`
	Children  []NodeInfo `json:"children,omitempty"`
}

// Snapshot describes the current tree.
func (r *Root) Snapshot() []NodeInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(r.nodes)
}

// Walk calls fn for every node in depth-first order, parents first.
func (r *Root) Walk(fn func(depth int, info NodeInfo)) {
	var walk func(depth int, infos []NodeInfo)
	walk = func(depth int, infos []NodeInfo) {
		for _, info := range infos {
			fn(depth, info)
			walk(depth+1, info.Children)
		}
	}
	walk(0, r.Snapshot())
}

func snapshot(nodes []*node) []NodeInfo {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]NodeInfo, len(nodes))
	for i, n := range nodes {
		info := NodeInfo{
			Component: n.component.ComponentName(),
			Key:       n.key,
			Children:  snapshot(n.children),
		}
		if n.inst != nil && n.inst.Mounted() {
			info.Mounted = true
			info.Native = fmt.Sprintf("%T", n.inst.Native())
			info.Props = n.inst.Props().Names()
			info.Bindings = n.inst.Bindings()
		}
		out[i] = info
	}
	return out
}
