package catalog

import "fmt"

// NameIndex maps display names to canonical ids. Materials and components
// share one index so that no two names ever collide on an id.
type NameIndex struct {
	ids map[string]string
}

// NewNameIndex creates an empty index
func NewNameIndex() *NameIndex {
	return &NameIndex{ids: make(map[string]string)}
}

// Assign records id for name unless the name already has one
func (n *NameIndex) Assign(name, id string) {
	if _, ok := n.ids[name]; !ok {
		n.ids[name] = id
	}
}

// Lookup returns the id of a name
func (n *NameIndex) Lookup(name string) (string, bool) {
	id, ok := n.ids[name]
	return id, ok
}

// Ensure returns the id of name, minting COMP<seq> when it has none.
// seq is the index size at the moment of minting, so ids stay dense and
// monotonic across materials and components.
func (n *NameIndex) Ensure(name string) string {
	if id, ok := n.ids[name]; ok {
		return id
	}
	id := fmt.Sprintf("COMP%04d", len(n.ids))
	n.ids[name] = id
	return id
}

// Len returns the number of names indexed
func (n *NameIndex) Len() int {
	return len(n.ids)
}

// Snapshot copies the index into a plain map
func (n *NameIndex) Snapshot() map[string]string {
	out := make(map[string]string, len(n.ids))
	for k, v := range n.ids {
		out[k] = v
	}
	return out
}
