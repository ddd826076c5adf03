package refgraph

import "sync"

// Graph is a set of property keys and the references between them. All
// operations are safe for concurrent use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
}

// node is one property key. It is unexported so callers work with keys only.
type node struct {
	id string
	// deps are the keys this key references.
	deps map[string]*node
	// dependents are the keys referencing this key.
	dependents map[string]*node
}
