package refgraph

import (
	"fmt"
	"sort"
	"strings"
)

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode adds a key. Adding an existing key does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.addNode(id)
}

func (g *Graph) addNode(id string) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
	g.nodes[id] = n
	return n
}

// AddEdge records that from references to. Both keys must exist.
func (g *Graph) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", from, from)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("source node not found: %s", from)
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("destination node not found: %s", to)
	}

	fromNode.deps[to] = toNode
	toNode.dependents[from] = fromNode
	return nil
}

// Link adds both keys if needed and records the reference.
func (g *Graph) Link(from, to string) error {
	g.mutex.Lock()
	g.addNode(from)
	g.addNode(to)
	g.mutex.Unlock()
	return g.AddEdge(from, to)
}

// Dependencies returns the keys id references, sorted.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.deps), nil
}

// Dependents returns the keys referencing id, sorted.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.dependents), nil
}

// Len returns the number of keys.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// DetectCycles returns an error naming the keys of the first cycle found.
// Keys are visited in sorted order, so the reported cycle is stable.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	permanent := make(map[string]bool)
	temporary := make(map[string]bool)
	var stack []string

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			start := 0
			for i, id := range stack {
				if id == n.id {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), stack[start:]...), n.id)
			return fmt.Errorf("cycle detected: %s", strings.Join(cycle, " -> "))
		}

		temporary[n.id] = true
		stack = append(stack, n.id)
		for _, id := range sortedIDs(n.deps) {
			if err := visit(n.deps[id]); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range sortedIDs(g.nodes) {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// TopoSort returns every key after the keys it references. Among keys whose
// references are all placed, the lexically smallest comes first, so the order
// is deterministic.
func (g *Graph) TopoSort() ([]string, error) {
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	g.mutex.RLock()
	defer g.mutex.RUnlock()

	pending := make(map[string]int, len(g.nodes))
	var ready []string
	for id, n := range g.nodes {
		pending[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var unlocked []string
		for dep := range g.nodes[id].dependents {
			pending[dep]--
			if pending[dep] == 0 {
				unlocked = append(unlocked, dep)
			}
		}
		ready = append(ready, unlocked...)
		sort.Strings(ready)
	}
	return order, nil
}

func sortedIDs(m map[string]*node) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
