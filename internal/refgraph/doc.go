// Package refgraph records which property keys reference which, and orders
// them so that every key comes after the keys it depends on.
//
// The resolver already rejects cycles while it walks references; the graph
// checks again on the complete edge set before the order is frozen into a
// plan, so a plan never carries an order that contradicts its references.
package refgraph
