package hclutil

import (
	"sort"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Container is a thread-safe helper that gathers HCL expressions and provides
// analysis results, such as variable references and function calls.
type Container struct {
	analyzeOnce sync.Once

	mu          sync.RWMutex
	expressions []hcl.Expression

	references      []hcl.Traversal
	calledFunctions []string
}

// NewContainer creates a new, empty expression container.
func NewContainer(exprs ...hcl.Expression) *Container {
	c := &Container{}
	c.Add(exprs...)
	return c
}

// Add adds one or more expressions to the container for analysis.
// It safely ignores any nil expressions.
func (c *Container) Add(exprs ...hcl.Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// New expressions invalidate the cached analysis.
	c.analyzeOnce = sync.Once{}

	for _, expr := range exprs {
		if expr != nil {
			c.expressions = append(c.expressions, expr)
		}
	}
}

func (c *Container) analyze() {
	c.analyzeOnce.Do(func() {
		c.mu.RLock()
		refs, funcs := extractReferencesAndFunctions(c.expressions...)
		c.mu.RUnlock()

		c.mu.Lock()
		c.references = refs
		c.calledFunctions = funcs
		c.mu.Unlock()
	})
}

// References returns all unique variable traversals found in the expressions.
func (c *Container) References() []hcl.Traversal {
	c.analyze()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.references
}

// ReferenceKeys returns References rendered with TraversalKey.
func (c *Container) ReferenceKeys() []string {
	refs := c.References()
	keys := make([]string, len(refs))
	for i, t := range refs {
		keys[i] = TraversalKey(t)
	}
	return keys
}

// CalledFunctions returns all unique function calls found in the expressions.
func (c *Container) CalledFunctions() []string {
	c.analyze()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calledFunctions
}

// extractReferencesAndFunctions walks through HCL expressions to find all unique
// variable traversals and function calls. The returned slices are sorted to
// ensure a deterministic order.
func extractReferencesAndFunctions(exprs ...hcl.Expression) ([]hcl.Traversal, []string) {
	traversals := make(map[string]hcl.Traversal)
	functions := make(map[string]struct{})

	for _, expr := range exprs {
		if expr == nil {
			continue
		}
		for _, traversal := range expr.Variables() {
			traversals[TraversalKey(traversal)] = traversal
		}
		if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
			walkForFunctions(syntaxExpr, functions)
		}
	}

	keys := make([]string, 0, len(traversals))
	for k := range traversals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	traversalSlice := make([]hcl.Traversal, 0, len(keys))
	for _, k := range keys {
		traversalSlice = append(traversalSlice, traversals[k])
	}

	functionSlice := make([]string, 0, len(functions))
	for f := range functions {
		functionSlice = append(functionSlice, f)
	}
	sort.Strings(functionSlice)

	return traversalSlice, functionSlice
}

// walkForFunctions recursively walks the AST, looking only for function calls.
func walkForFunctions(expr hclsyntax.Expression, functions map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		functions[e.Name] = struct{}{}
		for _, arg := range e.Args {
			walkForFunctions(arg, functions)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, functions)
		walkForFunctions(e.RHS, functions)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, functions)
		walkForFunctions(e.TrueResult, functions)
		walkForFunctions(e.FalseResult, functions)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, functions)
	case *hclsyntax.TemplateExpr:
		for _, part := range e.Parts {
			walkForFunctions(part, functions)
		}
	case *hclsyntax.TemplateWrapExpr:
		walkForFunctions(e.Wrapped, functions)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			walkForFunctions(item, functions)
		}
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			walkForFunctions(item.KeyExpr, functions)
			walkForFunctions(item.ValueExpr, functions)
		}
	case *hclsyntax.IndexExpr:
		walkForFunctions(e.Collection, functions)
		walkForFunctions(e.Key, functions)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, functions)
	}
}
