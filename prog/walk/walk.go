// Package walk provides the two traversals the reorganization engine
// is built on: a read-only visit and a read-rewrite fold that can
// delete a node or replace it with several. The engine never splices
// the tree by hand, so deletions and insertions cannot leave dangling
// positions behind.
package walk

import (
	"github.com/declutter-dev/declutter/prog"
)

// Modules calls fn for every module in program order.
func Modules(p *prog.Program, fn func(m *prog.Module)) {
	for _, m := range p.Modules {
		fn(m)
	}
}

// Items calls fn for every direct item of every module, in program
// order.
func Items(p *prog.Program, fn func(m *prog.Module, item *prog.Item)) {
	for _, m := range p.Modules {
		for _, item := range m.Items {
			fn(m, item)
		}
	}
}

// FoldModules rewrites the program's module list. fn returns the
// replacement for each module: nil deletes it, a single-element slice
// keeps or swaps it, more elements insert.
func FoldModules(p *prog.Program, fn func(m *prog.Module) []*prog.Module) {
	out := make([]*prog.Module, 0, len(p.Modules))
	for _, m := range p.Modules {
		out = append(out, fn(m)...)
	}
	p.Modules = out
}

// FoldItems rewrites one module's item list with the same replacement
// semantics as FoldModules.
func FoldItems(m *prog.Module, fn func(item *prog.Item) []*prog.Item) {
	out := make([]*prog.Item, 0, len(m.Items))
	for _, item := range m.Items {
		out = append(out, fn(item)...)
	}
	m.Items = out
}
