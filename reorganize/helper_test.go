package reorganize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/declutter-dev/declutter/prog"
)

// builder assembles small program trees for tests, numbering nodes
// with one allocator the way ingestion would.
type builder struct {
	alloc *prog.Allocator
}

func newBuilder() *builder {
	return &builder{alloc: prog.NewAllocator()}
}

func (b *builder) program(modules ...*prog.Module) *prog.Program {
	return &prog.Program{Modules: modules}
}

func (b *builder) module(name string, provenance prog.Provenance, items ...*prog.Item) *prog.Module {
	return &prog.Module{
		ID:         b.alloc.Next(),
		Name:       name,
		Provenance: provenance,
		Items:      items,
	}
}

func (b *builder) fn(name string, body string) *prog.Item {
	return &prog.Item{
		ID:   b.alloc.Next(),
		Kind: prog.ItemFunc,
		Name: name,
		Func: &prog.FuncSpec{Body: body},
	}
}

func (b *builder) strct(name string, fields ...prog.Field) *prog.Item {
	return &prog.Item{
		ID:     b.alloc.Next(),
		Kind:   prog.ItemStruct,
		Name:   name,
		Struct: &prog.StructSpec{Fields: fields},
	}
}

func (b *builder) alias(name string, target string) *prog.Item {
	return &prog.Item{
		ID:    b.alloc.Next(),
		Kind:  prog.ItemAlias,
		Name:  name,
		Alias: &prog.AliasSpec{Target: target},
	}
}

func (b *builder) cnst(name string, value string) *prog.Item {
	return &prog.Item{
		ID:    b.alloc.Next(),
		Kind:  prog.ItemConst,
		Name:  name,
		Const: &prog.ConstSpec{Value: value},
	}
}

func (b *builder) extern(items ...*prog.ForeignItem) *prog.Item {
	return &prog.Item{
		ID:     b.alloc.Next(),
		Kind:   prog.ItemExtern,
		Extern: &prog.ExternSpec{ABI: "C", Items: items},
	}
}

func (b *builder) foreign(name string, typ string) *prog.ForeignItem {
	return &prog.ForeignItem{
		ID:   b.alloc.Next(),
		Name: name,
		Kind: prog.ForeignFunc,
		Type: typ,
	}
}

func (b *builder) foreignVar(name string, typ string) *prog.ForeignItem {
	return &prog.ForeignItem{
		ID:   b.alloc.Next(),
		Name: name,
		Kind: prog.ForeignVar,
		Type: typ,
	}
}

func (b *builder) imp(prefix ...string) *prog.Item {
	return &prog.Item{
		ID:     b.alloc.Next(),
		Kind:   prog.ItemImport,
		Import: &prog.ImportSpec{Prefix: prefix},
	}
}

func (b *builder) impNested(prefix []string, names ...string) *prog.Item {
	return &prog.Item{
		ID:     b.alloc.Next(),
		Kind:   prog.ItemImport,
		Import: &prog.ImportSpec{Prefix: prefix, Names: names},
	}
}

func (b *builder) run(t *testing.T, p *prog.Program) {
	t.Helper()
	err := Reorganize(p, b.alloc, Options{})
	require.NoError(t, err)
}

func findModule(p *prog.Program, name string) *prog.Module {
	for _, m := range p.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func moduleNames(p *prog.Program) []string {
	names := make([]string, len(p.Modules))
	for i, m := range p.Modules {
		names[i] = m.Name
	}
	return names
}

// countForeign counts surviving foreign entries of the given name
// program-wide.
func countForeign(p *prog.Program, name string) int {
	n := 0
	for _, m := range p.Modules {
		for _, item := range m.Items {
			if item.Kind != prog.ItemExtern {
				continue
			}
			for _, fi := range item.Extern.Items {
				if fi.Name == name {
					n++
				}
			}
		}
	}
	return n
}

func findItem(m *prog.Module, name string) *prog.Item {
	for _, item := range m.Items {
		if item.Name == name {
			return item
		}
	}
	return nil
}

// renderImports renders a module's import statements in order, e.g.
// "utils::foo" or "math_h::{cos, sin}".
func renderImports(m *prog.Module) []string {
	var out []string
	for _, item := range m.Items {
		if item.Kind != prog.ItemImport {
			continue
		}
		spec := item.Import
		path := strings.Join(spec.Prefix, "::")
		if spec.Nested() {
			out = append(out, path+"::{"+strings.Join(spec.Names, ", ")+"}")
		} else {
			out = append(out, path)
		}
	}
	return out
}

// hasName reports whether the module holds a named item or a foreign
// entry of the given name.
func hasName(m *prog.Module, name string) bool {
	for _, item := range m.Items {
		if item.Name == name {
			return true
		}
		if item.Kind == prog.ItemExtern {
			for _, fi := range item.Extern.Items {
				if fi.Name == name {
					return true
				}
			}
		}
	}
	return false
}

// requireNoDanglingImports checks that every surviving import's
// target names exist in the module its path resolves to.
func requireNoDanglingImports(t *testing.T, p *prog.Program) {
	t.Helper()
	for _, m := range p.Modules {
		for _, item := range m.Items {
			if item.Kind != prog.ItemImport {
				continue
			}
			spec := item.Import
			if spec.Nested() {
				owner := findModule(p, strings.Join(spec.Prefix, "::"))
				require.NotNil(t, owner, "module %s: import owner %v missing", m.Name, spec.Prefix)
				for _, name := range spec.Names {
					require.True(t, hasName(owner, name),
						"module %s: import of %s from %s dangles", m.Name, name, owner.Name)
				}
				continue
			}
			if len(spec.Prefix) > 1 {
				ownerName := strings.Join(spec.Prefix[:len(spec.Prefix)-1], "::")
				name := spec.Prefix[len(spec.Prefix)-1]
				owner := findModule(p, ownerName)
				require.NotNil(t, owner, "module %s: import owner %s missing", m.Name, ownerName)
				require.True(t, hasName(owner, name),
					"module %s: import of %s from %s dangles", m.Name, name, ownerName)
				continue
			}
			// bare single: a module or top-level item of that name
			name := spec.Prefix[0]
			if findModule(p, name) != nil {
				continue
			}
			found := false
			for _, other := range p.Modules {
				if findItem(other, name) != nil {
					found = true
					break
				}
			}
			require.True(t, found, "module %s: bare import %s dangles", m.Name, name)
		}
	}
}
