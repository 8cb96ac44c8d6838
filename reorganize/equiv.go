package reorganize

import (
	"github.com/declutter-dev/declutter/prog"
)

// equivItems reports whether two items are duplicates safe to merge.
//
// Beyond strict structural equality, type aliases and constants match
// on name alone: the transpiler's renamer tacks numeric suffixes onto
// the synthesized names of anonymous C types, so two aliases of the
// same name routinely point at structurally-distinct spellings of the
// same type. A deliberate, imprecise heuristic.
func equivItems(a *prog.Item, b *prog.Item) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind == b.Kind && a.Name == b.Name && sameStructure(a, b) {
		return true
	}
	if a.Kind == prog.ItemAlias && b.Kind == prog.ItemAlias && a.Name != "" && a.Name == b.Name {
		return true
	}
	if a.Kind == prog.ItemConst && b.Kind == prog.ItemConst && a.Name != "" && a.Name == b.Name {
		return true
	}
	if a.Kind == prog.ItemImport && b.Kind == prog.ItemImport {
		return equivImports(a.Import, b.Import)
	}
	return false
}

// equivForeign compares prototypes strictly: no alias/constant
// relaxation, prototypes have no renaming ambiguity.
func equivForeign(a *prog.ForeignItem, b *prog.ForeignItem) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && a.Kind == b.Kind && a.Type == b.Type
}

// equivImports compares two import statements with relative
// qualifiers stripped from their prefixes. Nested name sets compare
// order-insensitively.
func equivImports(a *prog.ImportSpec, b *prog.ImportSpec) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !stringsSame(prog.StripRelative(a.Prefix), prog.StripRelative(b.Prefix)) {
		return false
	}
	if (a.Names == nil) != (b.Names == nil) {
		return false
	}
	if len(a.Names) != len(b.Names) {
		return false
	}
	set := make(map[string]bool, len(a.Names))
	for _, name := range a.Names {
		set[name] = true
	}
	for _, name := range b.Names {
		if !set[name] {
			return false
		}
	}
	return true
}

func sameStructure(a *prog.Item, b *prog.Item) bool {
	switch a.Kind {
	case prog.ItemFunc:
		return funcSame(a.Func, b.Func)
	case prog.ItemStruct:
		return structSame(a.Struct, b.Struct)
	case prog.ItemAlias:
		return a.Alias != nil && b.Alias != nil && a.Alias.Target == b.Alias.Target
	case prog.ItemConst:
		return a.Const != nil && b.Const != nil && *a.Const == *b.Const
	case prog.ItemExtern:
		return externSame(a.Extern, b.Extern)
	case prog.ItemImport:
		return equivImports(a.Import, b.Import)
	}
	return false
}

func funcSame(a *prog.FuncSpec, b *prog.FuncSpec) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	if a.Result != b.Result || a.Body != b.Body {
		return false
	}
	return fieldsSame(a.Params, b.Params)
}

func structSame(a *prog.StructSpec, b *prog.StructSpec) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return fieldsSame(a.Fields, b.Fields)
}

func externSame(a *prog.ExternSpec, b *prog.ExternSpec) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	if a.ABI != b.ABI {
		return false
	}
	if len(a.Items) != len(b.Items) {
		return false
	}
	for i, fi := range a.Items {
		if !equivForeign(fi, b.Items[i]) {
			return false
		}
	}
	return true
}

func fieldsSame(a []prog.Field, b []prog.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i, f := range a {
		if f != b[i] {
			return false
		}
	}
	return true
}

func stringsSame(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, s := range a {
		if s != b[i] {
			return false
		}
	}
	return true
}
