package reorganize

import (
	"sort"
	"strings"

	"github.com/declutter-dev/declutter/prog"
	"github.com/declutter-dev/declutter/prog/walk"
)

// dedup is the final whole-program pass. It removes the remaining
// structurally-equivalent duplicates, then rewrites and consolidates
// every module's import statements. Two sub-passes over the modules:
// duplicate removal first, so ownership corrections are visible to
// every module's import synthesis afterwards.
func (c *programInfo) dedup(p *prog.Program) error {
	if err := c.requirePhase(PhaseInserted); err != nil {
		return err
	}
	c.rebuildRegistry(p)

	dd := newDedupInfo()
	walk.Modules(p, func(m *prog.Module) {
		c.dedupModuleItems(m, dd)
	})

	walk.Modules(p, func(m *prog.Module) {
		c.consolidateImports(m, dd.localNames[m.ID])
	})

	// synthesized destinations emptied by pruning have nothing left
	// to own
	synthesized := make(map[prog.NodeID]bool, len(c.newModules))
	for _, id := range c.newModules {
		synthesized[id] = true
	}
	walk.FoldModules(p, func(m *prog.Module) []*prog.Module {
		if synthesized[m.ID] && len(m.Items) == 0 {
			return nil
		}
		return []*prog.Module{m}
	})

	c.rebuildRegistry(p)
	c.logger.Debug("deduplicated program",
		"modules", len(p.Modules),
		"items_deleted", len(dd.deleted))

	c.phase = PhaseDeduplicated
	return nil
}

// dedupInfo is the global duplicate-tracking state for the final
// pass. The deleted set guarantees the equivalence relation never
// deletes both members of a pair, which also makes repeated runs
// idempotent.
type dedupInfo struct {
	// name -> copies retained earlier in the overall pass, with the
	// module that holds each
	retained map[string][]retainedItem
	// name -> foreign prototypes retained earlier
	retainedForeign map[string][]*prog.ForeignItem
	deleted         map[prog.NodeID]bool
	// module id -> names of items the module retains locally
	localNames map[prog.NodeID]map[string]bool
}

type retainedItem struct {
	item   *prog.Item
	module string
}

func newDedupInfo() *dedupInfo {
	return &dedupInfo{
		retained:        make(map[string][]retainedItem),
		retainedForeign: make(map[string][]*prog.ForeignItem),
		deleted:         make(map[prog.NodeID]bool),
		localNames:      make(map[prog.NodeID]map[string]bool),
	}
}

// dedupModuleItems removes items content-equivalent to a copy already
// retained earlier in the pass, prunes duplicate foreign prototypes,
// and drops extern blocks left empty.
func (c *programInfo) dedupModuleItems(m *prog.Module, dd *dedupInfo) {
	local := make(map[string]bool)
	dd.localNames[m.ID] = local

	walk.FoldItems(m, func(item *prog.Item) []*prog.Item {
		switch item.Kind {
		case prog.ItemImport:
			// handled by consolidateImports
			return []*prog.Item{item}
		case prog.ItemExtern:
			kept := item.Extern.Items[:0]
			for _, fi := range item.Extern.Items {
				dup := false
				for _, other := range dd.retainedForeign[fi.Name] {
					if equivForeign(fi, other) {
						dup = true
						break
					}
				}
				if dup {
					dd.deleted[fi.ID] = true
					continue
				}
				dd.retainedForeign[fi.Name] = append(dd.retainedForeign[fi.Name], fi)
				kept = append(kept, fi)
			}
			item.Extern.Items = kept
			if len(kept) == 0 {
				return nil
			}
			return []*prog.Item{item}
		}

		if item.Name != "" {
			for _, prev := range dd.retained[item.Name] {
				if dd.deleted[prev.item.ID] || !equivItems(prev.item, item) {
					continue
				}
				dd.deleted[item.ID] = true
				// keep the alias table pointing at a surviving copy
				if c.aliases.ownerOf[item.Name] == m.Name {
					c.aliases.ownerOf[item.Name] = prev.module
				}
				return nil
			}
			dd.retained[item.Name] = append(dd.retained[item.Name], retainedItem{item: item, module: m.Name})
			local[item.Name] = true
		}
		return []*prog.Item{item}
	})
}

// moduleImports accumulates one module's import surface during
// consolidation: per-owner name sets from qualified imports, and
// loose names split out of relative nested imports.
type moduleImports struct {
	seenPaths map[string]map[string]bool
	newPaths  map[string]bool
	kept      []*prog.Item
}

func newModuleImports() *moduleImports {
	return &moduleImports{
		seenPaths: make(map[string]map[string]bool),
		newPaths:  make(map[string]bool),
	}
}

func (c *moduleImports) add(owner string, name string) {
	set := c.seenPaths[owner]
	if set == nil {
		set = make(map[string]bool)
		c.seenPaths[owner] = set
	}
	set[name] = true
}

func (c *moduleImports) covered(name string) bool {
	for _, set := range c.seenPaths {
		if set[name] {
			return true
		}
	}
	return false
}

func (c *moduleImports) hasKeptEquiv(spec *prog.ImportSpec) bool {
	for _, item := range c.kept {
		if equivImports(item.Import, spec) {
			return true
		}
	}
	return false
}

// consolidateImports gathers the module's imports, applies path
// rewrites, merges in the cross-module alias records, and re-emits
// one consolidated import per owner ahead of the module's items.
func (c *programInfo) consolidateImports(m *prog.Module, local map[string]bool) {
	if local == nil {
		local = make(map[string]bool)
	}
	mi := newModuleImports()

	walk.FoldItems(m, func(item *prog.Item) []*prog.Item {
		if item.Kind != prog.ItemImport {
			return []*prog.Item{item}
		}
		rw := c.pathRewrites[item.ID]
		// an import resolving to its own module does not survive
		if rw != nil && rw.destID == m.ID {
			return nil
		}
		spec := item.Import
		prefix := spec.Prefix
		if rw != nil {
			prefix = rw.prefix
		}
		if spec.Nested() {
			if len(prefix) == 1 && prog.IsRelativeSegment(prefix[0]) {
				// `use super::{foo, bar}` distributes into per-name
				// imports; the nested statement itself is dropped
				for _, name := range spec.Names {
					mi.newPaths[name] = true
				}
			} else {
				owner := strings.Join(prefix, "::")
				for _, name := range spec.Names {
					mi.add(owner, name)
				}
			}
			return nil
		}
		if len(prefix) > 1 {
			owner := strings.Join(prefix[:len(prefix)-1], "::")
			mi.add(owner, prefix[len(prefix)-1])
			return nil
		}
		// bare single-segment import: keep in place, rewritten
		if rw != nil {
			item.Import.Prefix = append([]string(nil), rw.prefix...)
		}
		mi.kept = append(mi.kept, item)
		return []*prog.Item{item}
	})

	c.retarget(m.Name, mi)
	c.emitImports(m, mi, local)
}

// retarget updates the accumulated name sets with the alias records
// from prototype pruning: a name that moved away from its owner is
// re-imported from the module now holding the definition.
func (c *programInfo) retarget(modName string, mi *moduleImports) {
	// additions are collected on the side and merged afterwards;
	// inserting into seenPaths while ranging over it would leave the
	// visitation order up to the map implementation
	added := make(map[string][]string)
	for owner, names := range mi.seenPaths {
		moved := c.aliases.movedFrom[owner]
		if moved == nil {
			continue
		}
		for _, name := range sortedKeys(names) {
			if !moved[name] {
				continue
			}
			newOwner := c.aliases.ownerOf[name]
			if newOwner == owner {
				// the definition landed in the same module, the
				// import still resolves
				continue
			}
			delete(names, name)
			if newOwner != "" && newOwner != modName {
				added[newOwner] = append(added[newOwner], name)
			}
		}
	}
	for owner, names := range added {
		for _, name := range names {
			mi.add(owner, name)
		}
	}
	for _, name := range sortedKeys(mi.newPaths) {
		owner, ok := c.aliases.ownerOf[name]
		if !ok {
			continue
		}
		delete(mi.newPaths, name)
		if owner != modName {
			mi.add(owner, name)
		}
	}
}

// emitImports synthesizes the module's consolidated import
// statements: one nested import per owner, singleton groups as simple
// imports, loose relative names as bare imports, all placed ahead of
// the module's other items. A name already local, already covered, or
// already imported by a surviving statement is not emitted.
func (c *programInfo) emitImports(m *prog.Module, mi *moduleImports, local map[string]bool) {
	var emitted []*prog.Item

	for _, owner := range sortedKeys(mi.seenPaths) {
		set := mi.seenPaths[owner]
		for name := range set {
			if local[name] {
				delete(set, name)
			}
		}
		if len(set) == 0 {
			continue
		}
		names := sortedKeys(set)
		prefix := strings.Split(owner, "::")
		var spec *prog.ImportSpec
		if len(names) == 1 {
			// singletons stay simple so repeated runs reproduce the
			// same statement
			spec = &prog.ImportSpec{Prefix: append(prefix, names[0])}
		} else {
			spec = &prog.ImportSpec{Prefix: prefix, Names: names}
		}
		if mi.hasKeptEquiv(spec) {
			continue
		}
		emitted = append(emitted, c.newImport(spec))
	}

	for _, name := range sortedKeys(mi.newPaths) {
		if local[name] || mi.covered(name) {
			continue
		}
		spec := &prog.ImportSpec{Prefix: []string{name}}
		if mi.hasKeptEquiv(spec) {
			continue
		}
		emitted = append(emitted, c.newImport(spec))
	}

	if len(emitted) > 0 {
		m.Items = append(emitted, m.Items...)
	}
}

func (c *programInfo) newImport(spec *prog.ImportSpec) *prog.Item {
	return &prog.Item{
		ID:     c.alloc.Next(),
		Kind:   prog.ItemImport,
		Import: spec,
	}
}

func sortedKeys[V any](set map[string]V) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
