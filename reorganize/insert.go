package reorganize

import (
	"sort"

	"github.com/declutter-dev/declutter/prog"
	"github.com/declutter-dev/declutter/prog/walk"
)

// insert materializes synthesized destination modules, merges every
// assigned item into its owner, drops the emptied header modules, and
// prunes foreign prototypes superseded by a relocated definition.
func (c *programInfo) insert(p *prog.Program) error {
	if err := c.requirePhase(PhaseAssignmentsComputed); err != nil {
		return err
	}

	c.extend(p)

	// definitions able to supersede a prototype, name -> owning
	// module; seeded from the modules that survive this phase and
	// updated as relocated items land
	newOwner := make(map[string]string)
	walk.Items(p, func(m *prog.Module, item *prog.Item) {
		if !m.Provenance.FromHeader() && item.Name != "" && item.IsDefinition() {
			newOwner[item.Name] = m.Name
		}
	})

	var insertErr error
	walk.FoldModules(p, func(m *prog.Module) []*prog.Module {
		if insertErr != nil {
			return []*prog.Module{m}
		}
		// header modules are emptied by relocation; drop the shells
		if m.Provenance.FromHeader() {
			return nil
		}
		if ids := c.assigned[m.ID]; len(ids) > 0 {
			insertErr = c.insertInto(m, ids, newOwner)
		}
		return []*prog.Module{m}
	})
	if insertErr != nil {
		return insertErr
	}

	pruned := 0
	walk.Modules(p, func(m *prog.Module) {
		pruned += c.pruneForeign(m, newOwner)
	})

	c.rebuildRegistry(p)
	c.logger.Debug("inserted assigned items",
		"modules", len(p.Modules),
		"prototypes_pruned", pruned)

	c.phase = PhaseInserted
	return nil
}

// extend appends a module for every reserved destination identity
// that has assigned items but no backing module yet. New modules are
// created empty; the common insertion path below fills them.
func (c *programInfo) extend(p *prog.Program) {
	names := make([]string, 0, len(c.newModules))
	for name := range c.newModules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		id := c.newModules[name]
		if len(c.assigned[id]) == 0 {
			continue
		}
		m := &prog.Module{
			ID:         id,
			Name:       name,
			Provenance: prog.ProvenanceUser,
		}
		p.Modules = append(p.Modules, m)
		c.moduleByID[id] = m
	}
}

// insertInto merges the assigned items into one destination module,
// in assignment order. An incoming item is skipped when the module
// already holds an equivalent copy; incoming prototypes already
// defined locally are dropped before the block is inserted.
func (c *programInfo) insertInto(m *prog.Module, ids []prog.NodeID, newOwner map[string]string) error {
	oldItems := make(map[string]*prog.Item, len(m.Items))
	var externs, imports []*prog.Item
	for _, item := range m.Items {
		if item.Name != "" {
			oldItems[item.Name] = item
		}
		switch item.Kind {
		case prog.ItemExtern:
			externs = append(externs, item)
		case prog.ItemImport:
			imports = append(imports, item)
		}
	}

	for _, id := range ids {
		src, err := c.lookupItem(id)
		if err != nil {
			return err
		}
		item := src.Clone()

		found := false
		switch item.Kind {
		case prog.ItemImport:
			for _, u := range imports {
				if equivItems(u, item) {
					found = true
					break
				}
			}
		case prog.ItemExtern:
			kept := item.Extern.Items[:0]
			for _, fi := range item.Extern.Items {
				if oldItems[fi.Name] != nil {
					continue
				}
				kept = append(kept, fi)
			}
			item.Extern.Items = kept
			for _, ex := range externs {
				if equivItems(ex, item) {
					found = true
					break
				}
			}
		default:
			if old := oldItems[item.Name]; old != nil && equivItems(old, item) {
				found = true
			}
		}
		if item.Name != "" && item.IsDefinition() {
			// whether inserted or already present, the definition now
			// lives here; imports of the name resolve to this module
			newOwner[item.Name] = m.Name
			c.aliases.ownerOf[item.Name] = m.Name
		}
		if found {
			continue
		}
		m.Items = append(m.Items, item)
	}
	return nil
}

// pruneForeign deletes foreign entries whose name now has a retained
// definition elsewhere, emitting a cross-module alias record for
// import synthesis in the final phase. Entries without a definition
// anywhere are never dropped. Emptied extern blocks are left for the
// final pass to collect.
func (c *programInfo) pruneForeign(m *prog.Module, newOwner map[string]string) int {
	pruned := 0
	for _, item := range m.Items {
		if item.Kind != prog.ItemExtern {
			continue
		}
		kept := item.Extern.Items[:0]
		for _, fi := range item.Extern.Items {
			owner, ok := newOwner[fi.Name]
			if !ok {
				kept = append(kept, fi)
				continue
			}
			c.aliases.record(m.Name, fi.Name, owner)
			pruned++
		}
		item.Extern.Items = kept
	}
	return pruned
}
