package reorganize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/declutter-dev/declutter/prog"
	"github.com/declutter-dev/declutter/prog/walk"
)

// destination is a chosen owner for relocated items.
type destination struct {
	id   prog.NodeID
	name string
}

// assign decides, for every header-derived module, which destination
// owns its items, and builds the path-rewrite table for import
// statements whose segments name relocated header modules.
func (c *programInfo) assign(p *prog.Program) error {
	if err := c.requirePhase(PhaseCandidatesDiscovered); err != nil {
		return err
	}

	// header module name -> destination, for path rewriting below
	headerDest := make(map[string]destination)

	var assignErr error
	walk.Modules(p, func(m *prog.Module) {
		if assignErr != nil || !m.Provenance.FromHeader() {
			return
		}
		dest := c.findDestination(m)
		headerDest[m.Name] = dest
		for _, item := range m.Items {
			if prev, ok := c.itemToDest[item.ID]; ok {
				assignErr = fmt.Errorf("item %d assigned twice: module %d and module %d", item.ID, prev, dest.id)
				return
			}
			c.itemToDest[item.ID] = dest.id
			c.assigned[dest.id] = append(c.assigned[dest.id], item.ID)
		}
	})
	if assignErr != nil {
		return assignErr
	}

	if err := c.rewritePaths(headerDest); err != nil {
		return err
	}

	c.logger.Debug("computed assignments",
		"items", len(c.itemToDest),
		"destinations", len(c.assigned),
		"rewrites", len(c.pathRewrites))

	c.phase = PhaseAssignmentsComputed
	return nil
}

// findDestination picks the owning module for a header module's
// items. System headers funnel into the catch-all. Otherwise the
// first candidate whose name is a substring of the header name wins;
// with no match, a module named after the header is synthesized (or
// reused if already reserved).
func (c *programInfo) findDestination(header *prog.Module) destination {
	if header.Provenance == prog.ProvenanceSystem {
		return destination{id: c.newModules[c.opts.CatchAll], name: c.opts.CatchAll}
	}
	// naive name heuristic: foo_h is owned by foo when foo exists
	for _, id := range c.sortedCandidates() {
		cand := c.moduleByID[id]
		if strings.Contains(header.Name, cand.Name) {
			return destination{id: cand.ID, name: cand.Name}
		}
	}
	return destination{id: c.reserveModule(header.Name), name: header.Name}
}

// rewritePaths strips relative qualifiers from every recorded import
// and replaces path segments that name a relocated header module with
// the destination module's name, remembering which module the import
// now resolves to.
func (c *programInfo) rewritePaths(headerDest map[string]destination) error {
	ids := make([]prog.NodeID, 0, len(c.importIDs))
	for id := range c.importIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		item, err := c.lookupItem(id)
		if err != nil {
			return err
		}
		if item.Import == nil {
			return fmt.Errorf("item %d recorded as import but has no import spec", id)
		}
		// copy before mutating: the original prefix must stay intact
		// until the rewrite is applied in the final pass
		prefix := append([]string(nil), prog.StripRelative(item.Import.Prefix)...)
		rw := &pathRewrite{
			prefix: prefix,
			destID: prog.NoID,
		}
		for i, seg := range rw.prefix {
			if dest, ok := headerDest[seg]; ok {
				rw.prefix[i] = dest.name
				rw.destID = dest.id
			}
		}
		c.pathRewrites[id] = rw
	}
	return nil
}
