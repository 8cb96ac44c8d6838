package reorganize

import (
	"github.com/declutter-dev/declutter/prog"
	"github.com/declutter-dev/declutter/prog/walk"
)

// discover walks the program once, read-only: it fills the registry,
// collects destination candidates, and records every import statement
// for later path analysis. Pure accumulation, no errors.
func (c *programInfo) discover(p *prog.Program) error {
	if err := c.requirePhase(PhaseEmpty); err != nil {
		return err
	}

	walk.Modules(p, func(m *prog.Module) {
		c.moduleByID[m.ID] = m
		if m.Provenance == prog.ProvenanceUser {
			c.candidates[m.ID] = true
		}
	})
	walk.Items(p, func(m *prog.Module, item *prog.Item) {
		c.itemByID[item.ID] = item
		c.itemModule[item.ID] = m.ID
		if item.Kind == prog.ItemImport {
			c.importIDs[item.ID] = true
		}
	})

	c.logger.Debug("discovered candidates",
		"modules", len(c.moduleByID),
		"candidates", len(c.candidates),
		"imports", len(c.importIDs))

	c.phase = PhaseCandidatesDiscovered
	return nil
}
