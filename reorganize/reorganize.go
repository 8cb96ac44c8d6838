// Package reorganize merges header-duplicated declarations into
// canonical owning modules. The transpiler emits one module per
// translation unit or header and duplicates every header declaration
// into each including module, with cross-references expressed as
// forward declarations. This engine assigns each duplicated
// declaration to exactly one destination module, relocates it,
// removes the now-redundant copies and forward declarations, and
// rewrites every cross-module reference into a consolidated import
// that still resolves.
package reorganize

import (
	"github.com/declutter-dev/declutter/prog"
)

// Reorganize runs the full pipeline over one program snapshot,
// mutating it in place:
//
//	discover -> assign -> insert -> dedup
//
// The allocator must be the one that numbered the tree, so
// synthesized modules and imports get fresh identities. An error
// means a broken internal invariant (a bad precondition from the
// ingestion step, or a bug here); heuristic misses never fail, they
// fall back to synthesizing destinations or keeping both copies.
// The transform is deterministic and idempotent at the declaration
// level: re-running it over its own output reproduces the same
// modules, items and import statements. Consolidated imports are
// re-synthesized each run, so only their identities are fresh.
func Reorganize(p *prog.Program, alloc *prog.Allocator, opts Options) error {
	c := newProgramInfo(alloc, opts)
	if err := c.discover(p); err != nil {
		return err
	}
	if err := c.assign(p); err != nil {
		return err
	}
	if err := c.insert(p); err != nil {
		return err
	}
	if err := c.dedup(p); err != nil {
		return err
	}
	c.phase = PhaseDone
	return nil
}
