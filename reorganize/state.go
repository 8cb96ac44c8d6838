package reorganize

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/declutter-dev/declutter/prog"
	"github.com/declutter-dev/declutter/prog/walk"
)

// DefaultCatchAll is the name of the synthesized module absorbing all
// system-header declarations.
const DefaultCatchAll = "stdlib"

// Options configures one reorganization run.
type Options struct {
	// Logger receives per-phase debug counters. Nil means silent.
	Logger *log.Logger
	// CatchAll overrides the catch-all module name. Empty means
	// DefaultCatchAll.
	CatchAll string
}

// Phase tracks where the working state is in the pipeline. Phases are
// strictly linear and a run is not re-entrant.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseCandidatesDiscovered
	PhaseAssignmentsComputed
	PhaseInserted
	PhaseDeduplicated
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseCandidatesDiscovered:
		return "candidates-discovered"
	case PhaseAssignmentsComputed:
		return "assignments-computed"
	case PhaseInserted:
		return "inserted"
	case PhaseDeduplicated:
		return "deduplicated"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// pathRewrite is the recorded transformation of one import
// statement's prefix, plus the module the rewritten path resolves to
// (NoID when no segment was relocated).
type pathRewrite struct {
	prefix []string
	destID prog.NodeID
}

// aliasInfo records cross-module symbol moves discovered while
// pruning foreign prototypes: old module name -> names that moved
// away, and name -> the module that now owns the definition.
type aliasInfo struct {
	movedFrom map[string]map[string]bool
	ownerOf   map[string]string
}

func newAliasInfo() aliasInfo {
	return aliasInfo{
		movedFrom: make(map[string]map[string]bool),
		ownerOf:   make(map[string]string),
	}
}

func (c *aliasInfo) record(oldModule string, name string, newModule string) {
	set := c.movedFrom[oldModule]
	if set == nil {
		set = make(map[string]bool)
		c.movedFrom[oldModule] = set
	}
	set[name] = true
	c.ownerOf[name] = newModule
}

// programInfo is the working state of one run: the registry, the
// assignment and rewrite tables, and the phase marker. It is created
// fresh per invocation and discarded afterwards.
type programInfo struct {
	opts   Options
	logger *log.Logger
	alloc  *prog.Allocator
	phase  Phase

	// registry: identity -> node, rebuilt whenever the tree is
	// restructured
	itemByID   map[prog.NodeID]*prog.Item
	moduleByID map[prog.NodeID]*prog.Module
	itemModule map[prog.NodeID]prog.NodeID

	// destination candidates (user-code modules only)
	candidates map[prog.NodeID]bool

	// import statement ids recorded for path analysis
	importIDs map[prog.NodeID]bool

	// duplicated item id -> destination module id, set exactly once
	itemToDest map[prog.NodeID]prog.NodeID
	// per-destination assignment order, deterministic
	assigned map[prog.NodeID][]prog.NodeID

	// destination modules to synthesize: name -> reserved identity
	newModules map[string]prog.NodeID

	// import statement id -> rewrite
	pathRewrites map[prog.NodeID]*pathRewrite

	aliases aliasInfo
}

func newProgramInfo(alloc *prog.Allocator, opts Options) *programInfo {
	if opts.CatchAll == "" {
		opts.CatchAll = DefaultCatchAll
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &programInfo{
		opts:         opts,
		logger:       logger,
		alloc:        alloc,
		phase:        PhaseEmpty,
		itemByID:     make(map[prog.NodeID]*prog.Item),
		moduleByID:   make(map[prog.NodeID]*prog.Module),
		itemModule:   make(map[prog.NodeID]prog.NodeID),
		candidates:   make(map[prog.NodeID]bool),
		importIDs:    make(map[prog.NodeID]bool),
		itemToDest:   make(map[prog.NodeID]prog.NodeID),
		assigned:     make(map[prog.NodeID][]prog.NodeID),
		newModules:   make(map[string]prog.NodeID),
		pathRewrites: make(map[prog.NodeID]*pathRewrite),
		aliases:      newAliasInfo(),
	}
	// the catch-all identity is reserved up front; the module itself
	// is materialized only if something is assigned to it
	c.newModules[opts.CatchAll] = alloc.Next()
	return c
}

func (c *programInfo) requirePhase(want Phase) error {
	if c.phase != want {
		return fmt.Errorf("pipeline out of order: at %s, want %s", c.phase, want)
	}
	return nil
}

// rebuildRegistry re-indexes every module and item by identity.
// Insertion and deletion invalidate prior positions, so each phase
// that restructured the tree rebuilds before the next lookup.
func (c *programInfo) rebuildRegistry(p *prog.Program) {
	c.itemByID = make(map[prog.NodeID]*prog.Item)
	c.moduleByID = make(map[prog.NodeID]*prog.Module)
	c.itemModule = make(map[prog.NodeID]prog.NodeID)
	walk.Modules(p, func(m *prog.Module) {
		c.moduleByID[m.ID] = m
	})
	walk.Items(p, func(m *prog.Module, item *prog.Item) {
		c.itemByID[item.ID] = item
		c.itemModule[item.ID] = m.ID
	})
}

func (c *programInfo) lookupItem(id prog.NodeID) (*prog.Item, error) {
	item := c.itemByID[id]
	if item == nil {
		return nil, fmt.Errorf("registry missing item %d", id)
	}
	return item, nil
}

// reserveModule returns the identity reserved for a synthesized
// destination of the given name, allocating one on first use.
func (c *programInfo) reserveModule(name string) prog.NodeID {
	id, ok := c.newModules[name]
	if !ok {
		id = c.alloc.Next()
		c.newModules[name] = id
	}
	return id
}

// sortedCandidates returns candidate destination ids ordered by
// module name (identity as a secondary key). Candidate iteration
// order is otherwise unspecified; the lexicographic order is the
// documented tie-break that keeps the run deterministic.
func (c *programInfo) sortedCandidates() []prog.NodeID {
	ids := make([]prog.NodeID, 0, len(c.candidates))
	for id := range c.candidates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := c.moduleByID[ids[i]], c.moduleByID[ids[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return ids[i] < ids[j]
	})
	return ids
}
