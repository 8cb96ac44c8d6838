// Package prog defines the declaration-level program tree the
// reorganization engine operates on. The tree mirrors what the
// transpiler emits: one Module per original translation unit or
// header, each holding the declarations duplicated into it.
package prog

// NodeID is a stable identity for a module, item or foreign item.
// Identities are assigned by an Allocator and are unique for the
// lifetime of one program tree.
type NodeID int

// NoID is the zero identity; no allocated node ever carries it.
const NoID NodeID = 0

// Allocator hands out process-lifetime-unique, monotonically
// increasing identities. It is invocation-scoped: the ingestion step
// creates one, assigns identities to the whole tree, and the same
// allocator is passed to the engine so synthesized nodes cannot
// collide with existing ones.
type Allocator struct {
	next NodeID
}

func NewAllocator() *Allocator {
	return &Allocator{next: 1}
}

// NewAllocatorAfter returns an allocator whose next identity is past
// every identity already present in p.
func NewAllocatorAfter(p *Program) *Allocator {
	var max NodeID
	for _, m := range p.Modules {
		if m.ID > max {
			max = m.ID
		}
		for _, item := range m.Items {
			if item.ID > max {
				max = item.ID
			}
			if item.Extern != nil {
				for _, fi := range item.Extern.Items {
					if fi.ID > max {
						max = fi.ID
					}
				}
			}
		}
	}
	return &Allocator{next: max + 1}
}

func (c *Allocator) Next() NodeID {
	id := c.next
	c.next++
	return id
}

// Program is the root of the tree: an ordered sequence of modules.
// Synthesized modules are appended at the end.
type Program struct {
	Modules []*Module `json:"modules"`
}

// Module is a named container of items. The provenance tag is set
// once during ingestion and never changes.
type Module struct {
	ID         NodeID     `json:"id"`
	Name       string     `json:"name"`
	Provenance Provenance `json:"provenance"`
	Items      []*Item    `json:"items,omitempty"`
}
