package prog

// Clone deep-copies an item, preserving identities. The engine clones
// items when relocating them so the original tree position can be
// dropped independently.
func (c *Item) Clone() *Item {
	if c == nil {
		return nil
	}
	item := &Item{
		ID:   c.ID,
		Kind: c.Kind,
		Name: c.Name,
	}
	if c.Func != nil {
		fn := *c.Func
		fn.Params = append([]Field(nil), c.Func.Params...)
		item.Func = &fn
	}
	if c.Struct != nil {
		item.Struct = &StructSpec{
			Fields: append([]Field(nil), c.Struct.Fields...),
		}
	}
	if c.Alias != nil {
		alias := *c.Alias
		item.Alias = &alias
	}
	if c.Const != nil {
		cst := *c.Const
		item.Const = &cst
	}
	if c.Extern != nil {
		items := make([]*ForeignItem, len(c.Extern.Items))
		for i, fi := range c.Extern.Items {
			clone := *fi
			items[i] = &clone
		}
		item.Extern = &ExternSpec{
			ABI:   c.Extern.ABI,
			Items: items,
		}
	}
	if c.Import != nil {
		item.Import = c.Import.Clone()
	}
	return item
}

func (c *ImportSpec) Clone() *ImportSpec {
	if c == nil {
		return nil
	}
	spec := &ImportSpec{
		Prefix: append([]string(nil), c.Prefix...),
	}
	if c.Names != nil {
		spec.Names = append([]string{}, c.Names...)
	}
	return spec
}

func (c *Module) Clone() *Module {
	if c == nil {
		return nil
	}
	items := make([]*Item, len(c.Items))
	for i, item := range c.Items {
		items[i] = item.Clone()
	}
	return &Module{
		ID:         c.ID,
		Name:       c.Name,
		Provenance: c.Provenance,
		Items:      items,
	}
}

func (c *Program) Clone() *Program {
	if c == nil {
		return nil
	}
	modules := make([]*Module, len(c.Modules))
	for i, m := range c.Modules {
		modules[i] = m.Clone()
	}
	return &Program{Modules: modules}
}
