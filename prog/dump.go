package prog

import (
	"fmt"
	"strings"
)

// Dump renders a compact one-line-per-item view of the program, used
// by debug logging and test failure output.
func (c *Program) Dump() string {
	var sb strings.Builder
	for _, m := range c.Modules {
		fmt.Fprintf(&sb, "mod %s (%s, id=%d)\n", m.Name, m.Provenance, m.ID)
		for _, item := range m.Items {
			sb.WriteString("  ")
			sb.WriteString(item.describe())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (c *Item) describe() string {
	switch c.Kind {
	case ItemImport:
		if c.Import == nil {
			return "import <nil>"
		}
		path := strings.Join(c.Import.Prefix, "::")
		if c.Import.Nested() {
			return fmt.Sprintf("import %s::{%s}", path, strings.Join(c.Import.Names, ", "))
		}
		return "import " + path
	case ItemExtern:
		var names []string
		if c.Extern != nil {
			names = make([]string, len(c.Extern.Items))
			for i, fi := range c.Extern.Items {
				names[i] = fi.Name
			}
		}
		return fmt.Sprintf("extern {%s}", strings.Join(names, ", "))
	}
	return fmt.Sprintf("%s %s", c.Kind, c.Name)
}
