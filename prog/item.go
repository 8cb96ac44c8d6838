package prog

import (
	"encoding/json"
	"fmt"
)

type ItemKind int

const (
	ItemUnknown ItemKind = iota
	ItemFunc
	ItemStruct
	ItemAlias
	ItemConst
	ItemExtern
	ItemImport
)

func (k ItemKind) String() string {
	switch k {
	case ItemFunc:
		return "func"
	case ItemStruct:
		return "struct"
	case ItemAlias:
		return "alias"
	case ItemConst:
		return "const"
	case ItemExtern:
		return "extern"
	case ItemImport:
		return "import"
	}
	return fmt.Sprintf("item(%d)", int(k))
}

func (k ItemKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "func":
		*k = ItemFunc
	case "struct":
		*k = ItemStruct
	case "alias":
		*k = ItemAlias
	case "const":
		*k = ItemConst
	case "extern":
		*k = ItemExtern
	case "import":
		*k = ItemImport
	default:
		return fmt.Errorf("unrecognized item kind: %q", s)
	}
	return nil
}

// Item is one top-level declaration. Exactly one of the kind-specific
// fields is set, matching Kind. Import statements have no Name.
// The parent module is tracked externally by the engine's registry,
// not embedded here.
type Item struct {
	ID   NodeID   `json:"id"`
	Kind ItemKind `json:"kind"`
	Name string   `json:"name,omitempty"`

	Func   *FuncSpec   `json:"func,omitempty"`
	Struct *StructSpec `json:"struct,omitempty"`
	Alias  *AliasSpec  `json:"alias,omitempty"`
	Const  *ConstSpec  `json:"const,omitempty"`
	Extern *ExternSpec `json:"extern,omitempty"`
	Import *ImportSpec `json:"import,omitempty"`
}

// IsDefinition reports whether the item is a full definition capable
// of superseding a foreign prototype of the same name.
func (c *Item) IsDefinition() bool {
	return c.Kind == ItemFunc || c.Kind == ItemStruct
}

type Field struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

type FuncSpec struct {
	Params []Field `json:"params,omitempty"`
	Result string  `json:"result,omitempty"`
	// Body is the translated function body, opaque to the engine.
	Body string `json:"body,omitempty"`
}

type StructSpec struct {
	Fields []Field `json:"fields,omitempty"`
}

// AliasSpec is a type alias. Target may be a transpiler-synthesized
// name, so equivalence deliberately ignores it.
type AliasSpec struct {
	Target string `json:"target"`
}

type ConstSpec struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
}

// ExternSpec is an extern/foreign block holding prototype-only
// entries.
type ExternSpec struct {
	ABI   string         `json:"abi,omitempty"`
	Items []*ForeignItem `json:"items,omitempty"`
}

type ForeignKind int

const (
	ForeignFunc ForeignKind = iota
	ForeignVar
)

func (k ForeignKind) String() string {
	if k == ForeignVar {
		return "var"
	}
	return "func"
}

func (k ForeignKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ForeignKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "func":
		*k = ForeignFunc
	case "var":
		*k = ForeignVar
	default:
		return fmt.Errorf("unrecognized foreign kind: %q", s)
	}
	return nil
}

// ForeignItem is a prototype inside an extern block: a name and a
// shape, no body.
type ForeignItem struct {
	ID   NodeID      `json:"id"`
	Name string      `json:"name"`
	Kind ForeignKind `json:"kind"`
	// Type is the variable type, or the full signature for functions.
	Type string `json:"type,omitempty"`
}
