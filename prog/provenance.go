package prog

import (
	"encoding/json"
	"fmt"
)

// Provenance classifies where a module came from. It is computed once
// during ingestion from the transpiler's source metadata, so the
// engine never inspects path strings itself.
type Provenance int

const (
	// ProvenanceUser marks a module translated from an ordinary
	// translation unit. Only these are destination candidates.
	ProvenanceUser Provenance = iota
	// ProvenanceHeader marks a module whose items were duplicated
	// from a project header into every including translation unit.
	ProvenanceHeader
	// ProvenanceSystem marks a header module that originated from a
	// system include directory. Its symbols funnel into the catch-all
	// destination.
	ProvenanceSystem
)

// FromHeader reports whether the module's items are header
// duplicates subject to relocation.
func (p Provenance) FromHeader() bool {
	return p == ProvenanceHeader || p == ProvenanceSystem
}

func (p Provenance) String() string {
	switch p {
	case ProvenanceUser:
		return "user"
	case ProvenanceHeader:
		return "header"
	case ProvenanceSystem:
		return "system"
	}
	return fmt.Sprintf("provenance(%d)", int(p))
}

func (p Provenance) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Provenance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "user":
		*p = ProvenanceUser
	case "header":
		*p = ProvenanceHeader
	case "system":
		*p = ProvenanceSystem
	default:
		return fmt.Errorf("unrecognized provenance: %q", s)
	}
	return nil
}
