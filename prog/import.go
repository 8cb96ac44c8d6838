package prog

// Relative path qualifiers the transpiler emits on import statements.
const (
	SegmentSuper = "super"
	SegmentSelf  = "self"
)

// ImportSpec pulls names from a path into scope.
//
// A simple import has Names == nil and its target is the last prefix
// segment (`use foo_h::bar` -> Prefix ["foo_h", "bar"]). A nested
// import lists its targets in Names (`use super::{foo, bar}` ->
// Prefix ["super"], Names ["foo", "bar"]).
type ImportSpec struct {
	Prefix []string `json:"prefix"`
	Names  []string `json:"names,omitempty"`
}

func (c *ImportSpec) Nested() bool {
	return c.Names != nil
}

// Relative reports whether the prefix starts at a relative qualifier.
func (c *ImportSpec) Relative() bool {
	return len(c.Prefix) > 0 && IsRelativeSegment(c.Prefix[0])
}

func IsRelativeSegment(seg string) bool {
	return seg == SegmentSuper || seg == SegmentSelf
}

// StripRelative returns the prefix with relative qualifiers removed.
// Single-segment prefixes are kept as-is so a bare `use super` style
// statement does not collapse to nothing.
func StripRelative(prefix []string) []string {
	if len(prefix) <= 1 {
		return prefix
	}
	stripped := make([]string, 0, len(prefix))
	for _, seg := range prefix {
		if IsRelativeSegment(seg) {
			continue
		}
		stripped = append(stripped, seg)
	}
	return stripped
}
