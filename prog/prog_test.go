package prog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocatorAfter(t *testing.T) {
	p := &Program{
		Modules: []*Module{
			{
				ID:   3,
				Name: "app",
				Items: []*Item{
					{ID: 7, Kind: ItemFunc, Name: "main", Func: &FuncSpec{}},
					{ID: 4, Kind: ItemExtern, Extern: &ExternSpec{
						Items: []*ForeignItem{{ID: 12, Name: "errno", Kind: ForeignVar}},
					}},
				},
			},
		},
	}
	alloc := NewAllocatorAfter(p)
	require.Equal(t, NodeID(13), alloc.Next())
	require.Equal(t, NodeID(14), alloc.Next())
}

func TestCloneIsIndependent(t *testing.T) {
	item := &Item{
		ID:   1,
		Kind: ItemStruct,
		Name: "List",
		Struct: &StructSpec{
			Fields: []Field{{Name: "head", Type: "*mut Node"}},
		},
	}
	clone := item.Clone()
	require.Equal(t, item, clone)

	clone.Struct.Fields[0].Name = "tail"
	require.Equal(t, "head", item.Struct.Fields[0].Name)
}

func TestProgramJSONRoundTrip(t *testing.T) {
	p := &Program{
		Modules: []*Module{
			{
				ID:         1,
				Name:       "stdio_h",
				Provenance: ProvenanceSystem,
				Items: []*Item{
					{ID: 2, Kind: ItemExtern, Extern: &ExternSpec{
						ABI:   "C",
						Items: []*ForeignItem{{ID: 3, Name: "printf", Kind: ForeignFunc, Type: "fn(*const c_char) -> c_int"}},
					}},
					{ID: 4, Kind: ItemImport, Import: &ImportSpec{
						Prefix: []string{"super"},
						Names:  []string{"foo", "bar"},
					}},
				},
			},
		},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.Contains(t, string(data), `"provenance":"system"`)
	require.Contains(t, string(data), `"kind":"extern"`)

	var got Program
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, p, &got)
}

func TestStripRelative(t *testing.T) {
	tests := []struct {
		name   string
		prefix []string
		want   []string
	}{
		{name: "super stripped", prefix: []string{"super", "foo_h", "bar"}, want: []string{"foo_h", "bar"}},
		{name: "self stripped", prefix: []string{"self", "baz"}, want: []string{"baz"}},
		{name: "single segment kept", prefix: []string{"super"}, want: []string{"super"}},
		{name: "plain path untouched", prefix: []string{"foo_h", "bar"}, want: []string{"foo_h", "bar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StripRelative(tt.prefix))
		})
	}
}
