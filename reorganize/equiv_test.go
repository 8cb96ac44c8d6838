package reorganize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/declutter-dev/declutter/prog"
)

func TestEquivItems(t *testing.T) {
	b := newBuilder()
	tests := []struct {
		name string
		a    *prog.Item
		b    *prog.Item
		want bool
	}{
		{
			name: "identical funcs",
			a:    b.fn("foo", "return 1"),
			b:    b.fn("foo", "return 1"),
			want: true,
		},
		{
			name: "same name different body",
			a:    b.fn("foo", "return 1"),
			b:    b.fn("foo", "return 2"),
			want: false,
		},
		{
			name: "different names",
			a:    b.fn("foo", "return 1"),
			b:    b.fn("bar", "return 1"),
			want: false,
		},
		{
			name: "aliases match on name alone",
			a:    b.alias("size_t", "c_ulong"),
			b:    b.alias("size_t", "c_ulong_0"),
			want: true,
		},
		{
			name: "aliases with different names",
			a:    b.alias("size_t", "c_ulong"),
			b:    b.alias("ssize_t", "c_ulong"),
			want: false,
		},
		{
			name: "consts match on name alone",
			a:    b.cnst("BUF_SIZE", "1024"),
			b:    b.cnst("BUF_SIZE", "2048"),
			want: true,
		},
		{
			name: "alias never matches const",
			a:    b.alias("X", "c_int"),
			b:    b.cnst("X", "1"),
			want: false,
		},
		{
			name: "identical structs",
			a:    b.strct("List", prog.Field{Name: "head", Type: "*mut Node"}),
			b:    b.strct("List", prog.Field{Name: "head", Type: "*mut Node"}),
			want: true,
		},
		{
			name: "structs with different fields",
			a:    b.strct("List", prog.Field{Name: "head", Type: "*mut Node"}),
			b:    b.strct("List", prog.Field{Name: "tail", Type: "*mut Node"}),
			want: false,
		},
		{
			name: "imports equal after stripping relative qualifiers",
			a:    b.imp("super", "foo_h", "bar"),
			b:    b.imp("foo_h", "bar"),
			want: true,
		},
		{
			name: "nested imports compare names as a set",
			a:    b.impNested([]string{"foo_h"}, "a", "b"),
			b:    b.impNested([]string{"foo_h"}, "b", "a"),
			want: true,
		},
		{
			name: "nested vs simple import",
			a:    b.impNested([]string{"foo_h"}, "a"),
			b:    b.imp("foo_h"),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, equivItems(tt.a, tt.b))
			require.Equal(t, tt.want, equivItems(tt.b, tt.a), "relation should be symmetric")
		})
	}
}

func TestEquivForeignIsStrict(t *testing.T) {
	b := newBuilder()
	tests := []struct {
		name string
		a    *prog.ForeignItem
		b    *prog.ForeignItem
		want bool
	}{
		{
			name: "identical prototypes",
			a:    b.foreign("foo", "fn() -> c_int"),
			b:    b.foreign("foo", "fn() -> c_int"),
			want: true,
		},
		{
			name: "same name different shape",
			a:    b.foreign("foo", "fn() -> c_int"),
			b:    b.foreign("foo", "fn(c_int) -> c_int"),
			want: false,
		},
		{
			name: "func vs var",
			a:    b.foreign("errno", "c_int"),
			b:    b.foreignVar("errno", "c_int"),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, equivForeign(tt.a, tt.b))
		})
	}
}
