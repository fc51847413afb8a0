package kinds_test

import (
	"testing"

	"github.com/rhino1998/bhask/pkg/kinds"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	r := require.New(t)

	d, ok := kinds.Lookup("let")
	r.True(ok)
	r.Equal(kinds.Float, d.Kind)

	d, ok = kinds.Lookup("int_arr")
	r.True(ok)
	r.Equal(kinds.Declared{Kind: kinds.Array, Elem: kinds.Int}, d)
	r.Equal("int_arr", d.String())

	_, ok = kinds.Lookup("bool")
	r.False(ok)

	r.True(kinds.IsScalarKeyword("chars"))
	r.False(kinds.IsScalarKeyword("float_arr"))
	r.True(kinds.IsArrayKeyword("float_arr"))
	r.True(kinds.Int.IsNumeric())
	r.False(kinds.Chars.IsNumeric())
}
