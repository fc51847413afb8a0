package value_test

import (
	"math"
	"testing"

	"github.com/rhino1998/bhask/pkg/kinds"
	"github.com/rhino1998/bhask/pkg/value"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	r := require.New(t)

	r.Equal("3", value.Number(3).String())
	r.Equal("-0.25", value.Number(-0.25).String())
	r.Equal("+Inf", value.Number(math.Inf(1)).String())
	r.Equal("abc", value.Chars("abc").String())
	r.Equal("1, x", value.Tuple{value.Number(1), value.Chars("x")}.String())
	r.Equal("[0, 0]", value.NewArray(kinds.Int, 2).String())
	r.Empty(value.Unit{}.String())
}

func TestCoerce(t *testing.T) {
	r := require.New(t)

	v, err := value.Coerce(value.Number(-3.9), kinds.Int)
	r.NoError(err)
	r.Equal(value.Number(-3), v)

	v, err = value.Coerce(value.Number(2.5), kinds.Float)
	r.NoError(err)
	r.Equal(value.Number(2.5), v)

	_, err = value.Coerce(value.Chars("x"), kinds.Float)
	var mismatch *value.TypeMismatchError
	r.ErrorAs(err, &mismatch)
	r.Equal(kinds.Float, mismatch.Want)
	r.Equal(kinds.Chars, mismatch.Got)

	_, err = value.Coerce(value.Number(1), kinds.Chars)
	r.ErrorAs(err, &mismatch)

	v, err = value.Coerce(value.Chars("any"), kinds.Unknown)
	r.NoError(err)
	r.Equal(value.Chars("any"), v)
}

func TestKey(t *testing.T) {
	r := require.New(t)

	r.Equal("3", value.Key(value.Number(3.99)))
	r.Equal("-3", value.Key(value.Number(-3.99)))
	r.Equal("ab", value.Key(value.Chars("ab")))
	r.Equal("NaN", value.Key(value.Number(math.NaN())))
}

func TestArray(t *testing.T) {
	r := require.New(t)

	arr := value.NewArray(kinds.Int, 2)
	r.NoError(arr.Set(1, value.Number(7.5)))

	v, err := arr.Get(1)
	r.NoError(err)
	r.Equal(value.Number(7), v)

	r.Error(arr.Set(2, value.Number(1)))
	r.Error(arr.Set(-1, value.Number(1)))
	r.Error(arr.Set(0, value.Chars("x")))

	_, err = arr.Get(5)
	r.Error(err)

	r.Equal([]any{0.0, 7.0}, value.Native(arr))
}

func TestIntOrFail(t *testing.T) {
	r := require.New(t)

	n, err := value.IntOrFail(value.Number(4.2))
	r.NoError(err)
	r.Equal(4, n)

	_, err = value.IntOrFail(value.Number(math.Inf(-1)))
	r.Error(err)

	_, err = value.IntOrFail(value.Chars("4"))
	r.Error(err)
}

func TestArray2D(t *testing.T) {
	r := require.New(t)

	arr := value.NewArray2D(kinds.Float, 2, 3)
	r.True(arr.Is2D())
	r.Equal(2, arr.Len())
	r.Equal(3, arr.Cols)

	r.NoError(arr.SetAt(1, 2, value.Number(4.5)))
	v, err := arr.GetAt(1, 2)
	r.NoError(err)
	r.Equal(value.Number(4.5), v)

	r.Error(arr.SetAt(2, 0, value.Number(1)))
	r.Error(arr.SetAt(0, 3, value.Number(1)))
	r.Error(arr.SetAt(0, 0, value.Chars("x")))
	r.Error(arr.Set(0, value.Number(1)))

	_, err = arr.Get(0)
	r.Error(err)

	_, err = value.NewArray(kinds.Int, 2).GetAt(0, 0)
	r.Error(err)

	r.Equal("[[0, 0, 0], [0, 0, 4.5]]", arr.String())
	r.Equal([]any{[]any{0.0, 0.0, 0.0}, []any{0.0, 0.0, 4.5}}, value.Native(arr))
}

func TestNativeNonFinite(t *testing.T) {
	r := require.New(t)

	r.Equal("NaN", value.Native(value.Number(math.NaN())))
	r.Equal("-Inf", value.Native(value.Number(math.Inf(-1))))
	r.Equal(2.0, value.Native(value.Number(2)))
}
